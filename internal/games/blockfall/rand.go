package blockfall

// Rand is the uniform random source used to pick shapes and colors.
// *math/rand.Rand satisfies it.
type Rand interface {
	// Intn returns a value in [0, n).
	Intn(n int) int
}

// SequenceRand replays a fixed list of values, wrapping around at the end.
// Each value is reduced modulo n, so tests can script exact spawns.
type SequenceRand struct {
	values []int
	next   int
}

// NewSequenceRand returns a source that yields values in order.
func NewSequenceRand(values ...int) *SequenceRand {
	return &SequenceRand{values: values}
}

// Intn returns the next scripted value modulo n.
func (s *SequenceRand) Intn(n int) int {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
