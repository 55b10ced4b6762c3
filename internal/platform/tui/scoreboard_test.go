package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

func init() {
	registry.Register("tui_stub_wide", func() registry.Game { return &stubGame{} })
}

func boardUpdate(t *testing.T, m ScoreboardModel, msg tea.Msg) ScoreboardModel {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(ScoreboardModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

func column(m ScoreboardModel, col int) []string {
	var out []string
	for _, row := range m.table.Rows() {
		out = append(out, row[col])
	}
	return out
}

func TestScoreboardTopAndRecent(t *testing.T) {
	store := openStore(t)
	for _, score := range []int{100, 500, 300} {
		if _, err := store.SaveResult(storage.Result{GameID: "tui_stub", Score: score, Pieces: 5, Duration: 75 * time.Second}); err != nil {
			t.Fatalf("SaveResult failed: %v", err)
		}
	}

	m := NewScoreboardModel(store, 100, 30)
	if got := strings.Join(column(m, 1), ","); got != "500,300,100" {
		t.Errorf("top scores = %s, expected 500,300,100", got)
	}
	if got := m.table.Rows()[0][4]; got != "1:15" {
		t.Errorf("time column = %q, expected 1:15", got)
	}
	if !strings.Contains(m.View(), "HIGH SCORES") {
		t.Error("expected the high scores title")
	}
	if !strings.Contains(m.View(), "3 games") {
		t.Error("expected the stats line")
	}

	m = boardUpdate(t, m, runeKey('r'))
	if got := strings.Join(column(m, 1), ","); got != "300,500,100" {
		t.Errorf("recent runs = %s, expected 300,500,100", got)
	}
	if !strings.Contains(m.View(), "RECENT RUNS") {
		t.Error("expected the recent runs title")
	}

	m = boardUpdate(t, m, runeKey('r'))
	if m.view != viewTop {
		t.Error("r should toggle back to high scores")
	}
}

func TestScoreboardCyclesVariants(t *testing.T) {
	store := openStore(t)
	if _, err := store.SaveResult(storage.Result{GameID: "tui_stub_wide", Score: 42, Pieces: 3}); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	m := NewScoreboardModel(store, 100, 30)
	if len(m.variants) < 2 {
		t.Fatalf("expected at least 2 variants, got %d", len(m.variants))
	}
	if m.variants[m.current].ID != "tui_stub" {
		t.Fatalf("first variant = %q", m.variants[m.current].ID)
	}
	if len(m.table.Rows()) != 0 {
		t.Errorf("expected no rows for tui_stub, got %d", len(m.table.Rows()))
	}

	m = boardUpdate(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.variants[m.current].ID != "tui_stub_wide" {
		t.Fatalf("tab moved to %q", m.variants[m.current].ID)
	}
	if got := column(m, 1); len(got) != 1 || got[0] != "42" {
		t.Errorf("rows = %v, expected [42]", got)
	}

	m = boardUpdate(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.variants[m.current].ID != "tui_stub" {
		t.Errorf("left moved to %q, expected tui_stub", m.variants[m.current].ID)
	}
}

func TestScoreboardWithoutStore(t *testing.T) {
	m := NewScoreboardModel(nil, 60, 20)
	if !strings.Contains(m.View(), "No runs recorded yet.") {
		t.Error("expected the empty message")
	}

	m = boardUpdate(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.IsGoingBack() || m.IsQuitting() {
		t.Error("Esc should go back without quitting")
	}
}
