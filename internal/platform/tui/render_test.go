package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/vovakirdan/blockfall/internal/core"
)

func TestRenderScreenPlainText(t *testing.T) {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.Ascii)
	p := NewPalette(r)

	s := core.NewScreen(6, 2)
	s.DrawText(0, 0, "ab")
	s.SetColored(2, 0, '█', core.ColorRed)
	s.SetColored(3, 0, '█', core.ColorRed)
	s.DrawTextColored(0, 1, "xyz", core.ColorGray)

	out := p.Render(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "ab██  " {
		t.Errorf("Line 0 = %q", lines[0])
	}
	if lines[1] != "xyz   " {
		t.Errorf("Line 1 = %q", lines[1])
	}
}

func TestRenderScreenColors(t *testing.T) {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.ANSI256)
	p := NewPalette(r)

	s := core.NewScreen(4, 1)
	s.SetColored(0, 0, '█', core.ColorRed)
	s.SetColored(1, 0, '█', core.ColorRed)

	out := p.Render(s)
	if !strings.Contains(out, "\x1b[") {
		t.Errorf("Expected ANSI escapes in %q", out)
	}
	if !strings.Contains(out, "██") {
		t.Errorf("Same-colored cells should render as one run: %q", out)
	}
}
