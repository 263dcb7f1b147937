package layout

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestWrap_Budget(t *testing.T) {
	got := Wrap("a b c d", 3)
	want := []string{"a b", "c d"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWrap_NeverSplitsWords(t *testing.T) {
	text := "The Assassination of Jesse James by the Coward Robert Ford"
	for budget := 1; budget <= 40; budget++ {
		lines := Wrap(text, budget)
		for _, l := range lines {
			if utf8.RuneCountInString(l) > budget && strings.Contains(l, " ") {
				t.Fatalf("budget %d: multi-word line %q exceeds budget", budget, l)
			}
		}
		if got := strings.Join(lines, " "); got != text {
			t.Fatalf("budget %d: reconstruction %q != %q", budget, got, text)
		}
	}
}

func TestWrap_LongWordOwnLine(t *testing.T) {
	got := Wrap("a supercalifragilistic b", 5)
	want := []string{"a", "supercalifragilistic", "b"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got %q", got)
	}
}

func TestWrap_Empty(t *testing.T) {
	if got := Wrap("", 10); len(got) != 0 {
		t.Fatalf("expected no lines, got %q", got)
	}
	if got := Wrap("   ", 10); len(got) != 0 {
		t.Fatalf("expected no lines, got %q", got)
	}
}

func TestWrapPixels(t *testing.T) {
	// 0.6*80 = 48px per glyph; 920/48 = 19 chars per line.
	if n := CharsForWidth(80, 920); n != 19 {
		t.Fatalf("CharsForWidth = %d", n)
	}
	lines := WrapPixels("Everything Everywhere All at Once", 80, 920, 3)
	want := []string{"Everything", "Everywhere All at", "Once"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("got %q, want %q", lines, want)
	}
}

func TestWrapPixels_CapsLines(t *testing.T) {
	text := strings.Repeat("word ", 40)
	lines := WrapPixels(text, 80, 920, 3)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[2], "...") {
		t.Fatalf("last line should mark the cut: %q", lines[2])
	}
}

func TestColumn_Block(t *testing.T) {
	c := Column{Y: 100, LineHeight: 72, Gap: 60}
	ys := c.Block(2)
	if len(ys) != 2 || ys[0] != 100 || ys[1] != 172 {
		t.Fatalf("baselines = %v", ys)
	}
	if c.Y != 232 {
		t.Fatalf("cursor = %d, want 232", c.Y)
	}
	if ys := c.Block(0); ys != nil || c.Y != 232 {
		t.Fatalf("empty block moved the cursor to %d", c.Y)
	}
}

func TestColumn_Monotonic(t *testing.T) {
	c := Column{Y: 0, LineHeight: 40, Gap: -100}
	last := -1
	for i := 0; i < 5; i++ {
		for _, y := range c.Block(2) {
			if y < last {
				t.Fatalf("emitted %d above previous line %d", y, last)
			}
			last = y
		}
		c.Skip(-50)
	}
	if y := c.Line(); y < last {
		t.Fatalf("line %d above %d", y, last)
	}
}

func TestColumn_End(t *testing.T) {
	c := Column{Y: 100, LineHeight: 72, Gap: 40}
	last := c.Line()
	c.End(last)
	if c.Y != 140 {
		t.Fatalf("cursor = %d, want 140", c.Y)
	}
	if y := c.Line(); y <= last {
		t.Fatalf("next line %d not below %d", y, last)
	}

	c = Column{Y: 0, LineHeight: 72, Gap: -10}
	c.End(c.Line())
	if c.Y != 0 {
		t.Fatalf("negative gap moved cursor to %d", c.Y)
	}
}
