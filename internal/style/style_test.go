package style

import (
	"strings"
	"testing"

	imagepkg "github.com/youruser/posterboxd/internal/image"
)

func TestParse_Defaults(t *testing.T) {
	c := Parse(nil)
	if c.Mode != ModeClassic || c.Format != imagepkg.PNG {
		t.Fatalf("mode/format = %q/%q", c.Mode, c.Format)
	}
	if strings.Join(c.ContentOrder, ",") != strings.Join(DefaultContentOrder, ",") {
		t.Fatalf("content order = %v", c.ContentOrder)
	}
	if !c.Show.Title || !c.Show.Heart || !c.Show.Logo || c.Show.QR {
		t.Fatalf("unexpected show defaults: %+v", c.Show)
	}
	if c.Spacing.LineHeight != DefaultLineHeight || c.BackdropBrightness != DefaultBrightness {
		t.Fatalf("spacing/brightness defaults: %+v %v", c.Spacing, c.BackdropBrightness)
	}
}

func TestParse_LenientTypes(t *testing.T) {
	c := Parse(map[string]any{
		"posterStyle":        "Experimental",
		"showTags":           "false",
		"showYear":           0,
		"showQR":             "true",
		"backdropBrightness": "0.4",
		"posterScale":        1.5,
		"format":             "jpg",
		"selectedSeason":     "2",
		"spacing": map[string]any{
			"posterTop":       "300",
			"lineHeight":      60.0,
			"betweenSections": -20,
		},
		"experimentalSettings": map[string]any{
			"logoAlignment":   "CENTER",
			"logoScale":       "1.2",
			"creditsFontSize": 32,
		},
		"showGenre": []int{1},
	})

	if c.Mode != ModeExperimental {
		t.Fatalf("mode = %q", c.Mode)
	}
	if c.Show.Tags || c.Show.Year || !c.Show.QR || !c.Show.Genre {
		t.Fatalf("flags = %+v", c.Show)
	}
	if c.BackdropBrightness != 0.4 || c.PosterScale != 1.5 {
		t.Fatalf("floats = %v %v", c.BackdropBrightness, c.PosterScale)
	}
	if c.Format != imagepkg.JPEG || c.SelectedSeason != 2 {
		t.Fatalf("format/season = %q/%d", c.Format, c.SelectedSeason)
	}
	if c.Spacing.PosterTop != 300 || c.Spacing.LineHeight != 60 || c.Spacing.BetweenSections != 0 {
		t.Fatalf("spacing = %+v", c.Spacing)
	}
	if c.Experimental.LogoAlignment != AlignCenter || c.Experimental.LogoScale != 1.2 || c.Experimental.CreditsFontSize != 32 {
		t.Fatalf("experimental = %+v", c.Experimental)
	}
}

func TestNormalize_Clamps(t *testing.T) {
	c := Default()
	c.Mode = "weird"
	c.BackdropBrightness = 60
	c.PosterScale = 10
	c.FooterScale = -1
	c.Spacing.LineHeight = 5000
	c.Experimental.CreditsFontSize = 1
	c.Format = "webp"
	c.SelectedSeason = -3
	c.Normalize()

	if c.Mode != ModeClassic {
		t.Fatalf("mode = %q", c.Mode)
	}
	if c.BackdropBrightness != 0.6 {
		t.Fatalf("percent brightness should be converted, got %v", c.BackdropBrightness)
	}
	if c.PosterScale != 2 || c.FooterScale != 0 {
		t.Fatalf("scales = %v %v", c.PosterScale, c.FooterScale)
	}
	if c.Spacing.LineHeight != 240 || c.Experimental.CreditsFontSize != 12 {
		t.Fatalf("clamps = %d %v", c.Spacing.LineHeight, c.Experimental.CreditsFontSize)
	}
	if c.Format != imagepkg.PNG || c.SelectedSeason != 0 {
		t.Fatalf("format/season = %q/%d", c.Format, c.SelectedSeason)
	}

	c.BackdropBrightness = 250
	c.Normalize()
	if c.BackdropBrightness != 2 {
		t.Fatalf("brightness should clamp to 2, got %v", c.BackdropBrightness)
	}
}

func TestContentOrder_DropsUnknown(t *testing.T) {
	c := Parse(map[string]any{
		"contentOrder": []any{"rating", "bogus", "Title", "rating", "runtime"},
	})
	if got := strings.Join(c.ContentOrder, ","); got != "rating,title,runtime" {
		t.Fatalf("order = %s", got)
	}
}

func TestShow_Section(t *testing.T) {
	s := Default().Show
	s.Music = false
	if s.Section(SectionMusic) || !s.Section(SectionTitle) || s.Section("nope") {
		t.Fatalf("Section lookup wrong: %+v", s)
	}
}
