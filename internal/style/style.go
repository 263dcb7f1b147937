// Package style holds the per-request poster options and their lenient
// decoding from loosely typed JSON.
package style

import (
	"strings"

	"github.com/spf13/cast"

	imagepkg "github.com/youruser/posterboxd/internal/image"
)

type Mode string

const (
	ModeClassic      Mode = "classic"
	ModeExperimental Mode = "experimental"
)

// Content section keys understood by the classic layout.
const (
	SectionTitle    = "title"
	SectionYear     = "year"
	SectionGenre    = "genre"
	SectionDirector = "director"
	SectionRuntime  = "runtime"
	SectionMusic    = "music"
	SectionActors   = "actors"
	SectionRating   = "rating"
	SectionTags     = "tags"
)

var sections = map[string]bool{
	SectionTitle: true, SectionYear: true, SectionGenre: true, SectionDirector: true,
	SectionRuntime: true, SectionMusic: true, SectionActors: true, SectionRating: true,
	SectionTags: true,
}

// DefaultContentOrder leaves runtime out, as new clients do.
var DefaultContentOrder = []string{
	SectionTitle, SectionYear, SectionGenre, SectionDirector,
	SectionActors, SectionRating, SectionTags, SectionMusic,
}

type Show struct {
	Title       bool `json:"title"`
	Year        bool `json:"year"`
	Genre       bool `json:"genre"`
	Director    bool `json:"director"`
	Runtime     bool `json:"runtime"`
	Music       bool `json:"music"`
	Actors      bool `json:"actors"`
	Rating      bool `json:"rating"`
	Heart       bool `json:"heart"`
	Tags        bool `json:"tags"`
	WatchedDate bool `json:"watched_date"`
	Credits     bool `json:"credits"`
	Logo        bool `json:"logo"`
	QR          bool `json:"qr"`
}

// Section reports whether the content section key is enabled.
func (s Show) Section(key string) bool {
	switch key {
	case SectionTitle:
		return s.Title
	case SectionYear:
		return s.Year
	case SectionGenre:
		return s.Genre
	case SectionDirector:
		return s.Director
	case SectionRuntime:
		return s.Runtime
	case SectionMusic:
		return s.Music
	case SectionActors:
		return s.Actors
	case SectionRating:
		return s.Rating
	case SectionTags:
		return s.Tags
	}
	return false
}

type Spacing struct {
	PosterTop        int `json:"poster_top"`
	TitleBelowPoster int `json:"title_below_poster"`
	LineHeight       int `json:"line_height"`
	BetweenSections  int `json:"between_sections"`
}

type LogoAlignment string

const (
	AlignLeft   LogoAlignment = "left"
	AlignCenter LogoAlignment = "center"
)

type Experimental struct {
	LogoAlignment   LogoAlignment `json:"logo_alignment"`
	LogoScale       float64       `json:"logo_scale"`
	CreditsFontSize float64       `json:"credits_font_size"`
}

// Config is the full set of options for one render.
type Config struct {
	Mode         Mode     `json:"mode"`
	ContentOrder []string `json:"content_order"`
	Show         Show     `json:"show"`
	Spacing      Spacing  `json:"spacing"`

	BlurBackdrop       bool    `json:"blur_backdrop"`
	BackdropBrightness float64 `json:"backdrop_brightness"`
	GradientOverlay    bool    `json:"gradient_overlay"`

	PosterScale float64 `json:"poster_scale"`
	// FooterScale 0 picks the source-dependent default.
	FooterScale float64 `json:"footer_scale"`

	Experimental Experimental `json:"experimental"`

	Format imagepkg.Format `json:"format"`
	// SelectedSeason 0 means the whole series.
	SelectedSeason int `json:"selected_season"`
}

const (
	DefaultPosterTop        = 240
	DefaultTitleBelowPoster = 60
	DefaultLineHeight       = 72
	DefaultBetweenSections  = 72
	DefaultBrightness       = 0.6
	DefaultCreditsFontSize  = 28
)

func Default() Config {
	return Config{
		Mode:         ModeClassic,
		ContentOrder: append([]string(nil), DefaultContentOrder...),
		Show: Show{
			Title: true, Year: true, Genre: true, Director: true, Runtime: true,
			Music: true, Actors: true, Rating: true, Heart: true, Tags: true,
			WatchedDate: true, Credits: true, Logo: true,
		},
		Spacing: Spacing{
			PosterTop:        DefaultPosterTop,
			TitleBelowPoster: DefaultTitleBelowPoster,
			LineHeight:       DefaultLineHeight,
			BetweenSections:  DefaultBetweenSections,
		},
		BlurBackdrop:       true,
		BackdropBrightness: DefaultBrightness,
		PosterScale:        1,
		Experimental: Experimental{
			LogoAlignment:   AlignLeft,
			LogoScale:       1,
			CreditsFontSize: DefaultCreditsFontSize,
		},
		Format: imagepkg.PNG,
	}
}

// Normalize clamps every numeric option into its usable range and replaces
// unusable values with defaults. It never fails.
func (c *Config) Normalize() {
	if c.Mode != ModeExperimental {
		c.Mode = ModeClassic
	}
	c.ContentOrder = cleanOrder(c.ContentOrder)

	c.Spacing.PosterTop = clampInt(orDefault(c.Spacing.PosterTop, DefaultPosterTop), 0, 1800)
	c.Spacing.TitleBelowPoster = clampInt(orDefault(c.Spacing.TitleBelowPoster, DefaultTitleBelowPoster), 0, 600)
	c.Spacing.LineHeight = clampInt(orDefault(c.Spacing.LineHeight, DefaultLineHeight), 16, 240)
	c.Spacing.BetweenSections = clampInt(orDefault(c.Spacing.BetweenSections, DefaultBetweenSections), 0, 400)

	// Clients send brightness either as a multiplier or as a percentage.
	if c.BackdropBrightness > 2 {
		c.BackdropBrightness /= 100
	}
	c.BackdropBrightness = clampFloat(c.BackdropBrightness, 0, 2)

	if c.PosterScale <= 0 {
		c.PosterScale = 1
	}
	c.PosterScale = clampFloat(c.PosterScale, 0.25, 2)
	c.FooterScale = clampFloat(c.FooterScale, 0, 3)

	if c.Experimental.LogoAlignment != AlignCenter {
		c.Experimental.LogoAlignment = AlignLeft
	}
	if c.Experimental.LogoScale <= 0 {
		c.Experimental.LogoScale = 1
	}
	c.Experimental.LogoScale = clampFloat(c.Experimental.LogoScale, 0.25, 3)
	if c.Experimental.CreditsFontSize <= 0 {
		c.Experimental.CreditsFontSize = DefaultCreditsFontSize
	}
	c.Experimental.CreditsFontSize = clampFloat(c.Experimental.CreditsFontSize, 12, 64)

	c.Format = imagepkg.ParseFormat(string(c.Format))
	if c.SelectedSeason < 0 {
		c.SelectedSeason = 0
	}
}

// Parse decodes loosely typed client settings on top of Default. Values of
// the wrong type are ignored, numbers may arrive as strings.
func Parse(raw map[string]any) Config {
	c := Default()
	if raw == nil {
		return c
	}

	if v, ok := raw["posterStyle"]; ok {
		c.Mode = Mode(strings.ToLower(cast.ToString(v)))
	}
	if v, ok := raw["mode"]; ok {
		if m := Mode(strings.ToLower(cast.ToString(v))); m == ModeClassic || m == ModeExperimental {
			c.Mode = m
		}
	}
	if v, ok := raw["contentOrder"]; ok {
		if order, err := cast.ToStringSliceE(v); err == nil {
			c.ContentOrder = order
		}
	}

	flags := map[string]*bool{
		"showTitle": &c.Show.Title, "showYear": &c.Show.Year, "showGenre": &c.Show.Genre,
		"showDirector": &c.Show.Director, "showRuntime": &c.Show.Runtime, "showMusic": &c.Show.Music,
		"showActors": &c.Show.Actors, "showRating": &c.Show.Rating, "showHeart": &c.Show.Heart,
		"showTags": &c.Show.Tags, "showWatchedDate": &c.Show.WatchedDate,
		"showCredits": &c.Show.Credits, "showLogo": &c.Show.Logo, "showQR": &c.Show.QR,
		"blurBackdrop": &c.BlurBackdrop, "gradientOverlay": &c.GradientOverlay,
	}
	for k, dst := range flags {
		setBool(raw, k, dst)
	}

	setFloat(raw, "backdropBrightness", &c.BackdropBrightness)
	setFloat(raw, "posterScale", &c.PosterScale)
	setFloat(raw, "footerScale", &c.FooterScale)
	setInt(raw, "selectedSeason", &c.SelectedSeason)
	if v, ok := raw["format"]; ok {
		c.Format = imagepkg.Format(cast.ToString(v))
	}

	if sp, err := cast.ToStringMapE(raw["spacing"]); err == nil {
		setInt(sp, "posterTop", &c.Spacing.PosterTop)
		setInt(sp, "titleBelowPoster", &c.Spacing.TitleBelowPoster)
		setInt(sp, "lineHeight", &c.Spacing.LineHeight)
		setInt(sp, "betweenSections", &c.Spacing.BetweenSections)
	}
	if ex, err := cast.ToStringMapE(raw["experimentalSettings"]); err == nil {
		if v, ok := ex["logoAlignment"]; ok {
			c.Experimental.LogoAlignment = LogoAlignment(strings.ToLower(cast.ToString(v)))
		}
		setFloat(ex, "logoScale", &c.Experimental.LogoScale)
		setFloat(ex, "creditsFontSize", &c.Experimental.CreditsFontSize)
	}

	c.Normalize()
	return c
}

func setBool(m map[string]any, key string, dst *bool) {
	if v, ok := m[key]; ok {
		if b, err := cast.ToBoolE(v); err == nil {
			*dst = b
		}
	}
}

func setFloat(m map[string]any, key string, dst *float64) {
	if v, ok := m[key]; ok {
		if f, err := cast.ToFloat64E(v); err == nil {
			*dst = f
		}
	}
}

func setInt(m map[string]any, key string, dst *int) {
	if v, ok := m[key]; ok {
		if f, err := cast.ToFloat64E(v); err == nil {
			*dst = int(f)
		}
	}
}

func cleanOrder(order []string) []string {
	if len(order) == 0 {
		return append([]string(nil), DefaultContentOrder...)
	}
	seen := make(map[string]bool, len(order))
	out := make([]string, 0, len(order))
	for _, k := range order {
		k = strings.ToLower(strings.TrimSpace(k))
		if sections[k] && !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func clampFloat(v, lo, hi float64) float64 {
	if v != v {
		return lo
	}
	return max(lo, min(v, hi))
}
