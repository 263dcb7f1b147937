package media

import (
	"fmt"
	"math"
	"strings"
)

// ImageURL joins a TMDB image base, a size token (w500, w1280, original) and a file path.
func ImageURL(base, size, path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + size + path
}

// FormatRuntime renders minutes as "2h 28min".
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	return fmt.Sprintf("%dh %dmin", minutes/60, minutes%60)
}

// StarString renders a 0–5 rating as full stars, an optional half and empty
// stars. A fractional part of 0.5 or more counts as a half star.
func StarString(rating float64) string {
	if rating <= 0 {
		return ""
	}
	if rating > 5 {
		rating = 5
	}
	full := int(math.Floor(rating))
	half := rating-float64(full) >= 0.5
	empty := 5 - full
	if half {
		empty--
	}
	var b strings.Builder
	b.WriteString(strings.Repeat("★", full))
	if half {
		b.WriteString("½")
	}
	b.WriteString(strings.Repeat("☆", empty))
	return b.String()
}

// YearRange renders a series' run. Both years are shown only when they differ
// and the show is not still returning; otherwise the range stays open.
func YearRange(r Record) string {
	start := yearOf(r.FirstAirDate)
	if start == "" {
		return ""
	}
	end := yearOf(r.LastAirDate)
	if end != "" && end != start && r.Status != "Returning Series" {
		return start + "–" + end
	}
	return start + "–"
}

// SeasonSummary renders "45min | 5 Seasons | 62 Episodes". The runtime part is
// the rounded mean of the episode runtimes and is omitted when unknown.
func SeasonSummary(r Record) string {
	if r.Seasons <= 0 || r.Episodes <= 0 {
		return ""
	}
	var parts []string
	if rt := meanRuntime(r.EpisodeRunTime); rt > 0 {
		parts = append(parts, fmt.Sprintf("%dmin", rt))
	}
	parts = append(parts, plural(r.Seasons, "Season"), plural(r.Episodes, "Episode"))
	return strings.Join(parts, " | ")
}

// SingleSeasonSummary is SeasonSummary for one selected season.
func SingleSeasonSummary(s Season) string {
	if s.Episodes <= 0 {
		return ""
	}
	label := s.Name
	if label == "" {
		label = fmt.Sprintf("Season %d", s.Number)
	}
	parts := []string{label}
	if rt := meanRuntime(s.EpisodeRunTime); rt > 0 {
		parts = append(parts, fmt.Sprintf("%dmin", rt))
	}
	parts = append(parts, plural(s.Episodes, "Episode"))
	return strings.Join(parts, " | ")
}

func meanRuntime(rts []int) int {
	if len(rts) == 0 {
		return 0
	}
	sum := 0
	for _, v := range rts {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(rts))))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func yearOf(date string) string {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

// YearOf exposes the leading year of an ISO date.
func YearOf(date string) string { return yearOf(date) }
