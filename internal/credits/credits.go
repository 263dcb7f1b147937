// Package credits groups raw crew credits into the short list of role lines
// shown on a poster.
package credits

import (
	"strings"
	"unicode/utf8"

	"github.com/youruser/posterboxd/internal/media"
)

const (
	RoleDirector       = "Director"
	RoleWriter         = "Writer"
	RoleSound          = "Sound"
	RoleCast           = "Cast"
	RolePhotography    = "Director of Photography"
	RoleProducer       = "Producer"
	RoleDirectorWriter = "Director / Writer"

	// MaxLineChars is the character budget of one rendered credit line.
	MaxLineChars = 60

	castLimit = 3
)

// Order is the display order of the retained roles.
var Order = []string{RoleDirector, RoleWriter, RoleSound, RoleCast, RolePhotography, RoleProducer}

var aliases = map[string]string{
	"Director of Photography (DOP)": RolePhotography,
	"Cinematography":                RolePhotography,
	"Sound Designer":                RoleSound,
	"Original Music Composer":       RoleSound,
}

type Group struct {
	Role  string   `json:"role"`
	Names []string `json:"names"`
}

// Canonical maps a TMDB job title onto a display role. ok is false for jobs
// that are not shown.
func Canonical(job string) (role string, ok bool) {
	if a, found := aliases[job]; found {
		job = a
	}
	for _, r := range Order {
		if r == job {
			return r, true
		}
	}
	return "", false
}

// Aggregate builds the ordered role groups for crew and billed cast.
func Aggregate(crew []media.Credit, cast []media.CastMember) []Group {
	byRole := make(map[string][]string, len(Order))
	for _, c := range crew {
		role, ok := Canonical(c.Job)
		if !ok || c.Name == "" {
			continue
		}
		if !contains(byRole[role], c.Name) {
			byRole[role] = append(byRole[role], c.Name)
		}
	}

	if len(cast) > 0 {
		var names []string
		for _, m := range cast {
			if len(names) == castLimit {
				break
			}
			if m.Name != "" && !contains(names, m.Name) {
				names = append(names, m.Name)
			}
		}
		byRole[RoleCast] = names
	}

	out := make([]Group, 0, len(Order))
	dir, wri := byRole[RoleDirector], byRole[RoleWriter]
	merged := len(dir) == 1 && len(wri) == 1 && dir[0] == wri[0]

	for _, role := range Order {
		switch {
		case merged && role == RoleDirector:
			out = append(out, Group{Role: RoleDirectorWriter, Names: []string{dir[0]}})
			continue
		case merged && role == RoleWriter:
			continue
		}
		if names := byRole[role]; len(names) > 0 {
			out = append(out, Group{Role: role, Names: names})
		}
	}
	return out
}

// Line renders the group as "Role: a, b" within budget characters. It drops
// trailing names (marking the cut with " & others") and, if a single name is
// still too long, truncates it with "...". The role prefix and the names part
// are returned separately so callers can style them differently.
func (g Group) Line(budget int) (prefix, names string) {
	prefix = g.Role + ":"
	shown := append([]string(nil), g.Names...)

	text := func(list []string, others bool) string {
		s := strings.Join(list, ", ")
		if others {
			s += " & others"
		}
		return s
	}

	names = text(shown, false)
	for runeLen(prefix+" "+names) > budget && len(shown) > 1 {
		shown = shown[:len(shown)-1]
		names = text(shown, true)
	}
	if runeLen(prefix+" "+names) > budget && len(shown) == 1 {
		max := budget - runeLen(prefix+" ") - 3
		if max < 0 {
			max = 0
		}
		names = truncateRunes(shown[0], max) + "..."
	}
	return prefix, names
}

// String is the full rendered line within MaxLineChars.
func (g Group) String() string {
	p, n := g.Line(MaxLineChars)
	return p + " " + n
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }

func truncateRunes(s string, n int) string {
	if runeLen(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
