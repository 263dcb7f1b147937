// Package rank orders candidate background images by how well they will fill
// a poster: resolution, closeness to 16:9 and community votes.
package rank

import (
	"math"
	"sort"

	"github.com/youruser/posterboxd/internal/media"
)

const targetAspect = 1.78

// Score is the quality score of one candidate. Higher is better.
func Score(img media.Image) float64 {
	w, h := float64(img.Width), float64(img.Height)

	score := w * h / 100000

	aspect := 0.0
	if w > 0 && h > 0 {
		aspect = w / h
	}
	score -= 10 * math.Abs(aspect-targetAspect)

	if img.VoteAverage > 0 {
		score += 5 * img.VoteAverage
	}
	if img.VoteCount > 0 {
		score += math.Min(float64(img.VoteCount)/10, 5)
	}
	return score
}

// Sort returns a best-first copy of imgs. Equal scores keep their input order.
func Sort(imgs []media.Image) []media.Image {
	out := make([]media.Image, len(imgs))
	copy(out, imgs)

	scores := make([]float64, len(out))
	idx := make([]int, len(out))
	for i := range out {
		idx[i] = i
		scores[i] = Score(out[i])
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	sorted := make([]media.Image, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}
