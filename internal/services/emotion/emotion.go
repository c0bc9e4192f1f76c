package emotion

import (
	"image"
	"math"

	"photobooth/internal/model"
)

// Labels is the closed set of emotion labels, in declaration order.
// Dominant-emotion ties are broken by this order so results stay
// deterministic across runs.
var Labels = []string{"angry", "disgust", "fear", "happy", "sad", "surprise", "neutral"}

// Result holds the per-label intensity scores for one photo.
type Result struct {
	Scores    model.EmotionScores
	FaceFound bool
}

// Dominant returns the label with the maximal score.
func (r *Result) Dominant() string {
	best := ""
	bestScore := math.Inf(-1)
	for _, label := range Labels {
		if s, ok := r.Scores[label]; ok && s > bestScore {
			best = label
			bestScore = s
		}
	}
	return best
}

// Analyzer classifies the facial emotion in a single photo.
type Analyzer interface {
	Analyze(img image.Image) (*Result, error)
}
