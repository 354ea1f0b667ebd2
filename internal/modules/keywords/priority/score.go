package priority

import (
	"math"

	"github.com/yungbote/seoplanner-backend/internal/domain/seo"
)

// DefaultDifficulty stands in for clusters with no difficulty data.
const DefaultDifficulty = 50

type Input struct {
	SearchVolumeTotal int  `json:"search_volume_total"`
	Difficulty        *int `json:"difficulty,omitempty"`
	KeywordCount      int  `json:"keyword_count"`
}

// Score computes the cluster priority. The trailing keyword_count*2 term is not
// weighted like the others; the final clamp keeps the total at 100.
func Score(in Input) seo.PriorityScore {
	difficulty := DefaultDifficulty
	if in.Difficulty != nil {
		difficulty = clampInt(*in.Difficulty, 0, 100)
	}
	count := float64(max(in.KeywordCount, 0))

	volumeScore := math.Min(100, float64(max(in.SearchVolumeTotal, 0))/500)
	difficultyScore := float64(100 - difficulty)
	businessValue := math.Min(100, count*2+volumeScore/2)
	final := math.Min(100, round(
		volumeScore*0.3+
			difficultyScore*0.2+
			businessValue*0.3+
			count*2,
	))

	return seo.PriorityScore{
		SEOScore:        volumeScore,
		BusinessValue:   businessValue,
		DifficultyScore: difficultyScore,
		FinalPriority:   int(final),
	}
}

// round halves away from zero for positive values, matching the scores already stored.
func round(x float64) float64 { return math.Floor(x + 0.5) }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
