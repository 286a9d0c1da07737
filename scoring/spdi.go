package scoring

import (
	"math"

	"veille-strategique/models"
)

// SpdiWindowDays is the trailing window the SPDI inputs are gathered over.
const SpdiWindowDays = 30

// Axis weights of the composite score.
const (
	weightVisibility = 0.30
	weightQuality    = 0.25
	weightAuthority  = 0.25
	weightPresence   = 0.20
)

// SpdiInputs are the aggregated raw counters of one actor over the window.
type SpdiInputs struct {
	MentionCount               int
	DistinctSourceCount        int
	ActiveDays                 int
	SentimentSamples           int
	AvgSentiment               float64
	ThemeMatchPct              float64
	ControversyCount           int
	HighInfluenceMentionCount  int
	HighImportanceArticleCount int
	LinkedinPostCount          int
	TotalEngagement            int
	// ItemCount is the number of mentions, articles and insights found.
	ItemCount int
}

// SpdiAxes is the breakdown of a composite score.
type SpdiAxes struct {
	Visibility float64 `json:"visibilite"`
	Quality    float64 `json:"qualite"`
	Authority  float64 `json:"autorite"`
	Presence   float64 `json:"presence"`
}

// SpdiResult is the composite score with its labels.
type SpdiResult struct {
	Axes           SpdiAxes
	Score          float64
	Interpretation models.Interpretation
	Trend          models.Trend
}

// Regularity is the share of active days over the window, 0..100.
func Regularity(activeDays int) float64 {
	return math.Min(100, float64(activeDays)/SpdiWindowDays*100)
}

// Visibility scores mention volume, source diversity and regularity.
func Visibility(in SpdiInputs) float64 {
	v := float64(in.MentionCount)/20*40 +
		float64(in.DistinctSourceCount)/5*30 +
		Regularity(in.ActiveDays)*0.3
	return math.Min(100, v)
}

// Quality scores tone, thematic alignment and the absence of controversy.
// Without any sentiment sample the tone term is 0; without any item the
// controversy bonus is not granted.
func Quality(in SpdiInputs) float64 {
	var v float64
	if in.SentimentSamples > 0 {
		v += (in.AvgSentiment + 1) / 2 * 50
	}
	v += math.Min(in.ThemeMatchPct, 100) * 0.3
	if in.ItemCount > 0 {
		v += math.Max(0, 20-float64(in.ControversyCount)*5)
	}
	return math.Min(100, v)
}

// Authority scores influential coverage.
func Authority(in SpdiInputs) float64 {
	v := float64(in.HighInfluenceMentionCount)*10 +
		float64(in.HighImportanceArticleCount)*8 +
		float64(in.DistinctSourceCount)*5
	return math.Min(100, v)
}

// Presence scores the actor's own social activity.
func Presence(in SpdiInputs) float64 {
	v := float64(in.LinkedinPostCount)*15 +
		math.Min(float64(in.TotalEngagement), 200)*0.25 +
		Regularity(in.ActiveDays)*0.25
	return math.Min(100, v)
}

// ComputeSpdi combines the four axes into the final 0..100 score.
func ComputeSpdi(in SpdiInputs) SpdiResult {
	vis, qual, auth, pres := Visibility(in), Quality(in), Authority(in), Presence(in)
	score := round1(vis*weightVisibility + qual*weightQuality + auth*weightAuthority + pres*weightPresence)

	return SpdiResult{
		Axes: SpdiAxes{
			Visibility: round1(vis),
			Quality:    round1(qual),
			Authority:  round1(auth),
			Presence:   round1(pres),
		},
		Score:          score,
		Interpretation: Interpret(score),
		Trend:          TrendFor(score),
	}
}

// Interpret maps a score to its absolute tier.
func Interpret(score float64) models.Interpretation {
	switch {
	case score >= 80:
		return models.StrongPresence
	case score >= 60:
		return models.SolidPresence
	case score >= 40:
		return models.LowVisibility
	default:
		return models.InvisibilityRisk
	}
}

// TrendFor is the coarse label stored on the actor profile. It is derived
// from the same snapshot score as Interpret, not from history.
func TrendFor(score float64) models.Trend {
	switch {
	case score >= 60:
		return models.TrendUp
	case score >= 40:
		return models.TrendStable
	default:
		return models.TrendDown
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
