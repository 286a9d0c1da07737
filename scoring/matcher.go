package scoring

import (
	"math"
	"sort"
	"strings"

	"veille-strategique/models"
)

const importanceFactor = 0.3

// Match is the outcome of running the keyword dictionary over one text.
type Match struct {
	Tags                 []string
	TotalCriticality     int
	QuadrantScores       map[models.Quadrant]int
	TriggeredAlerts      []string
	Importance           int
	DominantQuadrant     models.Quadrant
	QuadrantDistribution map[models.Quadrant]int
}

type compiledRule struct {
	rule     models.KeywordRule
	patterns []string
}

// Matcher matches texts against a fixed set of keyword rules.
// It is safe for concurrent use once built.
type Matcher struct {
	rules []compiledRule
}

// NewMatcher normalizes the terms and synonyms of rules once and orders
// the rules by descending criticality.
func NewMatcher(rules []models.KeywordRule) *Matcher {
	sorted := make([]models.KeywordRule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Criticality > sorted[j].Criticality
	})

	m := &Matcher{rules: make([]compiledRule, 0, len(sorted))}
	for _, r := range sorted {
		cr := compiledRule{rule: r}
		for _, p := range append([]string{r.Term}, r.Synonyms...) {
			if n := Normalize(strings.TrimSpace(p)); n != "" {
				cr.patterns = append(cr.patterns, n)
			}
		}
		if len(cr.patterns) > 0 {
			m.rules = append(m.rules, cr)
		}
	}
	return m
}

// Len returns the number of usable rules.
func (m *Matcher) Len() int { return len(m.rules) }

// Match scores text. Every matching rule contributes once, whatever the
// number of occurrences; an empty text yields the zero outcome.
func (m *Matcher) Match(text string) Match {
	res := Match{
		Tags:            []string{},
		TriggeredAlerts: []string{},
		QuadrantScores:  make(map[models.Quadrant]int, 4),
	}

	normalized := Normalize(text)
	if normalized != "" {
		seen := make(map[string]bool)
		for _, cr := range m.rules {
			if !cr.matches(normalized) {
				continue
			}
			if !seen[cr.rule.Term] {
				seen[cr.rule.Term] = true
				res.Tags = append(res.Tags, cr.rule.Term)
			}
			res.TotalCriticality += cr.rule.Criticality
			res.QuadrantScores[cr.rule.Quadrant] += cr.rule.Criticality
			if cr.rule.AutoAlert {
				res.TriggeredAlerts = append(res.TriggeredAlerts, cr.rule.Term)
			}
		}
	}

	res.Importance = Importance(res.TotalCriticality)
	res.DominantQuadrant = DominantQuadrant(res.QuadrantScores)
	res.QuadrantDistribution = QuadrantDistribution(res.QuadrantScores)
	return res
}

func (cr compiledRule) matches(normalized string) bool {
	for _, p := range cr.patterns {
		if strings.Contains(normalized, p) {
			return true
		}
	}
	return false
}

// Importance maps a cumulative criticality to 0..100.
func Importance(totalCriticality int) int {
	if totalCriticality <= 0 {
		return 0
	}
	v := int(math.Round(float64(totalCriticality) * importanceFactor))
	return min(100, v)
}

// DominantQuadrant returns the quadrant with the highest sub-score. Ties keep
// the canonical order; nothing scored yields models.DefaultQuadrant.
func DominantQuadrant(scores map[models.Quadrant]int) models.Quadrant {
	best := models.DefaultQuadrant
	bestScore := 0
	for _, q := range models.AllQuadrants() {
		if s := scores[q]; s > bestScore {
			best, bestScore = q, s
		}
	}
	return best
}

// QuadrantDistribution scales every sub-score against the highest one (0..100).
func QuadrantDistribution(scores map[models.Quadrant]int) map[models.Quadrant]int {
	maxScore := 0
	for _, s := range scores {
		maxScore = max(maxScore, s)
	}

	out := make(map[models.Quadrant]int, 4)
	for _, q := range models.AllQuadrants() {
		if maxScore == 0 || scores[q] <= 0 {
			out[q] = 0
			continue
		}
		out[q] = int(math.Round(float64(scores[q]) / float64(maxScore) * 100))
	}
	return out
}
