package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veille-strategique/models"
)

func rule(term string, q models.Quadrant, crit int, alert bool, synonyms ...string) models.KeywordRule {
	return models.KeywordRule{Term: term, Synonyms: synonyms, Quadrant: q, Criticality: crit, AutoAlert: alert, Active: true}
}

func TestMatch_OrangeExample(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]models.KeywordRule{
		rule("zone rurale", models.QuadrantMarket, 40, false),
		rule("5G", models.QuadrantTech, 80, true),
	})

	res := m.Match("Orange CI annonce un déploiement 5G en zone rurale")

	assert.Equal(t, []string{"5G", "zone rurale"}, res.Tags)
	assert.Equal(t, 120, res.TotalCriticality)
	assert.Equal(t, 36, res.Importance)
	assert.Equal(t, models.QuadrantTech, res.DominantQuadrant)
	assert.Equal(t, []string{"5G"}, res.TriggeredAlerts)
	assert.Equal(t, 100, res.QuadrantDistribution[models.QuadrantTech])
	assert.Equal(t, 50, res.QuadrantDistribution[models.QuadrantMarket])
	assert.Equal(t, 0, res.QuadrantDistribution[models.QuadrantRegulation])
}

func TestMatch_DiacriticAndCaseInsensitive(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]models.KeywordRule{
		rule("Régulation", models.QuadrantRegulation, 60, false),
		rule("fibre optique", models.QuadrantTech, 50, false, "FTTH"),
	})

	res := m.Match("REGULATION du marché et déploiement ftth à Abidjan")
	assert.Equal(t, []string{"Régulation", "fibre optique"}, res.Tags)
	assert.Equal(t, models.QuadrantRegulation, res.DominantQuadrant)
}

func TestMatch_RepeatedOccurrencesCountOnce(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]models.KeywordRule{rule("ARTCI", models.QuadrantRegulation, 50, true, "autorité de régulation")})

	res := m.Match("ARTCI, artci, Artci et l'Autorité de Régulation")
	assert.Equal(t, []string{"ARTCI"}, res.Tags)
	assert.Equal(t, 50, res.TotalCriticality)
	assert.Equal(t, 15, res.Importance)
	assert.Len(t, res.TriggeredAlerts, 1)
}

func TestMatch_NoMatch(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]models.KeywordRule{rule("5G", models.QuadrantTech, 80, true)})

	for _, text := range []string{"", "   ", "Météo du jour"} {
		res := m.Match(text)
		assert.Empty(t, res.Tags)
		assert.Zero(t, res.Importance)
		assert.Equal(t, models.QuadrantMarket, res.DominantQuadrant)
		assert.Empty(t, res.TriggeredAlerts)
		for _, q := range models.AllQuadrants() {
			assert.Zero(t, res.QuadrantDistribution[q])
		}
	}
}

func TestMatch_EmptyRuleSet(t *testing.T) {
	t.Parallel()

	res := NewMatcher(nil).Match("5G partout")
	assert.Empty(t, res.Tags)
	assert.Equal(t, models.DefaultQuadrant, res.DominantQuadrant)
}

func TestNewMatcher_SkipsBlankTerms(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]models.KeywordRule{rule("  ", models.QuadrantTech, 10, false), rule("4G", models.QuadrantTech, 10, false)})
	assert.Equal(t, 1, m.Len())
}

func TestMatch_BlankSynonymNeverMatches(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]models.KeywordRule{rule("satellite", models.QuadrantTech, 90, true, " ", "\t ")})
	res := m.Match("Orange annonce ses résultats")

	assert.Empty(t, res.Tags)
	assert.Empty(t, res.TriggeredAlerts)
	assert.Equal(t, 0, res.Importance)

	res = m.Match("Lancement d'un satellite de télécommunications")
	assert.Equal(t, []string{"satellite"}, res.Tags)
}

func TestImportance_BoundedAndMonotonic(t *testing.T) {
	t.Parallel()

	prev := 0
	for total := 0; total <= 1000; total += 7 {
		got := Importance(total)
		require.GreaterOrEqual(t, got, 0)
		require.LessOrEqual(t, got, 100)
		require.GreaterOrEqual(t, got, prev, "total=%d", total)
		prev = got
	}
	assert.Equal(t, 100, Importance(400))
	assert.Equal(t, 0, Importance(-5))
	assert.Equal(t, 2, Importance(5)) // 1.5 rounds half away from zero
}

func TestQuadrantDistribution(t *testing.T) {
	t.Parallel()

	dist := QuadrantDistribution(map[models.Quadrant]int{
		models.QuadrantTech:       30,
		models.QuadrantReputation: 90,
		models.QuadrantMarket:     45,
	})
	assert.Equal(t, 33, dist[models.QuadrantTech])
	assert.Equal(t, 100, dist[models.QuadrantReputation])
	assert.Equal(t, 50, dist[models.QuadrantMarket])
	assert.Equal(t, 0, dist[models.QuadrantRegulation])
	for _, v := range dist {
		assert.GreaterOrEqual(t, v, 0)
		assert.LessOrEqual(t, v, 100)
	}
}

func TestDominantQuadrant_TieKeepsCanonicalOrder(t *testing.T) {
	t.Parallel()

	got := DominantQuadrant(map[models.Quadrant]int{
		models.QuadrantReputation: 40,
		models.QuadrantRegulation: 40,
	})
	assert.Equal(t, models.QuadrantRegulation, got)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "telecommunications electroniques", Normalize("Télécommunications Électroniques"))
	assert.Equal(t, "cote d'ivoire", Normalize("Côte d'Ivoire"))
	assert.True(t, ContainsNormalized("Le Ministère de l'Économie", "economie"))
	assert.False(t, ContainsNormalized("texte", " "))
}
