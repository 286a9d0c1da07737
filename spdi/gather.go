package spdi

import (
	"strings"

	"veille-strategique/models"
	"veille-strategique/scoring"
)

// Thresholds of the derived counters.
const (
	controversyThreshold   = -0.5
	highInfluenceThreshold = 70
	highImportanceMinimum  = 70
)

const linkedinPlatform = "linkedin"

// Gather derives the SPDI inputs of one actor from the rows of the window.
// mentions are already filtered to the actor; articles and insights are the
// whole window and are matched on the actor's full name.
func Gather(actor *models.ActorProfile, mentions []models.Mention, articles []models.Article, insights []models.SocialInsight) scoring.SpdiInputs {
	name := actor.FullName()
	normName := scoring.Normalize(name)

	var in scoring.SpdiInputs
	sources := make(map[string]struct{})
	days := make(map[string]struct{})
	var sentimentSum float64

	addSentiment := func(v *float64) {
		if v == nil {
			return
		}
		in.SentimentSamples++
		sentimentSum += *v
		if *v <= controversyThreshold {
			in.ControversyCount++
		}
	}

	for _, m := range mentions {
		in.MentionCount++
		in.ItemCount++
		if m.Source != "" {
			sources[strings.ToLower(m.Source)] = struct{}{}
		}
		days[m.MentionedAt.UTC().Format(models.DateLayout)] = struct{}{}
		addSentiment(m.Sentiment)
		if m.Influence >= highInfluenceThreshold {
			in.HighInfluenceMentionCount++
		}
	}

	articleTags := make(map[string]struct{})
	for _, a := range articles {
		if normName == "" || !scoring.ContainsNormalized(a.Text(), name) {
			continue
		}
		in.MentionCount++
		in.ItemCount++
		if a.SourceName != "" {
			sources[strings.ToLower(a.SourceName)] = struct{}{}
		}
		days[a.PublishedAt.UTC().Format(models.DateLayout)] = struct{}{}
		addSentiment(a.Sentiment)
		if a.Importance >= highImportanceMinimum {
			in.HighImportanceArticleCount++
		}
		for _, t := range a.Tags {
			articleTags[scoring.Normalize(t)] = struct{}{}
		}
	}

	for _, si := range insights {
		authored := normName != "" && scoring.Normalize(strings.TrimSpace(si.Author)) == normName
		if !authored && (normName == "" || !scoring.ContainsNormalized(si.Content, name)) {
			continue
		}
		in.ItemCount++
		days[si.PublishedAt.UTC().Format(models.DateLayout)] = struct{}{}
		addSentiment(si.Sentiment)
		if authored {
			in.TotalEngagement += si.Engagement()
			if strings.EqualFold(strings.TrimSpace(si.Platform), linkedinPlatform) {
				in.LinkedinPostCount++
			}
		}
	}

	in.DistinctSourceCount = len(sources)
	in.ActiveDays = len(days)
	if in.SentimentSamples > 0 {
		in.AvgSentiment = sentimentSum / float64(in.SentimentSamples)
	}
	in.ThemeMatchPct = themeMatch(actor.Themes, articleTags)
	return in
}

// themeMatch is the percentage of themes found among the matched article tags.
func themeMatch(themes []string, tags map[string]struct{}) float64 {
	if len(themes) == 0 {
		return 0
	}
	found := 0
	for _, t := range themes {
		if _, ok := tags[scoring.Normalize(t)]; ok {
			found++
		}
	}
	return float64(found) / float64(len(themes)) * 100
}
