package enrichment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"veille-strategique/llm"
	"veille-strategique/metrics"
	"veille-strategique/models"
)

// Supported analysis languages.
const (
	LanguageFrench  = "fr"
	LanguageEnglish = "en"
)

const analysisMaxTokens = 1200

// Analyze asks the language model for a regulatory impact analysis of one
// article and stores it under analyse_ia.analyse.
func (s *Service) Analyze(ctx context.Context, id uuid.UUID, language string) (*models.ArticleAnalysis, error) {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		language = LanguageFrench
	}
	if language != LanguageFrench && language != LanguageEnglish {
		return nil, models.NewFieldError("language", "must be fr or en")
	}
	if s.llm == nil {
		return nil, fmt.Errorf("enrichment.Analyze: %w: no language model configured", models.ErrNotConfigured)
	}

	article, err := s.articles.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("enrichment.Analyze: %w", err)
	}

	// Промпт в зависимости от языка
	prompt := createFrenchPrompt(article)
	if language == LanguageEnglish {
		prompt = createEnglishPrompt(article)
	}

	text, err := s.llm.Complete(ctx, llm.Request{Prompt: prompt, MaxTokens: analysisMaxTokens})
	metrics.RecordLLMCall("analysis", err)
	if err != nil {
		return nil, fmt.Errorf("enrichment.Analyze: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("enrichment.Analyze: %w: empty analysis", models.ErrParse)
	}

	analysis := article.Analysis.Data()
	analysis.AIAnalysis = text
	analysis.AnalysisLanguage = language

	if err := s.articles.UpdateAnalysis(ctx, article.ID, analysis); err != nil {
		return nil, fmt.Errorf("enrichment.Analyze: %w", err)
	}
	return &analysis, nil
}

func createFrenchPrompt(a *models.Article) string {
	return fmt.Sprintf(`Analysez cette actualité pour le régulateur des télécommunications :

Titre : %s
Résumé : %s
Source : %s
Mots-clés détectés : %s
Quadrant : %s
Importance : %d/100

Rédigez une analyse en français avec :
1. Enjeux réglementaires (80-120 mots)
2. Impact sur le marché et les opérateurs (80-120 mots)
3. Risques et actions recommandées (80-120 mots)

Style : note de veille institutionnelle, factuelle et concise.`,
		a.Title, a.Summary, a.SourceName, strings.Join(a.Tags, ", "), a.Quadrant.Info().Label, a.Importance)
}

func createEnglishPrompt(a *models.Article) string {
	return fmt.Sprintf(`Analyze this news item for the telecommunications regulator:

Title: %s
Summary: %s
Source: %s
Detected keywords: %s
Quadrant: %s
Importance: %d/100

Provide an analysis in English with:
1. Regulatory stakes (80-120 words)
2. Market and operator impact (80-120 words)
3. Risks and recommended actions (80-120 words)

Style: institutional monitoring brief, factual and concise.`,
		a.Title, a.Summary, a.SourceName, strings.Join(a.Tags, ", "), a.Quadrant.Info().Label, a.Importance)
}
