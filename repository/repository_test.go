package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veille-strategique/database/dbtest"
	"veille-strategique/models"
	"veille-strategique/repository"
)

func newStore(t *testing.T) *repository.Store {
	t.Helper()
	return repository.NewStore(dbtest.Open(t))
}

func TestArticles_EnrichmentRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	a := &models.Article{Title: "Orange lance la 5G", PublishedAt: time.Now()}
	require.NoError(t, s.Articles.Create(ctx, a))
	require.NotEqual(t, uuid.Nil, a.ID)

	err := s.Articles.UpdateEnrichment(ctx, a.ID, repository.Enrichment{
		Tags:       []string{"5G", "zone rurale"},
		Category:   "tech",
		Quadrant:   models.QuadrantTech,
		Importance: 36,
		Analysis: models.ArticleAnalysis{
			DominantQuadrant:     models.QuadrantTech,
			QuadrantDistribution: map[models.Quadrant]int{models.QuadrantTech: 100},
			TriggeredAlerts:      []string{"5G"},
		},
	})
	require.NoError(t, err)

	got, err := s.Articles.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"5G", "zone rurale"}, []string(got.Tags))
	assert.Equal(t, 36, got.Importance)
	assert.Equal(t, models.QuadrantTech, got.Quadrant)
	assert.Equal(t, []string{"5G"}, got.Analysis.Data().TriggeredAlerts)
	assert.Nil(t, got.Sentiment)
}

func TestArticles_NotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Articles.Get(ctx, uuid.New())
	assert.True(t, errors.Is(err, models.ErrNotFound))

	err = s.Articles.UpdateSentiment(ctx, uuid.New(), 0.5)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestArticles_ListUnscoredAndSentiment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	now := time.Now()
	older := &models.Article{Title: "ancien", PublishedAt: now.Add(-48 * time.Hour)}
	newer := &models.Article{Title: "récent", PublishedAt: now}
	require.NoError(t, s.Articles.Create(ctx, older))
	require.NoError(t, s.Articles.Create(ctx, newer))

	list, err := s.Articles.ListUnscored(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)

	require.NoError(t, s.Articles.UpdateSentiment(ctx, newer.ID, -0.4))

	list, err = s.Articles.ListUnscored(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, older.ID, list[0].ID)
}

func TestArticles_ListFilters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	seed := []struct {
		title      string
		tags       []string
		quadrant   models.Quadrant
		importance int
	}{
		{"a", []string{"5G"}, models.QuadrantTech, 80},
		{"b", []string{"tarifs"}, models.QuadrantMarket, 20},
		{"c", []string{"5G", "ARTCI"}, models.QuadrantRegulation, 50},
	}
	for _, sd := range seed {
		a := &models.Article{Title: sd.title, PublishedAt: time.Now()}
		require.NoError(t, s.Articles.Create(ctx, a))
		require.NoError(t, s.Articles.UpdateEnrichment(ctx, a.ID, repository.Enrichment{
			Tags: sd.tags, Category: string(sd.quadrant), Quadrant: sd.quadrant, Importance: sd.importance,
		}))
	}

	tests := []struct {
		name   string
		filter repository.ArticleFilter
		want   []string
	}{
		{"tag", repository.ArticleFilter{Tag: "5G"}, []string{"a", "c"}},
		{"quadrant", repository.ArticleFilter{Quadrant: models.QuadrantMarket}, []string{"b"}},
		{"min importance", repository.ArticleFilter{MinImportance: 50}, []string{"a", "c"}},
		{"category", repository.ArticleFilter{Category: "regulation"}, []string{"c"}},
		{"none", repository.ArticleFilter{Tag: "satellite"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Articles.List(ctx, tt.filter)
			require.NoError(t, err)
			var titles []string
			for _, a := range got {
				titles = append(titles, a.Title)
			}
			assert.ElementsMatch(t, tt.want, titles)
		})
	}
}

func TestArticles_ExistingTitlesAndStats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	a := &models.Article{Title: "déjà là", PublishedAt: time.Now()}
	require.NoError(t, s.Articles.Create(ctx, a))
	require.NoError(t, s.Articles.UpdateEnrichment(ctx, a.ID, repository.Enrichment{Importance: 75, Category: "tech"}))
	require.NoError(t, s.Articles.UpdateSentiment(ctx, a.ID, 0.3))

	existing, err := s.Articles.ExistingTitles(ctx, []string{"déjà là", "nouveau"})
	require.NoError(t, err)
	assert.True(t, existing["déjà là"])
	assert.False(t, existing["nouveau"])

	stats, err := s.Articles.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
	assert.Equal(t, int64(1), stats.HighImportance)
	assert.Equal(t, int64(1), stats.Positive)
	assert.InDelta(t, 75.0, stats.AvgImportance, 0.001)
}

func TestKeywords_SoftDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	low := &models.KeywordRule{Term: "tarif", Quadrant: models.QuadrantMarket, Criticality: 30, Active: true}
	high := &models.KeywordRule{Term: "5G", Quadrant: models.QuadrantTech, Criticality: 90, Active: true}
	require.NoError(t, s.Keywords.Create(ctx, low))
	require.NoError(t, s.Keywords.Create(ctx, high))

	active, err := s.Keywords.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "5G", active[0].Term)

	require.NoError(t, s.Keywords.Deactivate(ctx, high.ID))

	active, err = s.Keywords.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)

	all, err := s.Keywords.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestKeywords_UpdateWritesZeroValues(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	k := &models.KeywordRule{Term: "fraude", Quadrant: models.QuadrantReputation, Criticality: 80, AutoAlert: true, Active: true}
	require.NoError(t, s.Keywords.Create(ctx, k))

	k.AutoAlert = false
	k.Criticality = 0
	require.NoError(t, s.Keywords.Update(ctx, k))

	got, err := s.Keywords.Get(ctx, k.ID)
	require.NoError(t, err)
	assert.False(t, got.AutoAlert)
	assert.Equal(t, 0, got.Criticality)
}

func TestSpdi_UpsertSameDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	actor := &models.ActorProfile{LastName: "Koné", SpdiTrackingEnabled: true}
	require.NoError(t, s.Actors.Create(ctx, actor))

	day := time.Now().Format(models.DateLayout)
	require.NoError(t, s.Spdi.Upsert(ctx, &models.SpdiMetric{ActorID: actor.ID, Date: day, Score: 40}))
	require.NoError(t, s.Spdi.Upsert(ctx, &models.SpdiMetric{ActorID: actor.ID, Date: day, Score: 55.5}))

	history, err := s.Spdi.History(ctx, actor.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 55.5, history[0].Score)
}

func TestActors_UpdateSpdi(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	tracked := &models.ActorProfile{LastName: "Koné", Active: true, SpdiTrackingEnabled: true}
	other := &models.ActorProfile{LastName: "Yao", Active: true}
	require.NoError(t, s.Actors.Create(ctx, tracked))
	require.NoError(t, s.Actors.Create(ctx, other))

	list, err := s.Actors.ListTracked(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	now := time.Now()
	require.NoError(t, s.Actors.UpdateSpdi(ctx, tracked.ID, 61.2, models.TrendUp, now))

	got, err := s.Actors.Get(ctx, tracked.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CurrentSpdiScore)
	assert.Equal(t, 61.2, *got.CurrentSpdiScore)
	require.NotNil(t, got.SpdiTrend)
	assert.Equal(t, models.TrendUp, *got.SpdiTrend)
}

func TestAlerts_ReadAndTreat(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	ref := uuid.New()
	a := &models.Alert{Type: models.AlertTypeCriticalKeyword, Level: models.AlertWarning, ReferenceType: models.ReferenceArticle, ReferenceID: ref}
	b := &models.Alert{Type: models.AlertTypeCriticalKeyword, Level: models.AlertCritical, ReferenceType: models.ReferenceArticle, ReferenceID: ref}
	require.NoError(t, s.Alerts.Create(ctx, a))
	require.NoError(t, s.Alerts.Create(ctx, b))

	n, err := s.Alerts.CountUnread(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, s.Alerts.MarkRead(ctx, a.ID))
	require.NoError(t, s.Alerts.MarkTreated(ctx, b.ID))

	unread, err := s.Alerts.List(ctx, true, 0)
	require.NoError(t, err)
	assert.Empty(t, unread)

	err = s.Alerts.MarkRead(ctx, uuid.New())
	assert.True(t, errors.Is(err, models.ErrNotFound))

	byRef, err := s.Alerts.ForReference(ctx, models.ReferenceArticle, ref)
	require.NoError(t, err)
	assert.Len(t, byRef, 2)
}

func TestLogs_WriteAndLastRun(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Logs.Write(ctx, &models.CollectionLog{Type: "spdi_batch", Status: models.StatusSuccess, ResultCount: 1}))
	require.NoError(t, s.Logs.Write(ctx, &models.CollectionLog{Type: "spdi_batch", Status: models.StatusPartial, ResultCount: 2}))

	last, err := s.Logs.LastRun(ctx, "spdi_batch")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPartial, last.Status)

	_, err = s.Logs.LastRun(ctx, "sentiment_batch")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
