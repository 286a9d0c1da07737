package collector

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veille-strategique/config"
	"veille-strategique/database/dbtest"
	"veille-strategique/enrichment"
	"veille-strategique/models"
	"veille-strategique/repository"
)

type fakeFeeds struct {
	items map[string][]FeedItem
}

func (f fakeFeeds) Fetch(_ context.Context, url string) ([]FeedItem, error) {
	items, ok := f.items[url]
	if !ok {
		return nil, errors.New("feed unreachable")
	}
	return items, nil
}

func searchServer(t *testing.T, content string, status int, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sonar", body["model"])

		if status != http.StatusOK {
			http.Error(w, strings.Repeat("x", 2000), status)
			return
		}
		resp := map[string]any{"choices": []any{map[string]any{"message": map[string]any{"role": "assistant", "content": content}}}}
		w.Header().Set("Content-Type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

type fixture struct {
	svc   *Service
	store *repository.Store
}

func newFixture(t *testing.T, search searcher, feeds feedFetcher, cfg config.CollectorConfig) fixture {
	t.Helper()
	store := repository.NewStore(dbtest.Open(t))
	enr := enrichment.NewService(slog.Default(), store.Articles, store.Keywords, store.Alerts, store.Logs, nil, config.SentimentConfig{})
	svc := NewService(slog.Default(), search, feeds, store.Keywords, store.Articles, enr, store.Logs, cfg)

	ctx := context.Background()
	for _, k := range []models.KeywordRule{
		{Term: "5G", Quadrant: models.QuadrantTech, Criticality: 80, AutoAlert: true, Active: true},
		{Term: "tarifs", Quadrant: models.QuadrantMarket, Criticality: 40, Active: true},
	} {
		k := k
		require.NoError(t, store.Keywords.Create(ctx, &k))
	}
	return fixture{svc: svc, store: store}
}

var defaultCfg = config.CollectorConfig{Region: "Côte d'Ivoire", MaxDailyTerms: 25, CriticalMinimum: 70}

func TestRequestValidate(t *testing.T) {
	t.Parallel()

	r := Request{Type: " Critique "}
	require.NoError(t, r.Validate())
	assert.Equal(t, TypeCritical, r.Type)
	assert.Equal(t, RecencyDay, r.Recency)

	r = Request{Type: "hebdo"}
	assert.True(t, errors.Is(r.Validate(), models.ErrValidation))

	r = Request{Type: TypeDaily, Recency: "year"}
	assert.True(t, errors.Is(r.Validate(), models.ErrValidation))
}

func TestCollect_InsertsDedupesAndEnriches(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	content := `{"articles":[
		{"titre":"La 5G arrive à Bouaké","resume":"<p>Le <b>déploiement</b> commence</p>","url":"https://a.ci/1","source":"A","date_publication":"2026-03-14"},
		{"titre":"La 5G arrive à Bouaké","resume":"doublon","url":"https://a.ci/2","source":"B","date_publication":"2026-03-14"},
		{"titre":"Déjà connu","resume":"","url":"https://a.ci/3","source":"C","date_publication":"bientôt"}
	]}`
	var calls atomic.Int32
	srv := searchServer(t, content, http.StatusOK, &calls)
	search := NewSearchClient(config.SearchConfig{BaseURL: srv.URL, APIKey: "k", Model: "sonar", Timeout: 5 * time.Second})

	f := newFixture(t, search, nil, defaultCfg)
	require.NoError(t, f.store.Articles.Create(ctx, &models.Article{Title: "Déjà connu", PublishedAt: time.Now()}))

	res, err := f.svc.Collect(ctx, Request{Type: TypeCritical, Recency: RecencyWeek})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 2, res.Duplicates)
	assert.Equal(t, int32(1), calls.Load())

	list, err := f.store.Articles.List(ctx, repository.ArticleFilter{Tag: "5G"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Le déploiement commence", list[0].Summary)
	assert.Equal(t, 24, list[0].Importance)

	alerts, err := f.store.Alerts.ForReference(ctx, models.ReferenceArticle, list[0].ID)
	require.NoError(t, err)
	assert.Len(t, alerts, 1)

	run, err := f.store.Logs.LastRun(ctx, "collecte_critique")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, run.Status)
	assert.Equal(t, 1, run.ResultCount)
}

func TestCollect_UpstreamErrorIsLoggedTruncated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var calls atomic.Int32
	srv := searchServer(t, "", http.StatusBadGateway, &calls)
	search := NewSearchClient(config.SearchConfig{BaseURL: srv.URL, APIKey: "k", Model: "sonar", Timeout: 5 * time.Second})
	f := newFixture(t, search, nil, defaultCfg)

	_, err := f.svc.Collect(ctx, Request{Type: TypeCritical})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUpstream))

	run, err := f.store.Logs.LastRun(ctx, "collecte_critique")
	require.NoError(t, err)
	assert.Equal(t, models.StatusError, run.Status)
	require.NotNil(t, run.Error)
	assert.LessOrEqual(t, len([]rune(*run.Error)), models.MaxLoggedErrorLen)
}

func TestCollect_NotConfigured(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil, nil, defaultCfg)

	_, err := f.svc.Collect(context.Background(), Request{Type: TypeDaily})
	assert.True(t, errors.Is(err, models.ErrNotConfigured))
}

func TestCollect_DailyKeepsMatchingFeedItems(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var calls atomic.Int32
	srv := searchServer(t, `{"articles":[]}`, http.StatusOK, &calls)
	search := NewSearchClient(config.SearchConfig{BaseURL: srv.URL, APIKey: "k", Model: "sonar", Timeout: 5 * time.Second})

	now := time.Now().UTC()
	feeds := fakeFeeds{items: map[string][]FeedItem{
		"https://feed.ci/rss": {
			{Title: "Baisse des tarifs mobiles", Summary: "<div>Les opérateurs annoncent</div>", Source: "Feed", PublishedAt: now},
			{Title: "Résultats sportifs", Summary: "football", Source: "Feed", PublishedAt: now},
			{Title: "Anciens tarifs", Summary: "archive", Source: "Feed", PublishedAt: now.Add(-72 * time.Hour)},
		},
	}}
	cfg := defaultCfg
	cfg.Feeds = []string{"https://feed.ci/rss", "https://down.ci/rss"}
	f := newFixture(t, search, feeds, cfg)

	res, err := f.svc.Collect(ctx, Request{Type: TypeDaily})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)

	run, err := f.store.Logs.LastRun(ctx, "collecte_quotidienne")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPartial, run.Status)
	require.NotNil(t, run.Error)
	assert.Contains(t, *run.Error, "feed unreachable")
}

func TestSelectTerms(t *testing.T) {
	t.Parallel()

	rules := []models.KeywordRule{
		{Term: "a", Criticality: 90},
		{Term: "b", Criticality: 50, AutoAlert: true},
		{Term: "c", Criticality: 30},
	}
	s := &Service{cfg: config.CollectorConfig{MaxDailyTerms: 2, CriticalMinimum: 70}}

	assert.Equal(t, []string{"a", "b"}, s.selectTerms(TypeCritical, rules))
	assert.Equal(t, []string{"a", "b"}, s.selectTerms(TypeDaily, rules))
}

func TestParseSearchResults(t *testing.T) {
	t.Parallel()

	got, err := ParseSearchResults("```json\n{\"articles\":[{\"titre\":\"t\",\"resume\":\"r\",\"url\":\"u\",\"source\":\"s\",\"date_publication\":\"2026-01-02\"}]}\n```")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t", got[0].Title)

	_, err = ParseSearchResults(`{"results":[]}`)
	assert.True(t, errors.Is(err, models.ErrParse))

	_, err = ParseSearchResults(`{"articles":[{"titre":"t","extra":1}]}`)
	assert.True(t, errors.Is(err, models.ErrParse))

	_, err = ParseSearchResults(`rien`)
	assert.True(t, errors.Is(err, models.ErrParse))
}

func TestCleanTextAndDates(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Bonjour le monde", cleanText("<p>Bonjour\n <i>le</i>   monde</p><script>x()</script>"))
	assert.Equal(t, "Côte d'Ivoire & Ghana", cleanText("<b>Côte d'Ivoire</b> &amp; Ghana"))

	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), parsePublished("2026-03-01", now))
	assert.Equal(t, now, parsePublished("hier", now))
}
