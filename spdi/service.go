// Package spdi computes the digital presence and influence score (SPDI) of
// tracked actors and stores one measurement per actor and day.
package spdi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"veille-strategique/metrics"
	"veille-strategique/models"
	"veille-strategique/scoring"
)

// Run types written to collectes_log.
const (
	RunSingle = "spdi"
	RunBatch  = "spdi_batch"
)

type actorRepo interface {
	Get(ctx context.Context, id uuid.UUID) (*models.ActorProfile, error)
	ListTracked(ctx context.Context) ([]models.ActorProfile, error)
	UpdateSpdi(ctx context.Context, id uuid.UUID, score float64, trend models.Trend, at time.Time) error
}

type mentionRepo interface {
	ForActorSince(ctx context.Context, actorID uuid.UUID, from time.Time) ([]models.Mention, error)
}

type articleRepo interface {
	PublishedSince(ctx context.Context, from time.Time) ([]models.Article, error)
}

type socialRepo interface {
	Since(ctx context.Context, from time.Time) ([]models.SocialInsight, error)
}

type metricRepo interface {
	Upsert(ctx context.Context, m *models.SpdiMetric) error
}

type logRepo interface {
	Write(ctx context.Context, l *models.CollectionLog) error
}

// Result is the SPDI of one actor for one day.
type Result struct {
	ActorID        uuid.UUID             `json:"personnalite_id"`
	Name           string                `json:"nom"`
	Date           string                `json:"date_mesure"`
	Score          float64               `json:"score_final"`
	Interpretation models.Interpretation `json:"interpretation"`
	Trend          models.Trend          `json:"tendance"`
	Axes           scoring.SpdiAxes      `json:"axes"`
}

// BatchResult summarises one batch run.
type BatchResult struct {
	Count   int      `json:"count"`
	Results []Result `json:"results"`
	Errors  []string `json:"errors,omitempty"`
}

// Service computes and stores SPDI measurements.
type Service struct {
	log      *slog.Logger
	actors   actorRepo
	mentions mentionRepo
	articles articleRepo
	social   socialRepo
	measures metricRepo
	logs     logRepo
	now      func() time.Time
}

// NewService creates the SPDI service.
func NewService(
	log *slog.Logger,
	actors actorRepo,
	mentions mentionRepo,
	articles articleRepo,
	social socialRepo,
	measures metricRepo,
	logs logRepo,
) *Service {
	return &Service{
		log:      log.With("service", "spdi"),
		actors:   actors,
		mentions: mentions,
		articles: articles,
		social:   social,
		measures: measures,
		logs:     logs,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Compute scores one actor. The actor must have SPDI tracking enabled.
func (s *Service) Compute(ctx context.Context, actorID uuid.UUID) (*Result, error) {
	started := time.Now()

	res, err := s.computeOne(ctx, actorID)

	status, count, msg := models.StatusSuccess, 1, ""
	if err != nil {
		status, count, msg = models.StatusError, 0, err.Error()
	}
	s.writeRun(ctx, models.NewRunLog(RunSingle, status, count, started, msg))
	metrics.RecordRun(RunSingle, status, time.Since(started))
	return res, err
}

func (s *Service) computeOne(ctx context.Context, actorID uuid.UUID) (*Result, error) {
	actor, err := s.actors.Get(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("spdi.Compute: %w", err)
	}
	if !actor.SpdiTrackingEnabled {
		return nil, models.NewFieldError("personnalite_id", "SPDI tracking is not enabled for this actor")
	}

	now := s.now()
	w, err := s.loadWindow(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("spdi.Compute: %w", err)
	}
	return s.score(ctx, actor, w, now)
}

// ComputeAll scores every tracked actor in sequence. A failing actor is
// recorded and skipped; one spdi_batch row is always written.
func (s *Service) ComputeAll(ctx context.Context) (BatchResult, error) {
	started := time.Now()
	res := BatchResult{Results: []Result{}}

	var errs []error
	err := s.computeAll(ctx, &res, &errs)
	if err != nil {
		errs = append(errs, err)
	}

	status := models.StatusSuccess
	switch {
	case err != nil, len(errs) > 0 && res.Count == 0:
		status = models.StatusError
	case len(errs) > 0:
		status = models.StatusPartial
	}
	msg := ""
	if len(errs) > 0 {
		msg = errors.Join(errs...).Error()
	}
	s.writeRun(ctx, models.NewRunLog(RunBatch, status, res.Count, started, msg))
	metrics.RecordRun(RunBatch, status, time.Since(started))

	s.log.InfoContext(ctx, "spdi batch finished",
		slog.Int("count", res.Count),
		slog.Int("failed", len(res.Errors)),
		slog.String("status", status),
	)
	return res, err
}

func (s *Service) computeAll(ctx context.Context, res *BatchResult, errs *[]error) error {
	actors, err := s.actors.ListTracked(ctx)
	if err != nil {
		return fmt.Errorf("spdi.ComputeAll: %w", err)
	}
	if len(actors) == 0 {
		return nil
	}

	now := s.now()
	w, err := s.loadWindow(ctx, now)
	if err != nil {
		return fmt.Errorf("spdi.ComputeAll: %w", err)
	}

	for i := range actors {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("spdi.ComputeAll: %w", err)
		}
		actor := &actors[i]
		r, err := s.score(ctx, actor, w, now)
		if err != nil {
			s.log.WarnContext(ctx, "spdi actor failed",
				slog.String("actor_id", actor.ID.String()),
				slog.String("error", err.Error()),
			)
			e := fmt.Errorf("%s: %w", actor.FullName(), err)
			*errs = append(*errs, e)
			res.Errors = append(res.Errors, e.Error())
			continue
		}
		res.Results = append(res.Results, *r)
		res.Count++
	}
	return nil
}

func (s *Service) score(ctx context.Context, actor *models.ActorProfile, w *window, now time.Time) (*Result, error) {
	mentions, err := s.mentions.ForActorSince(ctx, actor.ID, w.from)
	if err != nil {
		return nil, err
	}

	in := Gather(actor, mentions, w.articles, w.insights)
	r := scoring.ComputeSpdi(in)
	day := now.Format(models.DateLayout)

	metric := &models.SpdiMetric{
		ActorID:                    actor.ID,
		Date:                       day,
		Visibility:                 r.Axes.Visibility,
		Quality:                    r.Axes.Quality,
		Authority:                  r.Axes.Authority,
		Presence:                   r.Axes.Presence,
		MentionCount:               in.MentionCount,
		DistinctSourceCount:        in.DistinctSourceCount,
		ActiveDays:                 in.ActiveDays,
		AvgSentiment:               scoring.Round2(in.AvgSentiment),
		ControversyCount:           in.ControversyCount,
		HighInfluenceMentionCount:  in.HighInfluenceMentionCount,
		HighImportanceArticleCount: in.HighImportanceArticleCount,
		LinkedinPostCount:          in.LinkedinPostCount,
		TotalEngagement:            in.TotalEngagement,
		ThemeMatchPct:              scoring.Round2(in.ThemeMatchPct),
		Score:                      r.Score,
		Interpretation:             r.Interpretation,
	}
	if err := s.measures.Upsert(ctx, metric); err != nil {
		return nil, err
	}
	if err := s.actors.UpdateSpdi(ctx, actor.ID, r.Score, r.Trend, now); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "spdi computed",
		slog.String("actor_id", actor.ID.String()),
		slog.Float64("score", r.Score),
		slog.String("interpretation", string(r.Interpretation)),
	)

	return &Result{
		ActorID:        actor.ID,
		Name:           actor.FullName(),
		Date:           day,
		Score:          r.Score,
		Interpretation: r.Interpretation,
		Trend:          r.Trend,
		Axes:           r.Axes,
	}, nil
}

// window holds the rows shared by every actor of one run.
type window struct {
	from     time.Time
	articles []models.Article
	insights []models.SocialInsight
}

func (s *Service) loadWindow(ctx context.Context, now time.Time) (*window, error) {
	from := now.AddDate(0, 0, -scoring.SpdiWindowDays)

	articles, err := s.articles.PublishedSince(ctx, from)
	if err != nil {
		return nil, err
	}
	insights, err := s.social.Since(ctx, from)
	if err != nil {
		return nil, err
	}
	return &window{from: from, articles: articles, insights: insights}, nil
}

func (s *Service) writeRun(ctx context.Context, l *models.CollectionLog) {
	if err := s.logs.Write(context.WithoutCancel(ctx), l); err != nil {
		s.log.ErrorContext(ctx, "write run log", slog.String("type", l.Type), slog.String("error", err.Error()))
	}
}
