// Package handlers exposes the pipeline and the dashboard API over gin.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"veille-strategique/collector"
	"veille-strategique/enrichment"
	"veille-strategique/models"
	"veille-strategique/repository"
	"veille-strategique/spdi"
)

type enrichmentService interface {
	EnrichArticle(ctx context.Context, id uuid.UUID) (*enrichment.Result, error)
	ScoreSentiments(ctx context.Context, limit int) (enrichment.SentimentResult, error)
	Analyze(ctx context.Context, id uuid.UUID, language string) (*models.ArticleAnalysis, error)
}

type spdiService interface {
	Compute(ctx context.Context, actorID uuid.UUID) (*spdi.Result, error)
	ComputeAll(ctx context.Context) (spdi.BatchResult, error)
}

type collectorService interface {
	Collect(ctx context.Context, req collector.Request) (collector.Result, error)
}

// Handler serves every HTTP route.
type Handler struct {
	log       *slog.Logger
	store     *repository.Store
	enrich    enrichmentService
	spdi      spdiService
	collector collectorService
	ping      func(ctx context.Context) error
}

// New creates the handler set. ping checks the database for /healthz.
func New(
	log *slog.Logger,
	store *repository.Store,
	enrich enrichmentService,
	spdi spdiService,
	collector collectorService,
	ping func(ctx context.Context) error,
) *Handler {
	return &Handler{
		log:       log.With("component", "http"),
		store:     store,
		enrich:    enrich,
		spdi:      spdi,
		collector: collector,
		ping:      ping,
	}
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUpstream), errors.Is(err, models.ErrParse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.ErrorContext(c.Request.Context(), "request failed",
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
		)
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
}

// idParam parses the :id path parameter; it answers 400 itself on failure.
func idParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}
