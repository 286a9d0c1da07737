package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"veille-strategique/models"
)

// Register mounts every route on r. limit guards the pipeline endpoints;
// it may be nil.
func (h *Handler) Register(r *gin.Engine, limit gin.HandlerFunc) {
	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Конвейер
	pipeline := r.Group("/")
	if limit != nil {
		pipeline.Use(limit)
	}
	{
		pipeline.POST("/enrichir-actualite", h.EnrichArticle)
		pipeline.POST("/calculer-spdi", h.CalculateSpdi)
		pipeline.POST("/collecte-veille", h.CollectNews)
	}

	// API маршруты
	api := r.Group("/api")
	{
		api.GET("/dashboard", h.Dashboard)
		api.GET("/stats", h.GetStats)
		api.GET("/quadrants", h.GetQuadrants)

		api.GET("/actualites", h.GetArticles)
		api.GET("/actualites/:id", h.GetArticle)
		api.POST("/actualites/:id/analyse", h.GenerateAnalysis)

		api.GET("/mots-cles", h.GetKeywords)
		api.POST("/mots-cles", h.CreateKeyword)
		api.PUT("/mots-cles/:id", h.UpdateKeyword)
		api.DELETE("/mots-cles/:id", h.DeleteKeyword)

		api.GET("/alertes", h.GetAlerts)
		api.PATCH("/alertes/:id/lue", h.MarkAlertRead)
		api.PATCH("/alertes/:id/traitee", h.MarkAlertTreated)

		api.GET("/personnalites", h.GetActors)
		api.GET("/personnalites/:id/spdi", h.GetActorSpdi)

		api.GET("/collectes", h.GetRuns)
	}
}

// GetQuadrants handles GET /api/quadrants.
func (h *Handler) GetQuadrants(c *gin.Context) {
	c.JSON(http.StatusOK, models.QuadrantCatalog())
}

// GetRuns handles GET /api/collectes: the latest collectes_log rows.
func (h *Handler) GetRuns(c *gin.Context) {
	runs, err := h.store.Logs.Recent(c.Request.Context(), 50)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, runs)
}

// Health handles GET /healthz.
func (h *Handler) Health(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
