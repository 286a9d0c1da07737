package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"veille-strategique/models"
	"veille-strategique/repository"
)

const maxListLimit = 200

// GetArticles handles GET /api/actualites.
func (h *Handler) GetArticles(c *gin.Context) {
	// Параметры запроса
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	minImportance, _ := strconv.Atoi(c.DefaultQuery("min_importance", "0"))

	filter := repository.ArticleFilter{
		Category:      c.Query("categorie"),
		Tag:           c.Query("tag"),
		MinImportance: minImportance,
		Limit:         min(limit, maxListLimit),
	}

	if raw := c.Query("quadrant"); raw != "" {
		q, err := models.ParseQuadrant(raw)
		if err != nil {
			h.fail(c, err)
			return
		}
		filter.Quadrant = q
	}
	if raw := c.Query("date_from"); raw != "" {
		from, err := parseDate(raw)
		if err != nil {
			badRequest(c, "Invalid date_from")
			return
		}
		filter.DateFrom = &from
	}

	articles, err := h.store.Articles.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, articles)
}

// GetArticle handles GET /api/actualites/:id.
func (h *Handler) GetArticle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	article, err := h.store.Articles.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	alerts, err := h.store.Alerts.ForReference(c.Request.Context(), models.ReferenceArticle, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actualite": article, "alertes": alerts})
}

// GetStats handles GET /api/stats.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.store.Articles.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
