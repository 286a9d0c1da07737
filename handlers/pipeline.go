package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"veille-strategique/collector"
)

type EnrichRequest struct {
	ArticleID      string `json:"actualite_id"`
	BatchSentiment bool   `json:"batch_sentiment"`
	Limit          int    `json:"limit"`
}

type SpdiRequest struct {
	ActorID string `json:"personnalite_id"`
	Batch   bool   `json:"batch"`
}

// EnrichArticle handles POST /enrichir-actualite.
func (h *Handler) EnrichArticle(c *gin.Context) {
	var request EnrichRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	ctx := c.Request.Context()

	// Пакетный анализ тональности
	if request.BatchSentiment {
		res, err := h.enrich.ScoreSentiments(ctx, request.Limit)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "processed": res.Processed, "updated": res.Updated})
		return
	}

	if request.ArticleID == "" {
		badRequest(c, "actualite_id is required")
		return
	}
	id, err := uuid.Parse(request.ArticleID)
	if err != nil {
		badRequest(c, "Invalid actualite_id")
		return
	}

	res, err := h.enrich.EnrichArticle(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "enrichment": res})
}

// CalculateSpdi handles POST /calculer-spdi.
func (h *Handler) CalculateSpdi(c *gin.Context) {
	var request SpdiRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	ctx := c.Request.Context()

	// Все отслеживаемые персоны
	if request.Batch {
		res, err := h.spdi.ComputeAll(ctx)
		if err != nil {
			h.fail(c, err)
			return
		}
		body := gin.H{"success": true, "batch": true, "count": res.Count, "results": res.Results}
		if len(res.Errors) > 0 {
			body["errors"] = res.Errors
		}
		c.JSON(http.StatusOK, body)
		return
	}

	if request.ActorID == "" {
		badRequest(c, "personnalite_id is required")
		return
	}
	id, err := uuid.Parse(request.ActorID)
	if err != nil {
		badRequest(c, "Invalid personnalite_id")
		return
	}

	res, err := h.spdi.Compute(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"personnalite_id": res.ActorID,
		"date_mesure":     res.Date,
		"score_final":     res.Score,
		"interpretation":  res.Interpretation,
		"tendance":        res.Trend,
		"axes":            res.Axes,
	})
}

// CollectNews handles POST /collecte-veille.
func (h *Handler) CollectNews(c *gin.Context) {
	var request collector.Request
	if err := c.ShouldBindJSON(&request); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	res, err := h.collector.Collect(c.Request.Context(), request)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"nb_resultats": res.Inserted,
		"nb_doublons":  res.Duplicates,
		"duree_ms":     res.DurationMs,
	})
}
