package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"veille-strategique/models"
	"veille-strategique/repository"
)

const (
	dashboardDays      = 30
	dashboardTopLimit  = 10
	dashboardRunsLimit = 10
	highImportance     = 70
)

type DashboardData struct {
	Stats        repository.ArticleStats `json:"stats"`
	Quadrants    []QuadrantSummary       `json:"quadrants"`
	TopArticles  []models.Article        `json:"actualites_importantes"`
	UnreadAlerts int64                   `json:"alertes_non_lues"`
	RecentRuns   []models.CollectionLog  `json:"dernieres_collectes"`
	WindowDays   int                     `json:"periode_jours"`
}

// QuadrantSummary is the dashboard tile of one quadrant.
type QuadrantSummary struct {
	models.QuadrantInfo
	Count int64 `json:"count"`
}

// Dashboard handles GET /api/dashboard.
func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	days, _ := strconv.Atoi(c.DefaultQuery("jours", strconv.Itoa(dashboardDays)))
	if days <= 0 {
		days = dashboardDays
	}
	from := time.Now().UTC().AddDate(0, 0, -days)

	// Загружаем статистику
	stats, err := h.store.Articles.Stats(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	counts, err := h.store.Articles.CountByQuadrant(ctx, from)
	if err != nil {
		h.fail(c, err)
		return
	}

	top, err := h.store.Articles.List(ctx, repository.ArticleFilter{
		MinImportance: highImportance,
		DateFrom:      &from,
		Limit:         dashboardTopLimit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	unread, err := h.store.Alerts.CountUnread(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	runs, err := h.store.Logs.Recent(ctx, dashboardRunsLimit)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, DashboardData{
		Stats:        stats,
		Quadrants:    quadrantSummaries(counts),
		TopArticles:  top,
		UnreadAlerts: unread,
		RecentRuns:   runs,
		WindowDays:   days,
	})
}

// quadrantSummaries lists every quadrant, including those without articles.
func quadrantSummaries(counts []repository.QuadrantCount) []QuadrantSummary {
	byQuadrant := make(map[models.Quadrant]int64, len(counts))
	for _, qc := range counts {
		byQuadrant[qc.Quadrant] = qc.Count
	}
	out := make([]QuadrantSummary, 0, len(models.AllQuadrants()))
	for _, q := range models.AllQuadrants() {
		out = append(out, QuadrantSummary{QuadrantInfo: q.Info(), Count: byQuadrant[q]})
	}
	return out
}
