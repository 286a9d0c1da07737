package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetAlerts handles GET /api/alertes. non_lues=true keeps unread alerts only.
func (h *Handler) GetAlerts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	unreadOnly := c.Query("non_lues") == "true"

	alerts, err := h.store.Alerts.List(c.Request.Context(), unreadOnly, min(limit, maxListLimit))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// MarkAlertRead handles PATCH /api/alertes/:id/lue.
func (h *Handler) MarkAlertRead(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.Alerts.MarkRead(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAlertTreated handles PATCH /api/alertes/:id/traitee.
func (h *Handler) MarkAlertTreated(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.Alerts.MarkTreated(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
