package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetActors handles GET /api/personnalites, optionally filtered by cercle.
func (h *Handler) GetActors(c *gin.Context) {
	circle, _ := strconv.Atoi(c.DefaultQuery("cercle", "0"))

	actors, err := h.store.Actors.List(c.Request.Context(), circle)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, actors)
}

// GetActorSpdi handles GET /api/personnalites/:id/spdi.
func (h *Handler) GetActorSpdi(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	ctx := c.Request.Context()

	actor, err := h.store.Actors.Get(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	history, err := h.store.Spdi.History(ctx, id, min(limit, maxListLimit))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"personnalite": actor, "historique": history})
}
