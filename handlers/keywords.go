package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"veille-strategique/models"
)

// KeywordInput is the body of keyword create and update. Nil fields are
// left unchanged on update.
type KeywordInput struct {
	Term        *string   `json:"terme"`
	Synonyms    *[]string `json:"synonymes"`
	Quadrant    *string   `json:"quadrant"`
	Criticality *int      `json:"criticite"`
	AutoAlert   *bool     `json:"alerte_auto"`
	Category    *string   `json:"categorie"`
	Active      *bool     `json:"actif"`
}

func (in KeywordInput) apply(k *models.KeywordRule) {
	if in.Term != nil {
		k.Term = strings.TrimSpace(*in.Term)
	}
	if in.Synonyms != nil {
		k.Synonyms = cleanSynonyms(*in.Synonyms)
	}
	if in.Quadrant != nil {
		k.Quadrant = models.Quadrant(strings.TrimSpace(*in.Quadrant))
	}
	if in.Criticality != nil {
		k.Criticality = *in.Criticality
	}
	if in.AutoAlert != nil {
		k.AutoAlert = *in.AutoAlert
	}
	if in.Category != nil {
		k.Category = *in.Category
	}
	if in.Active != nil {
		k.Active = *in.Active
	}
}

// cleanSynonyms trims synonyms and drops the blank ones.
func cleanSynonyms(in []string) []string {
	out := make([]string, 0, len(in))
	for _, syn := range in {
		if syn = strings.TrimSpace(syn); syn != "" {
			out = append(out, syn)
		}
	}
	return out
}

// GetKeywords handles GET /api/mots-cles. actifs=true keeps active rules only.
func (h *Handler) GetKeywords(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		rules []models.KeywordRule
		err   error
	)
	if c.Query("actifs") == "true" {
		rules, err = h.store.Keywords.ListActive(ctx)
	} else {
		rules, err = h.store.Keywords.List(ctx)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rules)
}

// CreateKeyword handles POST /api/mots-cles.
func (h *Handler) CreateKeyword(c *gin.Context) {
	var input KeywordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	// Новые правила активны по умолчанию
	rule := models.KeywordRule{Active: true}
	input.apply(&rule)
	if err := rule.Validate(); err != nil {
		h.fail(c, err)
		return
	}

	if err := h.store.Keywords.Create(c.Request.Context(), &rule); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// UpdateKeyword handles PUT /api/mots-cles/:id.
func (h *Handler) UpdateKeyword(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input KeywordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	ctx := c.Request.Context()
	rule, err := h.store.Keywords.Get(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	input.apply(rule)
	if err := rule.Validate(); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.Keywords.Update(ctx, rule); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

// DeleteKeyword handles DELETE /api/mots-cles/:id. The rule is deactivated,
// not removed.
func (h *Handler) DeleteKeyword(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.Keywords.Deactivate(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
