package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AnalysisRequest struct {
	Language string `json:"language"`
}

// GenerateAnalysis handles POST /api/actualites/:id/analyse.
func (h *Handler) GenerateAnalysis(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	// Пустое тело допустимо: язык по умолчанию
	var request AnalysisRequest
	if err := c.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Invalid request body")
		return
	}

	analysis, err := h.enrich.Analyze(c.Request.Context(), id, request.Language)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "analysis": analysis.AIAnalysis, "langue": analysis.AnalysisLanguage})
}
