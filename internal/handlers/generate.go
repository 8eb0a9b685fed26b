package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/postcraft/infrastructure/logger"
	"github.com/jonesrussell/postcraft/internal/generation"
)

type GenerationHandler struct {
	generator Generator
	log       logger.Logger
}

func NewGenerationHandler(generator Generator, log logger.Logger) *GenerationHandler {
	return &GenerationHandler{generator: generator, log: log}
}

// Generate returns generated copy without storing it.
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req generation.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), req)
	if err != nil {
		status, msg := generationStatus(err)
		requestLogger(c).Warn("Generation failed",
			logger.Platform(string(req.Platform)),
			logger.Int("status", status),
			logger.Error(err),
		)
		respondError(c, status, msg)
		return
	}

	requestLogger(c).Info("Content generated",
		logger.Platform(string(req.Platform)),
		logger.String("provider_role", string(result.Provider)),
		logger.String("model_used", result.ModelUsed),
	)
	c.JSON(http.StatusOK, result)
}
