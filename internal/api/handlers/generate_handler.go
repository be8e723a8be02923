package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/cache/redis"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/geometry"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/metrics"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/pipeline"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/storage/models"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/pkg/logger"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/pkg/utils"
)

// FeedbackStore persists user feedback on generations.
type FeedbackStore interface {
	StoreFeedback(feedback *models.FeedbackRecord) error
}

type GenerateHandler struct {
	engine   *pipeline.Engine
	cache    *redis.Client
	cacheTTL time.Duration
	feedback FeedbackStore
}

// NewGenerateHandler wires the pipeline to HTTP. cache and feedback may be
// nil; the handler degrades to uncached, non-persistent behavior.
func NewGenerateHandler(engine *pipeline.Engine, cache *redis.Client, cacheTTL time.Duration, feedback FeedbackStore) *GenerateHandler {
	return &GenerateHandler{
		engine:   engine,
		cache:    cache,
		cacheTTL: cacheTTL,
		feedback: feedback,
	}
}

func sessionID(c *fiber.Ctx, bodySession string) string {
	if bodySession != "" {
		return bodySession
	}
	if header := c.Get("X-Session-ID"); header != "" {
		return header
	}
	return pipeline.DefaultSession
}

func (h *GenerateHandler) HandleGenerate(c *fiber.Ctx) error {
	var req struct {
		Prompt    string `json:"prompt"`
		Material  string `json:"material"`
		SessionID string `json:"sessionId"`
		Force     bool   `json:"force"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Prompt == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Prompt is required",
		})
	}

	out, err := h.engine.Generate(c.Context(), pipeline.GenerateInput{
		SessionID: sessionID(c, req.SessionID),
		Prompt:    req.Prompt,
		Material:  req.Material,
		Force:     req.Force,
	})
	if err != nil {
		logger.Error("Generation failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":      "CAD generation failed",
			"validation": out.Validation,
		})
	}

	status := fiber.StatusOK
	if out.Status == pipeline.StatusRejected {
		status = fiber.StatusUnprocessableEntity
	}

	if h.cache != nil {
		if err := h.cache.IncrementCounter(c.Context(), "generations:"+out.Status); err != nil {
			logger.Warn("Failed to increment generation counter", zap.Error(err))
		}
	}

	return c.Status(status).JSON(out)
}

func (h *GenerateHandler) HandlePreview(c *fiber.Ctx) error {
	var req struct {
		Prompt   string `json:"prompt"`
		Material string `json:"material"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Prompt == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Prompt is required",
		})
	}

	key := utils.HashString(req.Prompt + ":" + req.Material)

	if h.cache != nil {
		var cached pipeline.PreviewResult
		hit, err := h.cache.GetPreview(c.Context(), key, &cached)
		if err != nil {
			logger.Warn("Preview cache lookup failed", zap.Error(err))
		}
		if hit {
			metrics.CacheHits.WithLabelValues("preview").Inc()
			return c.JSON(cached)
		}
		metrics.CacheMisses.WithLabelValues("preview").Inc()
	}

	result := pipeline.Preview(req.Prompt, req.Material)

	if h.cache != nil {
		if err := h.cache.SetPreview(c.Context(), key, result, h.cacheTTL); err != nil {
			logger.Warn("Failed to cache preview", zap.Error(err))
		}
	}

	return c.JSON(result)
}

func (h *GenerateHandler) HandleValidate(c *fiber.Ctx) error {
	var req struct {
		Prompt   string           `json:"prompt"`
		Geometry *geometry.Parsed `json:"geometry"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var parsed geometry.Parsed
	switch {
	case req.Geometry != nil:
		parsed = *req.Geometry
	case req.Prompt != "":
		parsed = geometry.Parse(req.Prompt)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Prompt or geometry is required",
		})
	}

	return c.JSON(fiber.Map{
		"geometry":   parsed,
		"validation": geometry.Validate(parsed),
	})
}

func (h *GenerateHandler) HandleFeedback(c *fiber.Ctx) error {
	var req struct {
		GenerationID  string `json:"generationId"`
		Helpful       bool   `json:"helpful"`
		IssueCategory string `json:"issueCategory"`
		Comment       string `json:"comment"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.GenerationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "generationId is required",
		})
	}

	if h.feedback == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Feedback storage is not configured",
		})
	}

	err := h.feedback.StoreFeedback(&models.FeedbackRecord{
		GenerationID:  req.GenerationID,
		Helpful:       req.Helpful,
		IssueCategory: req.IssueCategory,
		Comment:       req.Comment,
	})
	if err != nil {
		logger.Error("Failed to store feedback", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store feedback",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Feedback recorded",
	})
}
