package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/assist"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/geometry"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/pipeline"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/pkg/logger"
)

type AssistHandler struct {
	assistant *assist.Assistant
	engine    *pipeline.Engine
}

func NewAssistHandler(assistant *assist.Assistant, engine *pipeline.Engine) *AssistHandler {
	return &AssistHandler{
		assistant: assistant,
		engine:    engine,
	}
}

// HandleAmbiguities runs the rule-based prompt inspection. It works without
// any LLM configured.
func (h *AssistHandler) HandleAmbiguities(c *fiber.Ctx) error {
	var req struct {
		Prompt string `json:"prompt"`
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

	parsed := geometry.Parse(req.Prompt)

	return c.JSON(fiber.Map{
		"geometry":    parsed,
		"ambiguities": assist.DetectAmbiguities(req.Prompt, parsed),
		"suggestions": assist.SuggestedPrompts(parsed.Shape),
	})
}

func (h *AssistHandler) HandleChat(c *fiber.Ctx) error {
	var req struct {
		Messages  []assist.Message `json:"messages"`
		Message   string           `json:"message"`
		SessionID string           `json:"sessionId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	messages := req.Messages
	if len(messages) == 0 && req.Message != "" {
		messages = []assist.Message{{Role: "user", Content: req.Message}}
	}
	if len(messages) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A message is required",
		})
	}

	reply, err := h.assistant.Chat(c.Context(), messages)
	if err != nil {
		if errors.Is(err, assist.ErrUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Chat assistant is not configured",
			})
		}
		logger.Error("Chat completion failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Chat assistant failed",
		})
	}

	resp := fiber.Map{"reply": reply}
	if g, _, ok := h.engine.Current(sessionID(c, req.SessionID)); ok {
		resp["suggestions"] = assist.SuggestedPrompts(g.Shape)
	}

	return c.JSON(resp)
}
