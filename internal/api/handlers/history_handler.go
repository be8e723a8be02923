package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/pipeline"
)

type HistoryHandler struct {
	engine *pipeline.Engine
}

func NewHistoryHandler(engine *pipeline.Engine) *HistoryHandler {
	return &HistoryHandler{
		engine: engine,
	}
}

func (h *HistoryHandler) HandleList(c *fiber.Ctx) error {
	session := sessionID(c, c.Query("sessionId"))
	entries, index := h.engine.History(session)

	return c.JSON(fiber.Map{
		"entries": entries,
		"index":   index,
	})
}

func (h *HistoryHandler) HandleUndo(c *fiber.Ctx) error {
	var req struct {
		SessionID string `json:"sessionId"`
	}
	// An empty body is fine; the session falls back to the header.
	c.BodyParser(&req)

	entry, ok := h.engine.Undo(sessionID(c, req.SessionID))
	if !ok {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Nothing to undo",
		})
	}

	return c.JSON(fiber.Map{
		"entry":    entry,
		"geometry": geometryForEntry(h.engine, c, req.SessionID),
	})
}

func (h *HistoryHandler) HandleRedo(c *fiber.Ctx) error {
	var req struct {
		SessionID string `json:"sessionId"`
	}
	c.BodyParser(&req)

	entry, ok := h.engine.Redo(sessionID(c, req.SessionID))
	if !ok {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Nothing to redo",
		})
	}

	return c.JSON(fiber.Map{
		"entry":    entry,
		"geometry": geometryForEntry(h.engine, c, req.SessionID),
	})
}

func geometryForEntry(engine *pipeline.Engine, c *fiber.Ctx, bodySession string) interface{} {
	g, _, ok := engine.Current(sessionID(c, bodySession))
	if !ok {
		return nil
	}
	return g
}
