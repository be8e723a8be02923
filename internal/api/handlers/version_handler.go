package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/geometry"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/metrics"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/pipeline"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/version"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/pkg/logger"
)

// versionState is what a snapshot actually stores: the geometry plus the
// prompt that produced it.
type versionState struct {
	Prompt   string          `json:"prompt"`
	Geometry geometry.Parsed `json:"geometry"`
}

type VersionHandler struct {
	store  *version.Store
	engine *pipeline.Engine
}

func NewVersionHandler(store *version.Store, engine *pipeline.Engine) *VersionHandler {
	return &VersionHandler{
		store:  store,
		engine: engine,
	}
}

func (h *VersionHandler) HandleList(c *fiber.Ctx) error {
	modelID := c.Params("id")

	versions, err := h.store.List(c.Context(), modelID)
	if err != nil {
		logger.Error("Failed to list versions", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list versions",
		})
	}

	return c.JSON(fiber.Map{
		"modelId":  modelID,
		"versions": versions,
	})
}

func (h *VersionHandler) HandleSave(c *fiber.Ctx) error {
	modelID := c.Params("id")

	var req struct {
		Description string `json:"description"`
		SessionID   string `json:"sessionId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	g, prompt, ok := h.engine.Current(sessionID(c, req.SessionID))
	if !ok {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "No geometry to snapshot; generate a model first",
		})
	}

	state, err := json.Marshal(versionState{Prompt: prompt, Geometry: g})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to encode snapshot",
		})
	}

	v, err := h.store.Save(c.Context(), modelID, req.Description, state)
	if err != nil {
		logger.Error("Failed to save version", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save version",
		})
	}

	metrics.VersionsSaved.Inc()

	return c.Status(fiber.StatusCreated).JSON(v)
}

func (h *VersionHandler) HandleRestore(c *fiber.Ctx) error {
	modelID := c.Params("id")
	versionID := c.Params("versionId")

	var req struct {
		SessionID string `json:"sessionId"`
	}
	c.BodyParser(&req)

	raw, err := h.store.Restore(c.Context(), modelID, versionID)
	if err != nil {
		if errors.Is(err, version.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Version not found",
			})
		}
		logger.Error("Failed to restore version", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to restore version",
		})
	}

	var state versionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Stored snapshot is corrupt",
		})
	}

	// The restored geometry becomes the session's working state; further
	// modifications branch from here without touching the snapshot.
	h.engine.SetCurrent(sessionID(c, req.SessionID), state.Geometry, state.Prompt)

	return c.JSON(fiber.Map{
		"modelId":   modelID,
		"versionId": versionID,
		"prompt":    state.Prompt,
		"geometry":  state.Geometry,
	})
}

func (h *VersionHandler) HandleDelete(c *fiber.Ctx) error {
	modelID := c.Params("id")
	versionID := c.Params("versionId")

	err := h.store.Delete(c.Context(), modelID, versionID)
	if err != nil {
		if errors.Is(err, version.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Version not found",
			})
		}
		logger.Error("Failed to delete version", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete version",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Version deleted",
	})
}
