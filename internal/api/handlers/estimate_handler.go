package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/cache/redis"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/estimate"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/geometry"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/metrics"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/pkg/logger"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/pkg/utils"
)

type EstimateHandler struct {
	cache    *redis.Client
	cacheTTL time.Duration
}

func NewEstimateHandler(cache *redis.Client, cacheTTL time.Duration) *EstimateHandler {
	return &EstimateHandler{
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// estimateRequest covers all three estimate endpoints. Either a prompt or an
// explicit geometry selects the part.
type estimateRequest struct {
	Prompt   string           `json:"prompt"`
	Geometry *geometry.Parsed `json:"geometry"`
	Material string           `json:"material"`
	Method   string           `json:"method"`
	Quantity int              `json:"quantity"`
	Nominal  float64          `json:"nominal"`
	Fit      string           `json:"fit"`
}

func (r *estimateRequest) resolveGeometry() (geometry.Parsed, bool) {
	if r.Geometry != nil {
		return *r.Geometry, true
	}
	if r.Prompt != "" {
		return geometry.Parse(r.Prompt), true
	}
	return geometry.Parsed{}, false
}

func (h *EstimateHandler) HandleBOM(c *fiber.Ctx) error {
	var req estimateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	parsed, ok := req.resolveGeometry()
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Prompt or geometry is required",
		})
	}
	if req.Material == "" {
		req.Material = "steel"
	}

	key := utils.HashString(fmt.Sprintf("bom:%+v:%s", parsed, req.Material))
	var cached estimate.BillOfMaterials
	if h.cacheGet(c, key, &cached) {
		return c.JSON(cached)
	}

	bom := estimate.BOM(parsed, req.Material)
	if bom == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":     "Unknown material",
			"materials": estimate.Materials(),
		})
	}

	metrics.EstimateTotal.WithLabelValues("bom").Inc()
	h.cacheSet(c, key, bom)

	return c.JSON(bom)
}

func (h *EstimateHandler) HandleCost(c *fiber.Ctx) error {
	var req estimateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	parsed, ok := req.resolveGeometry()
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Prompt or geometry is required",
		})
	}
	if req.Material == "" {
		req.Material = "steel"
	}
	if req.Method == "" {
		req.Method = "3d_print"
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	key := utils.HashString(fmt.Sprintf("cost:%+v:%s:%s:%d", parsed, req.Material, req.Method, req.Quantity))
	var cached estimate.CostEstimate
	if h.cacheGet(c, key, &cached) {
		return c.JSON(cached)
	}

	est := estimate.Cost(parsed, req.Material, req.Method, req.Quantity)
	if est == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":     "Unknown material or method",
			"materials": estimate.Materials(),
			"methods":   estimate.Methods(),
		})
	}

	metrics.EstimateTotal.WithLabelValues("cost").Inc()
	h.cacheSet(c, key, est)

	return c.JSON(est)
}

// HandleTolerance serves both GET with ?nominal=&fit= and POST with a JSON
// body carrying a prompt or geometry.
func (h *EstimateHandler) HandleTolerance(c *fiber.Ctx) error {
	var req estimateRequest
	if c.Method() == fiber.MethodGet {
		req.Fit = c.Query("fit")
		req.Nominal = c.QueryFloat("nominal")
	} else if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// The fit class can come from the request or ride along on a parsed
	// geometry ("shaft 20mm H7/g6").
	fit := req.Fit
	nominal := req.Nominal
	if parsed, ok := req.resolveGeometry(); ok {
		if fit == "" {
			fit = parsed.Fit
		}
		if nominal == 0 {
			nominal = parsed.Dimensions["diameter"]
		}
	}

	if fit == "" || nominal <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A fit class and a positive nominal size are required",
			"fits":  estimate.FitClasses(),
		})
	}

	res := estimate.Tolerance(nominal, fit)
	if res == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown fit class",
			"fits":  estimate.FitClasses(),
		})
	}

	metrics.EstimateTotal.WithLabelValues("tolerance").Inc()

	return c.JSON(res)
}

func (h *EstimateHandler) HandleMaterials(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"materials": estimate.Materials(),
		"methods":   estimate.Methods(),
		"fits":      estimate.FitClasses(),
	})
}

func (h *EstimateHandler) cacheGet(c *fiber.Ctx, key string, out interface{}) bool {
	if h.cache == nil {
		return false
	}
	hit, err := h.cache.GetEstimate(c.Context(), key, out)
	if err != nil {
		logger.Warn("Estimate cache lookup failed", zap.Error(err))
		return false
	}
	if hit {
		metrics.CacheHits.WithLabelValues("estimate").Inc()
	} else {
		metrics.CacheMisses.WithLabelValues("estimate").Inc()
	}
	return hit
}

func (h *EstimateHandler) cacheSet(c *fiber.Ctx, key string, value interface{}) {
	if h.cache == nil {
		return
	}
	if err := h.cache.SetEstimate(c.Context(), key, value, h.cacheTTL); err != nil {
		logger.Warn("Failed to cache estimate", zap.Error(err))
	}
}
