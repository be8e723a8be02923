package validation

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Prompts are plain engineering English ("create a box", "drop a hole in the
// corner"), so keyword blocklists would reject legitimate input. Only markup
// injection is screened out.
var xssPattern = regexp.MustCompile(`(?i)(<script|<iframe|javascript:|onerror=|onload=|onclick=)`)

type Config struct {
	MaxPromptLength     int
	AllowedContentTypes []string
	Logger              *zap.Logger
}

var promptPaths = []string{
	"/api/v1/generate",
	"/api/v1/preview",
	"/api/v1/validate",
	"/api/v1/assist/chat",
}

func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxPromptLength == 0 {
		cfg.MaxPromptLength = 2000
	}
	if len(cfg.AllowedContentTypes) == 0 {
		cfg.AllowedContentTypes = []string{"application/json"}
	}

	return func(c *fiber.Ctx) error {
		if c.Method() == "POST" || c.Method() == "PUT" {
			contentType := c.Get("Content-Type")
			if contentType != "" {
				allowed := false
				for _, allowedType := range cfg.AllowedContentTypes {
					if strings.Contains(contentType, allowedType) {
						allowed = true
						break
					}
				}
				if !allowed {
					return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
						"error": "Unsupported content type",
					})
				}
			}
		}

		if c.Method() == "POST" && isPromptPath(c.Path()) {
			var req map[string]interface{}
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid JSON format",
				})
			}

			prompt, _ := req["prompt"].(string)
			if message, ok := req["message"].(string); ok && prompt == "" {
				prompt = message
			}

			if len(prompt) > cfg.MaxPromptLength {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Prompt exceeds maximum length",
				})
			}

			if xssPattern.MatchString(prompt) {
				cfg.Logger.Warn("Potential XSS attempt",
					zap.String("ip", c.IP()),
					zap.String("path", c.Path()),
				)
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid prompt content",
				})
			}

			req["prompt"] = sanitizeString(prompt)
			c.Locals("sanitized_body", req)
		}

		return c.Next()
	}
}

func isPromptPath(path string) bool {
	for _, p := range promptPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func sanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")
	return input
}
