package genclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/geometry"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/pkg/circuitbreaker"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/pkg/logger"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/pkg/retry"
)

// Client submits resolved geometry to the external CAD generation service.
// The service owns meshing and export; this side only ships geometry and
// waits for file references back.
type Client struct {
	baseURL    string
	formats    []string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
}

type GenerateRequest struct {
	Prompt   string          `json:"prompt"`
	Geometry geometry.Parsed `json:"geometry"`
	Formats  []string        `json:"formats"`
}

type GenerateResult struct {
	ModelID    string            `json:"model_id"`
	Files      map[string]string `json:"files"`
	PreviewURL string            `json:"preview_url,omitempty"`
	DurationMS int64             `json:"duration_ms"`
}

func NewClient(baseURL string, timeout time.Duration, formats []string) *Client {
	if len(formats) == 0 {
		formats = []string{"stl"}
	}

	return &Client{
		baseURL: baseURL,
		formats: formats,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: circuitbreaker.NewCircuitBreaker("cad-generator", circuitbreaker.Config{
			FailureThreshold: 5,
			SuccessThreshold: 2,
			Timeout:          30 * time.Second,
			Logger:           logger.GetLogger(),
		}),
	}
}

// Generate sends the geometry to the generation service. A failure here
// means no model was produced; callers must not record the attempt as a
// successful generation.
func (c *Client) Generate(ctx context.Context, prompt string, g geometry.Parsed) (*GenerateResult, error) {
	body, err := json.Marshal(GenerateRequest{
		Prompt:   prompt,
		Geometry: g,
		Formats:  c.formats,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generate request: %w", err)
	}

	start := time.Now()

	var result *GenerateResult
	err = c.breaker.Execute(ctx, func() error {
		cfg := retry.DefaultConfig()
		cfg.Logger = logger.GetLogger()

		result, err = retry.DoWithResult(ctx, cfg, func() (*GenerateResult, error) {
			return c.doGenerate(ctx, body)
		})
		return err
	})

	if err != nil {
		logger.Warn("CAD generation failed",
			zap.String("shape", string(g.Shape)),
			zap.Error(err),
		)
		return nil, err
	}

	result.DurationMS = time.Since(start).Milliseconds()

	logger.Info("CAD generation completed",
		zap.String("model_id", result.ModelID),
		zap.String("shape", string(g.Shape)),
		zap.Int64("duration_ms", result.DurationMS),
	)

	return result, nil
}

func (c *Client) doGenerate(ctx context.Context, body []byte) (*GenerateResult, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generator returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result GenerateResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse generator response: %w", err)
	}

	return &result, nil
}

// Health pings the generation service.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("generator unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("generator health returned status %d", resp.StatusCode)
	}
	return nil
}
