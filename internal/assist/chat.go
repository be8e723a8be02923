package assist

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/metrics"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/pkg/circuitbreaker"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/pkg/logger"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/pkg/retry"
)

// ErrUnavailable means the assistant has no API key configured. Handlers map
// it to 503; the rule-based pipeline keeps working without it.
var ErrUnavailable = errors.New("chat assistant is not configured")

const systemPrompt = `You are a CAD design assistant for a parametric geometry tool.
Users describe mechanical parts in plain language; the tool parses shapes
(box, cylinder, sphere, cone, torus, gear), dimensions in millimeters, and
features (holes, fillets, chamfers).

Your job:
1. Help users phrase prompts the parser understands, e.g. "box 100x50x10mm with a 5mm hole"
2. Answer manufacturing questions (materials, tolerances, fits like H7/g6)
3. Suggest design improvements for printability and machinability

Be concise and practical. Dimensions are always millimeters unless stated.`

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Assistant struct {
	client      *openai.Client
	model       string
	temperature float32
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
}

// NewAssistant returns a nil-client assistant when apiKey is empty; Chat
// then fails with ErrUnavailable instead of making doomed API calls.
func NewAssistant(apiKey, model string, temperature float32) *Assistant {
	a := &Assistant{
		model:       model,
		temperature: temperature,
		cb: circuitbreaker.NewCircuitBreaker("assist-llm", circuitbreaker.Config{
			MaxRequests:      5,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
			SuccessThreshold: 2,
			Logger:           logger.GetLogger(),
		}),
		retryConfig: retry.Config{
			MaxAttempts:    3,
			InitialDelay:   500 * time.Millisecond,
			MaxDelay:       5 * time.Second,
			Multiplier:     2.0,
			JitterFraction: 0.1,
			Logger:         logger.GetLogger(),
		},
	}

	if apiKey != "" {
		a.client = openai.NewClient(apiKey)
		logger.Info("Chat assistant initialized", zap.String("model", model))
	} else {
		logger.Warn("Chat assistant disabled: no API key configured")
	}

	return a
}

func (a *Assistant) Enabled() bool {
	return a.client != nil
}

// Chat sends the conversation to the model and returns the reply.
func (a *Assistant) Chat(ctx context.Context, history []Message) (string, error) {
	if a.client == nil {
		return "", ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range history {
		role := m.Role
		if role != openai.ChatMessageRoleAssistant {
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	var reply string

	err := a.cb.Execute(ctx, func() error {
		return retry.Do(ctx, a.retryConfig, func() error {
			resp, err := a.client.CreateChatCompletion(
				ctx,
				openai.ChatCompletionRequest{
					Model:       a.model,
					Messages:    messages,
					Temperature: a.temperature,
					MaxTokens:   800,
				},
			)

			if err != nil {
				return fmt.Errorf("failed to create completion: %w", err)
			}

			metrics.ChatTokensUsed.WithLabelValues(a.model, "total").Add(float64(resp.Usage.TotalTokens))
			logger.Debug("Chat completion generated",
				zap.Int("prompt_tokens", resp.Usage.PromptTokens),
				zap.Int("completion_tokens", resp.Usage.CompletionTokens),
			)

			reply = resp.Choices[0].Message.Content
			return nil
		})
	})

	if err != nil {
		return "", err
	}

	return reply, nil
}
