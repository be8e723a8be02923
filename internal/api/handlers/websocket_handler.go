package handlers

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/assist"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/geometry"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/internal/pipeline"
	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/pkg/logger"
)

// WebSocketHandler streams assistant replies and live previews over one
// connection, so the UI can show geometry updating as the user types.
type WebSocketHandler struct {
	assistant *assist.Assistant
	engine    *pipeline.Engine
}

func NewWebSocketHandler(assistant *assist.Assistant, engine *pipeline.Engine) *WebSocketHandler {
	return &WebSocketHandler{
		assistant: assistant,
		engine:    engine,
	}
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	for {
		var msg struct {
			Type      string `json:"type"`
			Content   string `json:"content"`
			SessionID string `json:"sessionId"`
		}

		err := c.ReadJSON(&msg)
		if err != nil {
			logger.Debug("WebSocket read ended", zap.Error(err))
			break
		}

		switch msg.Type {
		case "preview":
			h.sendPreview(c, msg.Content)
		case "chat":
			if err := h.streamChat(c, msg.Content); err != nil {
				logger.Error("Failed to stream chat reply", zap.Error(err))
				h.sendError(c, "Chat assistant failed")
			}
		}
	}
}

// sendPreview parses the in-progress prompt and pushes the geometry back
// immediately; no generation, no session state.
func (h *WebSocketHandler) sendPreview(c *websocket.Conn, prompt string) {
	parsed := geometry.Parse(prompt)

	err := c.WriteJSON(map[string]interface{}{
		"type":       "preview",
		"geometry":   parsed,
		"validation": geometry.Validate(parsed),
	})
	if err != nil {
		logger.Debug("Failed to send preview", zap.Error(err))
	}
}

func (h *WebSocketHandler) streamChat(c *websocket.Conn, content string) error {
	if !h.assistant.Enabled() {
		h.sendError(c, "Chat assistant is not configured")
		return nil
	}

	h.sendChunk(c, "status", "Thinking...")

	reply, err := h.assistant.Chat(context.Background(), []assist.Message{
		{Role: "user", Content: content},
	})
	if err != nil {
		return err
	}

	words := splitIntoWords(reply)
	for i, word := range words {
		chunk := word
		if i < len(words)-1 {
			chunk += " "
		}

		if err := h.sendChunk(c, "chunk", chunk); err != nil {
			return err
		}
	}

	suggestions := assist.SuggestedPrompts(geometry.ShapeBox)
	if g, _, ok := h.engine.Current(pipeline.DefaultSession); ok {
		suggestions = assist.SuggestedPrompts(g.Shape)
	}

	return c.WriteJSON(map[string]interface{}{
		"type":        "complete",
		"suggestions": suggestions,
	})
}

func (h *WebSocketHandler) sendChunk(c *websocket.Conn, msgType, content string) error {
	return c.WriteJSON(map[string]interface{}{
		"type":    msgType,
		"content": content,
	})
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, errorMsg string) {
	c.WriteJSON(map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	})
}

func splitIntoWords(text string) []string {
	words := []string{}
	currentWord := ""

	for _, char := range text {
		if char == ' ' || char == '\n' {
			if currentWord != "" {
				words = append(words, currentWord)
				currentWord = ""
			}
			if char == '\n' {
				words = append(words, "\n")
			}
		} else {
			currentWord += string(char)
		}
	}

	if currentWord != "" {
		words = append(words, currentWord)
	}

	return words
}
