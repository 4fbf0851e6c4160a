package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/webgarden/platform/internal/infrastructure/config"
	"github.com/webgarden/platform/internal/interfaces/http/dto"
)

const chatReplyLimit = 64 << 10

// ChatRequest is the payload accepted from the chat widget
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
}

// ChatReply is the payload returned to the chat widget
type ChatReply struct {
	Response string `json:"response"`
}

// ChatHandler relays chat widget messages to the configured bot API.
// The bot credential stays server-side so the widget never sees it.
type ChatHandler struct {
	BaseHandler
	cfg    config.ChatConfig
	client *http.Client
	logger *zap.Logger
}

// NewChatHandler creates a new chat relay handler
func NewChatHandler(cfg config.ChatConfig, logger *zap.Logger) *ChatHandler {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ChatHandler{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Relay handles POST /api/chat
func (h *ChatHandler) Relay(c *gin.Context) {
	if !h.cfg.Enabled || h.cfg.APIEndpoint == "" {
		h.NotFound(c, "Chat is not available")
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "A message is required")
		return
	}

	reply, err := h.forward(c.Request.Context(), req)
	if err != nil {
		h.logger.Warn("Chat relay failed", zap.Error(err))
		h.Error(c, http.StatusBadGateway, dto.ErrCodeInternal, "The assistant is unavailable right now")
		return
	}

	c.JSON(http.StatusOK, reply)
}

func (h *ChatHandler) forward(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	payload, err := json.Marshal(map[string]string{
		"message":    req.Message,
		"session_id": req.SessionID,
		"bot_id":     h.cfg.BotID,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.cfg.APIEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, chatReplyLimit))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &upstreamError{status: resp.StatusCode}
	}

	var reply ChatReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

type upstreamError struct {
	status int
}

func (e *upstreamError) Error() string {
	return "chat upstream returned status " + http.StatusText(e.status)
}
