package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.line.me"

// Message is a single outbound LINE message.
type Message struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// TextMessage builds the only message kind this bot sends.
func TextMessage(text string) Message {
	return Message{Type: "text", Text: text}
}

// Client talks to the LINE Messaging API reply and push endpoints.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient builds an API client. An empty access token is tolerated; sends
// become no-ops so a misconfigured deployment still acknowledges webhooks.
func NewClient(baseURL, accessToken string, logger *slog.Logger) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		baseURL:     strings.TrimRight(base, "/"),
		accessToken: strings.TrimSpace(accessToken),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.With("component", "line.client"),
	}
}

type replyPayload struct {
	ReplyToken string    `json:"replyToken"`
	Messages   []Message `json:"messages"`
}

type pushPayload struct {
	To       string    `json:"to"`
	Messages []Message `json:"messages"`
}

// Reply answers a single inbound event through its reply token.
func (c *Client) Reply(ctx context.Context, replyToken string, messages []Message) error {
	if c.accessToken == "" {
		c.logger.Warn("channel access token not set, dropping reply")
		return nil
	}
	return c.post(ctx, "/v2/bot/message/reply", replyPayload{ReplyToken: replyToken, Messages: messages})
}

// Push proactively sends messages to a user or group identifier.
func (c *Client) Push(ctx context.Context, to string, messages []Message) error {
	if c.accessToken == "" {
		c.logger.Warn("channel access token not set, dropping push")
		return nil
	}
	return c.post(ctx, "/v2/bot/message/push", pushPayload{To: to, Messages: messages})
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode line payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build line request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("line request failed: %w", err)
	}
	defer resp.Body.Close()

	result, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if resp.StatusCode >= 300 {
		return fmt.Errorf("line request error: status=%d body=%s", resp.StatusCode, string(result))
	}
	c.logger.Debug("line message sent", "path", path, "status", resp.StatusCode, "result", string(result))
	return nil
}
