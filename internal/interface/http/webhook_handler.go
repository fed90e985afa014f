package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/bonsai-care-bot/internal/domain/push"
	"github.com/yanqian/bonsai-care-bot/internal/domain/webhook"
	apperrors "github.com/yanqian/bonsai-care-bot/pkg/errors"
	"github.com/yanqian/bonsai-care-bot/pkg/metrics"
)

const signatureHeader = "x-line-signature"

// defaultProcessTimeout bounds detached event processing so background work
// cannot accumulate without limit under load.
const defaultProcessTimeout = 30 * time.Second

// Handler owns the webhook request/response lifecycle: immediate
// acknowledgment, asynchronous event processing and the push trigger.
type Handler struct {
	verifier       *webhook.SignatureVerifier
	events         webhook.Service
	pushSvc        push.Service
	counters       *metrics.Counters
	logger         *slog.Logger
	processTimeout time.Duration
}

// NewHandler constructs the root HTTP handler.
func NewHandler(verifier *webhook.SignatureVerifier, events webhook.Service, pushSvc push.Service, counters *metrics.Counters, logger *slog.Logger) *Handler {
	return &Handler{
		verifier:       verifier,
		events:         events,
		pushSvc:        pushSvc,
		counters:       counters,
		logger:         logger.With("component", "http.handler"),
		processTimeout: defaultProcessTimeout,
	}
}

// Webhook acknowledges the platform delivery and hands the events off for
// asynchronous processing. The platform penalizes slow and non-200
// responses, so exactly one 200 "OK" is produced per request regardless of
// the downstream outcome, and the acknowledgment never waits on the weather
// provider or the reply API.
func (h *Handler) Webhook(c *gin.Context) {
	// Verification probes arrive as non-POST requests.
	if c.Request.Method != http.MethodPost {
		c.String(http.StatusOK, "OK")
		return
	}

	// The raw bytes must be captured before any JSON parse: verification
	// runs over the wire bytes, not a re-serialization.
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Warn("webhook body read failed", "error", err)
		c.String(http.StatusOK, "OK")
		return
	}

	if !h.verifier.Verify(rawBody, c.GetHeader(signatureHeader)) {
		h.logger.Warn("webhook signature rejected")
		c.String(http.StatusOK, "OK")
		return
	}

	var payload webhook.Payload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		h.logger.Warn("webhook payload malformed", "error", err)
		c.String(http.StatusOK, "OK")
		return
	}

	c.String(http.StatusOK, "OK")
	h.counters.Acknowledged()

	if len(payload.Events) == 0 {
		return
	}
	go h.dispatch(payload.Events)
}

// dispatch runs detached from the request under its own error boundary and
// a bounded background context.
func (h *Handler) dispatch(events []webhook.InboundEvent) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("event processing panicked", "panic", r)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), h.processTimeout)
	defer cancel()
	h.events.HandleEvents(ctx, events)
}

// Push triggers the daily bulletin. Unlike the webhook transport, the
// scheduler that calls this endpoint wants to see failures.
func (h *Handler) Push(c *gin.Context) {
	if err := h.pushSvc.Broadcast(c.Request.Context()); err != nil {
		status := http.StatusInternalServerError
		if apperrors.IsCode(err, push.CodeNoRecipient) {
			status = http.StatusBadRequest
		}
		abortWithError(c, NewHTTPError(status, "push_failed", err.Error(), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "pushed"})
}

// Healthz reports liveness plus process counters.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"counters": h.counters.Snapshot(),
	})
}
