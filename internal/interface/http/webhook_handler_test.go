package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/bonsai-care-bot/internal/domain/forecast"
	"github.com/yanqian/bonsai-care-bot/internal/domain/push"
	"github.com/yanqian/bonsai-care-bot/internal/domain/webhook"
	"github.com/yanqian/bonsai-care-bot/internal/infra/config"
	"github.com/yanqian/bonsai-care-bot/internal/infra/line"
	apperrors "github.com/yanqian/bonsai-care-bot/pkg/errors"
	"github.com/yanqian/bonsai-care-bot/pkg/metrics"
)

const testSecret = "channel-secret"

type stubEvents struct {
	mu      sync.Mutex
	batches [][]webhook.InboundEvent
	block   chan struct{}
}

func (s *stubEvents) HandleEvents(_ context.Context, events []webhook.InboundEvent) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, events)
}

func (s *stubEvents) batchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

type stubPush struct {
	err   error
	calls int
}

func (s *stubPush) Broadcast(context.Context) error {
	s.calls++
	return s.err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newServerUnderTest(t *testing.T, events webhook.Service, pushSvc push.Service) *http.Server {
	t.Helper()
	handler := NewHandler(
		webhook.NewSignatureVerifier(testSecret),
		events,
		pushSvc,
		metrics.NewCounters(),
		newTestLogger(),
	)
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, handler)
}

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func performWebhook(server *http.Server, method string, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/webhook", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("x-line-signature", signature)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func eventsBody(t *testing.T, events ...webhook.InboundEvent) []byte {
	t.Helper()
	body, err := json.Marshal(webhook.Payload{Events: events})
	require.NoError(t, err)
	return body
}

func TestWebhook_NonPOSTAcknowledged(t *testing.T) {
	events := &stubEvents{}
	server := newServerUnderTest(t, events, &stubPush{})

	rec := performWebhook(server, http.MethodGet, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())
	require.Zero(t, events.batchCount())
}

func TestWebhook_InvalidSignatureAcknowledgedWithoutProcessing(t *testing.T) {
	events := &stubEvents{}
	server := newServerUnderTest(t, events, &stubPush{})
	body := eventsBody(t, webhook.InboundEvent{Type: "message"})

	rec := performWebhook(server, http.MethodPost, body, "bogus")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())

	rec = performWebhook(server, http.MethodPost, body, "")
	require.Equal(t, http.StatusOK, rec.Code)

	time.Sleep(50 * time.Millisecond)
	require.Zero(t, events.batchCount())
}

func TestWebhook_MalformedBodyAcknowledgedWithoutProcessing(t *testing.T) {
	events := &stubEvents{}
	server := newServerUnderTest(t, events, &stubPush{})
	body := []byte("this is not json")

	rec := performWebhook(server, http.MethodPost, body, sign(body))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())

	time.Sleep(50 * time.Millisecond)
	require.Zero(t, events.batchCount())
}

func TestWebhook_AcknowledgedBeforeProcessingCompletes(t *testing.T) {
	events := &stubEvents{block: make(chan struct{})}
	server := newServerUnderTest(t, events, &stubPush{})
	body := eventsBody(t, webhook.InboundEvent{
		Type:       "message",
		ReplyToken: "a1b2c3d4e5",
		Message:    &webhook.EventMessage{Type: "text", Text: "status"},
	})

	rec := performWebhook(server, http.MethodPost, body, sign(body))

	// The acknowledgment is complete while processing is still blocked.
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())
	require.Zero(t, events.batchCount())

	close(events.block)
	require.Eventually(t, func() bool {
		return events.batchCount() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestWebhook_EventsHandedOff(t *testing.T) {
	events := &stubEvents{}
	server := newServerUnderTest(t, events, &stubPush{})
	event := webhook.InboundEvent{
		Type:       "message",
		ReplyToken: "a1b2c3d4e5",
		Message:    &webhook.EventMessage{Type: "text", Text: "真柏"},
	}
	body := eventsBody(t, event)

	rec := performWebhook(server, http.MethodPost, body, sign(body))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Eventually(t, func() bool {
		return events.batchCount() == 1
	}, time.Second, 10*time.Millisecond)
	events.mu.Lock()
	got := events.batches[0]
	events.mu.Unlock()
	require.Equal(t, []webhook.InboundEvent{event}, got)
}

func TestWebhook_EmptyEventsAcknowledgedWithoutDispatch(t *testing.T) {
	events := &stubEvents{}
	server := newServerUnderTest(t, events, &stubPush{})
	body := eventsBody(t)

	rec := performWebhook(server, http.MethodPost, body, sign(body))
	require.Equal(t, http.StatusOK, rec.Code)

	time.Sleep(50 * time.Millisecond)
	require.Zero(t, events.batchCount())
}

func TestPushEndpoint_Success(t *testing.T) {
	pushSvc := &stubPush{}
	server := newServerUnderTest(t, &stubEvents{}, pushSvc)

	req := httptest.NewRequest(http.MethodPost, "/push", nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, pushSvc.calls)
	require.Contains(t, rec.Body.String(), "pushed")
}

func TestPushEndpoint_Failure(t *testing.T) {
	pushSvc := &stubPush{err: apperrors.Wrap(push.CodeDelivery, "push send failed", nil)}
	server := newServerUnderTest(t, &stubEvents{}, pushSvc)

	req := httptest.NewRequest(http.MethodGet, "/push", nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "push_failed")
}

func TestPushEndpoint_NoRecipient(t *testing.T) {
	pushSvc := &stubPush{err: apperrors.Wrap(push.CodeNoRecipient, "push recipient not configured", nil)}
	server := newServerUnderTest(t, &stubEvents{}, pushSvc)

	req := httptest.NewRequest(http.MethodPost, "/push", nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	server := newServerUnderTest(t, &stubEvents{}, &stubPush{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "counters")
}

func TestWebhook_EndToEndAdviceReply(t *testing.T) {
	forecasts := &fixedForecast{reading: forecast.Reading{
		Temperature:        34,
		DaytimeAvgHumidity: 45,
		UVIndex:            9,
		WindSpeed:          15,
		PrecipProbability:  10,
	}}
	replier := &capturingReplier{}
	router := webhook.NewService(webhook.Config{
		TriggerKeyword:   "真柏",
		Cities:           map[string]webhook.Coordinate{"高雄": {Latitude: 22.63, Longitude: 120.30}},
		DefaultLatitude:  22.63,
		DefaultLongitude: 120.30,
	}, forecasts, replier, nil, metrics.NewCounters(), newTestLogger())
	server := newServerUnderTest(t, router, &stubPush{})

	body := eventsBody(t, webhook.InboundEvent{
		Type:       "message",
		ReplyToken: "a1b2c3d4e5",
		Message:    &webhook.EventMessage{Type: "text", Text: "真柏"},
		Source:     &webhook.EventSource{UserID: "U1234567890"},
	})

	rec := performWebhook(server, http.MethodPost, body, sign(body))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Eventually(t, func() bool {
		return len(replier.sent()) == 1
	}, time.Second, 10*time.Millisecond)

	text := replier.sent()[0]
	require.Contains(t, text, "🥵 炎熱乾")
	require.Contains(t, text, "🕶 UV 高")
	require.Contains(t, text, "💨 風大")
	require.Contains(t, text, "🕷 乾熱")
	require.NotContains(t, text, "🦠 濕悶")
}

type fixedForecast struct {
	reading forecast.Reading
}

func (f *fixedForecast) Reading(context.Context, float64, float64) (forecast.Reading, error) {
	return f.reading, nil
}

type capturingReplier struct {
	mu    sync.Mutex
	texts []string
}

func (r *capturingReplier) Reply(_ context.Context, _ string, messages []line.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range messages {
		r.texts = append(r.texts, m.Text)
	}
	return nil
}

func (r *capturingReplier) sent() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.texts))
	copy(out, r.texts)
	return out
}
