package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/mathpad"
	"github.com/aretw0/mathpad/internal/logging"
	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/aretw0/mathpad/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	eng, err := mathpad.New()
	require.NoError(t, err)
	return NewHandler(eng, opts...)
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestServer_SessionLifecycle(t *testing.T) {
	h := newHandler(t)

	w := do(h, http.MethodPut, "/sessions/s1", "")
	require.Equal(t, http.StatusCreated, w.Code)
	snap := decode[domain.Snapshot](t, w)
	assert.Equal(t, "s1", snap.SessionID)
	assert.Equal(t, domain.ModeNormal, snap.Mode)

	w = do(h, http.MethodPost, "/sessions/s1/events", `{"type":"paste","text":"3/4"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode[domain.Outcome](t, w)
	assert.Equal(t, domain.ModeFractionDenominator, out.Snapshot.Mode)
	assert.Equal(t, "(3)/(4)", out.Snapshot.LinearText)

	w = do(h, http.MethodGet, "/sessions/s1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "(3)/(4)", decode[domain.Snapshot](t, w).LinearText)

	w = do(h, http.MethodGet, "/sessions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"s1"}, decode[[]string](t, w))

	w = do(h, http.MethodDelete, "/sessions/s1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(h, http.MethodGet, "/sessions/s1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_StartGeneratesID(t *testing.T) {
	h := newHandler(t)

	w := do(h, http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, decode[domain.Snapshot](t, w).SessionID)
}

func TestServer_EventBatchAndEvaluate(t *testing.T) {
	h := newHandler(t)
	require.Equal(t, http.StatusCreated, do(h, http.MethodPut, "/sessions/s1", "").Code)

	batch := `[{"type":"key","key":"2"},{"type":"symbol","value":"sqrt"},{"type":"key","key":"9"},{"type":"key","key":"ArrowRight"}]`
	w := do(h, http.MethodPost, "/sessions/s1/events", batch)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "2sqrt(9)", decode[domain.Outcome](t, w).Snapshot.LinearText)

	w = do(h, http.MethodPost, "/sessions/s1/evaluate", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode[domain.Outcome](t, w)
	require.NotNil(t, out.Result)
	assert.Equal(t, "6", out.Output)
}

func TestServer_PlainTextIsPasted(t *testing.T) {
	h := newHandler(t)
	require.Equal(t, http.StatusCreated, do(h, http.MethodPut, "/sessions/s1", "").Code)

	w := do(h, http.MethodPost, "/sessions/s1/events", "abs")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode[domain.Outcome](t, w)
	assert.Equal(t, domain.ModeAbs, out.Snapshot.Mode)
	assert.Equal(t, "Absolute Value", out.Snapshot.Label)
}

func TestServer_Errors(t *testing.T) {
	h := newHandler(t)
	require.Equal(t, http.StatusCreated, do(h, http.MethodPut, "/sessions/s1", "").Code)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"Unknown Session Events", http.MethodPost, "/sessions/nope/events", `{"type":"paste","text":"1"}`, http.StatusNotFound},
		{"Unknown Session Evaluate", http.MethodPost, "/sessions/nope/evaluate", "", http.StatusNotFound},
		{"Empty Body", http.MethodPost, "/sessions/s1/events", "  ", http.StatusBadRequest},
		{"Malformed JSON", http.MethodPost, "/sessions/s1/events", `{"type":`, http.StatusBadRequest},
		{"Unknown Event Type", http.MethodPost, "/sessions/s1/events", `{"type":"teleport"}`, http.StatusBadRequest},
		{"Unknown Function", http.MethodPost, "/sessions/s1/events", `{"type":"function","value":"frobnicate"}`, http.StatusBadRequest},
		{"Unknown Key", http.MethodPost, "/sessions/s1/events", `{"type":"key","key":"PageDown"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.NotEmpty(t, decode[map[string]string](t, w)["error"])
		})
	}
}

func TestServer_EvaluationFailure(t *testing.T) {
	h := newHandler(t)
	require.Equal(t, http.StatusCreated, do(h, http.MethodPut, "/sessions/s1", "").Code)
	require.Equal(t, http.StatusOK, do(h, http.MethodPost, "/sessions/s1/events", `"1+"`).Code)

	w := do(h, http.MethodPost, "/sessions/s1/evaluate", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	out := decode[domain.Outcome](t, w)
	assert.Nil(t, out.Result)
	assert.True(t, strings.HasPrefix(out.Output, "Error: "), out.Output)
}

func TestServer_InfoSnippetsGraph(t *testing.T) {
	h := newHandler(t, WithMetricsHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "mathpad_keystrokes_total 0")
	})))

	w := do(h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])

	w = do(h, http.MethodGet, "/info", "")
	assert.Equal(t, strings.TrimSpace(mathpad.Version), decode[map[string]string](t, w)["version"])

	w = do(h, http.MethodGet, "/snippets", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[[]domain.Snippet](t, w))

	w = do(h, http.MethodGet, "/metrics", "")
	assert.Contains(t, w.Body.String(), "mathpad_keystrokes_total")

	require.Equal(t, http.StatusCreated, do(h, http.MethodPut, "/sessions/s1", "").Code)
	require.Equal(t, http.StatusOK, do(h, http.MethodPost, "/sessions/s1/events", `"sqrt2"`).Code)
	w = do(h, http.MethodGet, "/sessions/s1/graph", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "class n0_content current;")
}

func TestSubscribeEvents_Session(t *testing.T) {
	h := newHandler(t)
	require.Equal(t, http.StatusCreated, do(h, http.MethodPut, "/sessions/sess-1", "").Code)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wSub := httptest.NewRecorder()
	reqSub := httptest.NewRequest(http.MethodGet, "/sessions/sess-1/stream?watch=linear_text", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.ServeHTTP(wSub, reqSub)
	}()

	time.Sleep(100 * time.Millisecond) // Wait for subscription to register

	w := do(h, http.MethodPost, "/sessions/sess-1/events", `{"type":"paste","text":"x^2"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	output := wSub.Body.String()
	assert.Contains(t, output, "event: ping")
	assert.Contains(t, output, `"linear_text":"x^2"`)
	assert.Contains(t, output, `"mode":"superscript"`)
}

func TestServer_FailedBatchBroadcastsSavedEvents(t *testing.T) {
	eng, err := mathpad.New()
	require.NoError(t, err)
	s := &Server{Editor: eng, Streams: NewStreamManager(), logger: logging.NewNop()}
	ctx := context.Background()
	_, err = eng.Start(ctx, "s1")
	require.NoError(t, err)

	ch, unsubscribe := s.Streams.Subscribe("s1")
	defer unsubscribe()

	w := httptest.NewRecorder()
	s.apply(w, httptest.NewRequest(http.MethodPost, "/sessions/s1/events", nil), "s1",
		domain.InputEvent{Type: domain.InputTyped, Text: "x^2"},
		domain.InputEvent{Type: domain.InputFunction, Value: "nope"},
	)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	snap, err := eng.Snapshot(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "x^2", snap.LinearText)

	select {
	case msg := <-ch:
		assert.Contains(t, msg, `"linear_text":"x^2"`)
	default:
		t.Fatal("no diff broadcast for the saved events")
	}
}

func TestServer_JSONStringIsTyped(t *testing.T) {
	h := newHandler(t)
	require.Equal(t, http.StatusCreated, do(h, http.MethodPut, "/sessions/s1", "").Code)

	w := do(h, http.MethodPost, "/sessions/s1/events", `"3/4 +1"`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode[domain.Outcome](t, w)
	assert.Equal(t, "(3)/(4)+1", out.Snapshot.LinearText)
	assert.Equal(t, domain.ModeNormal, out.Snapshot.Mode)
}

func TestSubscribeEvents_UnknownSession(t *testing.T) {
	h := newHandler(t)
	w := do(h, http.MethodGet, "/sessions/missing/stream", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWatched(t *testing.T) {
	mode := domain.ModeSqrt
	b, err := json.Marshal(domain.SnapshotDiff{SessionID: "s", Mode: &mode})
	require.NoError(t, err)

	assert.True(t, watched(string(b), []string{"mode"}))
	assert.False(t, watched(string(b), []string{"nodes", " linear_text"}))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFor(fmt.Errorf("load: %w", domain.ErrSessionNotFound)))
	assert.Equal(t, http.StatusBadRequest, StatusFor(runner.ErrInputTooLarge))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(&domain.EvaluationError{Expression: "1+", Message: "bad"}))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("disk on fire")))
}
