package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 9, 14, 5, 7, 123456000, time.UTC)

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

func TestChatEcho(t *testing.T) {
	h := New(WithClock(func() time.Time { return fixedNow })).Router()

	resp := post(t, h, "/api/chat", `{"message": "  hi  "}`)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))
	body := decode(t, resp)
	assert.Equal(t, "You said: hi", body["response"])
	assert.Equal(t, "20240309140507123456", body["requestId"])
}

func TestChatRejectsBadRequests(t *testing.T) {
	h := New().Router()

	tests := []struct {
		name string
		body string
	}{
		{"not json", "hello"},
		{"missing message", `{}`},
		{"blank message", `{"message": "   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, h, "/api/chat", tt.body)
			require.Equal(t, http.StatusBadRequest, resp.Code)
			body := decode(t, resp)
			assert.NotEmpty(t, body["error"])
			assert.Equal(t, apologyText, body["response"])
		})
	}
}

func TestChatReplierError(t *testing.T) {
	h := New(WithReplier(func(context.Context, string) (string, error) {
		return "", errors.New("llm unavailable")
	})).Router()

	resp := post(t, h, "/api/chat", `{"message": "hi"}`)

	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "llm unavailable", decode(t, resp)["error"])
}

func TestChatMethodNotAllowed(t *testing.T) {
	h := New().Router()
	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)
}

func TestFeedbackIsLogged(t *testing.T) {
	var log bytes.Buffer
	h := New(WithFeedbackLog(&log), WithClock(func() time.Time { return fixedNow })).Router()

	resp := post(t, h, "/api/feedback", `{"messageId": "msg-1", "feedback": "up"}`)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "success", decode(t, resp)["status"])
	assert.Equal(t, "2024-03-09T14:05:07Z,msg-1,up\n", log.String())
}

func TestFeedbackWithNilLogIsDiscarded(t *testing.T) {
	h := New(WithFeedbackLog(nil)).Router()

	resp := post(t, h, "/api/feedback", `{"messageId": "msg-1", "feedback": "down"}`)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "success", decode(t, resp)["status"])
}

func TestFeedbackValidation(t *testing.T) {
	var log bytes.Buffer
	h := New(WithFeedbackLog(&log)).Router()

	tests := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"missing id", `{"feedback": "up"}`},
		{"unknown rating", `{"messageId": "msg-1", "feedback": "meh"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, h, "/api/feedback", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
		})
	}
	assert.Empty(t, log.String())
}

func TestHealth(t *testing.T) {
	h := New().Router()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "healthy", decode(t, resp)["status"])
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New().ListenAndServe(ctx, "127.0.0.1:0")
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
