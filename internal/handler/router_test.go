package handler_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yuzuhub/answerphone/internal/config"
	"github.com/yuzuhub/answerphone/internal/handler"
	flowService "github.com/yuzuhub/answerphone/internal/service/flow"
	"github.com/yuzuhub/answerphone/internal/service/session"
)

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, string, []string) {}

func setupRouter(secret string) http.Handler {
	store := session.NewStore(200)
	dispatcher := flowService.NewDispatcher(store, nopNotifier{}, nil, config.PromptConfig{
		Greeting: "greeting",
		Thanks:   "thanks",
		Reprompt: "reprompt",
	})
	return handler.NewRouter(dispatcher, secret)
}

func TestHealthz(t *testing.T) {
	r := setupRouter("secret")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	// The health endpoint stays open so uptime probes need no credentials.
}

func TestWebhookRequiresToken(t *testing.T) {
	r := setupRouter("secret")
	body := []byte(`{"type":"session_start","session":{"id":"s1"}}`)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("X-API-TOKEN", "secret")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", resp.Code)
	}
}

func TestWebhookAuthDisabledWithoutSecret(t *testing.T) {
	r := setupRouter("")
	body := []byte(`{"type":"session_start","session":{"id":"s1"}}`)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with auth disabled, got %d", resp.Code)
	}
}
