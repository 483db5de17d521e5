package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yuzuhub/answerphone/internal/config"
	"github.com/yuzuhub/answerphone/internal/service/notify"
)

func TestNotifyDeliversPayload(t *testing.T) {
	type sinkPayload struct {
		Text string `json:"text"`
		Mode string `json:"mode"`
	}

	received := make(chan sinkPayload, 1)
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var p sinkPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("sink got undecodable body: %v", err)
		}
		received <- p
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	hook := notify.New(config.HookConfig{URL: srv.URL, Token: "secret-token"})
	hook.Notify(context.Background(), "+491701234567", []string{"Hallo hier ist Anna"})

	select {
	case p := <-received:
		if p.Mode != "now" {
			t.Fatalf("expected mode now, got %q", p.Mode)
		}
		if !strings.Contains(p.Text, "+491701234567") {
			t.Fatalf("summary missing caller: %q", p.Text)
		}
		if !strings.Contains(p.Text, "> Hallo hier ist Anna") {
			t.Fatalf("summary missing message: %q", p.Text)
		}
	case <-time.After(time.Second):
		t.Fatal("sink never received the notification")
	}

	if gotAuth != "Bearer secret-token" {
		t.Fatalf("unexpected Authorization header: %q", gotAuth)
	}
}

func TestNotifySinkFailureIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	hook := notify.New(config.HookConfig{URL: srv.URL})
	// Must not panic or block beyond the client timeout.
	hook.Notify(context.Background(), "caller", nil)
}

func TestNotifyDisabledWithoutURL(t *testing.T) {
	hook := notify.New(config.HookConfig{})
	hook.Notify(context.Background(), "caller", []string{"msg"})
}

func TestFormatSummary(t *testing.T) {
	at := time.Date(2026, 8, 30, 14, 5, 0, 0, time.UTC)

	got := notify.FormatSummary(at, "+49170", []string{"eins", "zwei"})
	want := "📞 Anruf auf dem AB\nVon: +49170\nZeit: 14:05\nNachricht:\n  > eins\n  > zwei"
	if got != want {
		t.Fatalf("unexpected summary:\n%q\nwant\n%q", got, want)
	}
}

func TestFormatSummaryNoMessages(t *testing.T) {
	at := time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC)

	got := notify.FormatSummary(at, "unbekannt", nil)
	if !strings.Contains(got, "(keine Nachricht hinterlassen)") {
		t.Fatalf("empty call summary must carry the no-message marker: %q", got)
	}
}
