package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yuzuhub/answerphone/internal/config"
)

// deliveryTimeout bounds a single notification POST.
const deliveryTimeout = 5 * time.Second

// Hook delivers call summaries to the human-facing notification sink. It is
// strictly best effort: failures are logged and swallowed, never surfaced to
// the webhook transition that triggered them.
type Hook struct {
	url    string
	token  string
	client *http.Client
}

// New builds a Hook from configuration. An empty sink URL yields a disabled
// hook that only logs what it would have sent.
func New(cfg config.HookConfig) *Hook {
	return &Hook{
		url:    cfg.URL,
		token:  cfg.Token,
		client: &http.Client{Timeout: deliveryTimeout},
	}
}

// Notify formats and delivers the summary for one finished call. The caller's
// utterances appear in order; an empty list is reported explicitly so a
// hang-up without a message still shows up.
func (h *Hook) Notify(ctx context.Context, caller string, messages []string) {
	text := FormatSummary(time.Now(), caller, messages)

	if h.url == "" {
		log.Printf("[notify] sink not configured, dropping summary for %s (%d messages)",
			caller, len(messages))
		return
	}

	// Short id to correlate the two log lines of one delivery.
	id := uuid.NewString()[:8]

	payload, err := json.Marshal(map[string]string{"text": text, "mode": "now"})
	if err != nil {
		log.Printf("[notify] %s marshal failed: %v", id, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(payload))
	if err != nil {
		log.Printf("[notify] %s build request failed: %v", id, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		log.Printf("[notify] %s delivery failed: %v", id, err)
		return
	}
	defer resp.Body.Close()

	log.Printf("[notify] %s delivered for %s (status %d)", id, caller, resp.StatusCode)
}

// FormatSummary renders the human-readable call summary.
func FormatSummary(at time.Time, caller string, messages []string) string {
	var body string
	if len(messages) == 0 {
		body = "  (keine Nachricht hinterlassen)"
	} else {
		lines := make([]string, len(messages))
		for i, m := range messages {
			lines[i] = "  > " + m
		}
		body = strings.Join(lines, "\n")
	}

	return fmt.Sprintf("📞 Anruf auf dem AB\nVon: %s\nZeit: %s\nNachricht:\n%s",
		caller, at.Format("15:04"), body)
}
