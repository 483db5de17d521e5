package flow

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	flowModel "github.com/yuzuhub/answerphone/internal/model/flow"
	flowService "github.com/yuzuhub/answerphone/internal/service/flow"
	"github.com/yuzuhub/answerphone/pkg/utils"
)

// Handler decodes platform webhook events and encodes reply actions.
type Handler struct {
	dispatcher *flowService.Dispatcher
}

// New creates the webhook handler.
func New(dispatcher *flowService.Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// RegisterRoutes mounts the webhook endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.handleEvent)
}

// handleEvent processes one platform event. An action becomes a 200 with a
// JSON body; no action becomes a bare 204 — the platform treats the two
// differently (an empty speak reply would interrupt the caller).
func (h *Handler) handleEvent(w http.ResponseWriter, r *http.Request) {
	var event flowModel.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	log.Printf("[flow] %s session=%s", event.Type, truncate(event.Session.ID, 12))

	action := h.dispatcher.Handle(r.Context(), event)
	if action == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	log.Printf("[flow] -> %s: %s", action.Type, truncate(action.Text, 80))
	utils.RespondJSON(w, http.StatusOK, action)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
