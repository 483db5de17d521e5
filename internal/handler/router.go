package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	flowHandler "github.com/yuzuhub/answerphone/internal/handler/flow"
	middlewarePkg "github.com/yuzuhub/answerphone/internal/middleware"
	flowService "github.com/yuzuhub/answerphone/internal/service/flow"
	"github.com/yuzuhub/answerphone/pkg/utils"
)

// NewRouter wires HTTP routes to core services. The webhook endpoint sits
// behind the shared-secret check; the health endpoint does not, so uptime
// probes work without credentials.
func NewRouter(dispatcher *flowService.Dispatcher, secret string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(g chi.Router) {
		g.Use(middlewarePkg.RequireToken(secret))
		flowHandler.New(dispatcher).RegisterRoutes(g)
	})

	return r
}
