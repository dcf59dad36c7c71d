package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"restock-service/internal/config"
	"restock-service/internal/middleware"
	recHnd "restock-service/internal/reconcile/handler"
	"restock-service/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, mem recHnd.Memory) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	r.Get("/health", handlers.Health)

	h := recHnd.New(logger, mem)
	r.Post("/reconcile", h.Reconcile)
	r.Post("/reconcile/upload", h.ReconcileUpload)
	r.Post("/orders", h.Orders)
	r.Get("/matches", h.ListMatches)
	r.Post("/matches/confirm", h.ConfirmMatch)

	return r
}
