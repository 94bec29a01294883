package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/safeops/YASE/sweeper"
)

type SweepHandler struct {
	sweeper *sweeper.Sweeper
}

func NewSweepHandler(sw *sweeper.Sweeper) *SweepHandler {
	return &SweepHandler{sweeper: sw}
}

func (h *SweepHandler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", h.Healthz)
	r.Post("/api/sweep", h.Sweep)
	return r
}

func (h *SweepHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Sweep は外部スケジューラからのトリガーで1回走査し、
// 件数サマリを返す
func (h *SweepHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	summary, err := h.sweeper.Sweep(r.Context())
	if err != nil {
		slog.Error("Failed to run sweep", slog.Any("error", err))
		http.Error(w, "sweep failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		slog.Error("Failed to encode sweep summary", slog.Any("error", err))
	}
}
