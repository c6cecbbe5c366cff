package rest

import (
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"

	"github.com/ewilliams-labs/pacer/internal/core/services"
)

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc     *services.Generator
	metrics http.Handler
	logger  *slog.Logger
	router  *http.ServeMux
}

// NewHandler initializes the HTTP adapter and sets up routes.
// metrics is served on /metrics when non-nil.
func NewHandler(svc *services.Generator, metrics http.Handler, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		svc:     svc,
		metrics: metrics,
		logger:  logger,
		router:  http.NewServeMux(),
	}

	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	h.router.HandleFunc("GET /health", h.HealthCheck)

	h.router.HandleFunc("POST /playlists/{method}", h.GeneratePlaylist)
	h.router.HandleFunc("GET /playlists/{id}", h.GetPlaylist)
	h.router.HandleFunc("GET /playlists/{id}/export", h.ExportPlaylist)

	if h.metrics != nil {
		h.router.Handle("GET /metrics", h.metrics)
	}
}

type healthResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	CatalogTracks int    `json:"catalog_tracks"`
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		Message:       "Pacer is live",
		CatalogTracks: h.svc.CatalogSize(),
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeErrorWithCode(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

func mediaType(r *http.Request) string {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}
