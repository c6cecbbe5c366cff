package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ewilliams-labs/pacer/internal/core/domain"
	"github.com/ewilliams-labs/pacer/internal/export"
)

const maxRequestBody = 1 << 20

const (
	errCodeInvalidInterval  = "INVALID_INTERVAL"
	errCodeUnknownMethod    = "UNKNOWN_METHOD"
	errCodeNotFound         = "NOT_FOUND"
	errCodeEmptyCatalog     = "EMPTY_CATALOG"
	errCodeUnbuildableGraph = "UNBUILDABLE_GRAPH"
	errCodeInvalidTopN      = "INVALID_TOP_N"
	errCodeCanceled         = "REQUEST_CANCELED"
)

type generateRequest struct {
	Intervals []domain.Interval `json:"intervals"`
	TopN      int               `json:"top_n"`
}

type playlistResponse struct {
	ID               string                 `json:"id"`
	Method           domain.Method          `json:"method"`
	TopN             int                    `json:"top_n,omitempty"`
	Intervals        []domain.Interval      `json:"intervals"`
	Entries          []domain.PlaylistEntry `json:"entries"`
	Skipped          []int                  `json:"skipped,omitempty"`
	TotalDurationSec int                    `json:"total_duration_sec"`
	RuntimeSeconds   float64                `json:"runtime_seconds"`
	CreatedAt        time.Time              `json:"created_at"`
}

func newPlaylistResponse(p domain.Playlist) playlistResponse {
	entries := p.Entries
	if entries == nil {
		entries = []domain.PlaylistEntry{}
	}
	intervals := p.Intervals
	if intervals == nil {
		intervals = []domain.Interval{}
	}
	return playlistResponse{
		ID:               p.ID,
		Method:           p.Method,
		TopN:             p.TopN,
		Intervals:        intervals,
		Entries:          entries,
		Skipped:          p.Skipped,
		TotalDurationSec: p.TotalDurationSec(),
		RuntimeSeconds:   p.Runtime.Seconds(),
		CreatedAt:        p.CreatedAt,
	}
}

// GeneratePlaylist handles POST /playlists/{method}
func (h *Handler) GeneratePlaylist(w http.ResponseWriter, r *http.Request) {
	method, err := domain.ParseMethod(r.PathValue("method"))
	if err != nil {
		writeErrorWithCode(w, http.StatusNotFound, err.Error(), errCodeUnknownMethod)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req generateRequest
	switch mediaType(r) {
	case "application/json":
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if len(req.Intervals) == 0 {
			writeError(w, http.StatusBadRequest, errNoIntervals.Error())
			return
		}
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxRequestBody); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			writeError(w, http.StatusBadRequest, "Invalid form body")
			return
		}
		req.Intervals, err = parseFormIntervals(r.Form)
		if err != nil {
			writeErrorWithCode(w, http.StatusBadRequest, err.Error(), errCodeInvalidInterval)
			return
		}
		if raw := r.Form.Get("top_n"); raw != "" {
			if req.TopN, err = strconv.Atoi(strings.TrimSpace(raw)); err != nil {
				writeErrorWithCode(w, http.StatusBadRequest, "top_n must be an integer", errCodeInvalidTopN)
				return
			}
		}
	default:
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json or a form encoding")
		return
	}

	playlist, err := h.svc.Generate(r.Context(), method, req.Intervals, req.TopN)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/playlists/"+playlist.ID)
	writeJSON(w, http.StatusCreated, newPlaylistResponse(playlist))
}

// GetPlaylist handles GET /playlists/{id}
func (h *Handler) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.svc.GetPlaylist(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlaylistResponse(playlist))
}

// ExportPlaylist handles GET /playlists/{id}/export
func (h *Handler) ExportPlaylist(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.svc.GetPlaylist(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.CSVFilename+`"`)
	w.WriteHeader(http.StatusOK)
	if err := export.WriteCSV(w, playlist.Entries); err != nil {
		h.logger.Error("rest: export playlist failed", slog.String("playlist_id", playlist.ID), slog.Any("error", err))
	}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidMethod):
		writeErrorWithCode(w, http.StatusNotFound, err.Error(), errCodeUnknownMethod)
	case errors.Is(err, domain.ErrNotFound):
		writeErrorWithCode(w, http.StatusNotFound, err.Error(), errCodeNotFound)
	case errors.Is(err, domain.ErrInvalidInterval):
		writeErrorWithCode(w, http.StatusBadRequest, err.Error(), errCodeInvalidInterval)
	case errors.Is(err, domain.ErrEmptyCatalog):
		writeErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), errCodeEmptyCatalog)
	case errors.Is(err, domain.ErrUnbuildableGraph):
		writeErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), errCodeUnbuildableGraph)
	case errors.Is(err, domain.ErrInvalidTopN):
		writeErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), errCodeInvalidTopN)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeErrorWithCode(w, http.StatusServiceUnavailable, err.Error(), errCodeCanceled)
	default:
		h.logger.Error("rest: request failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
