// Package handlers exposes the import workflow over HTTP. Routes are
// admin-facing; authentication is handled by middleware upstream.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	importservice "github.com/cagepicks/cagepicks-backend/app/modules/dataimport/application"
	"github.com/cagepicks/cagepicks-backend/internal/observability/attr"
	importtypes "github.com/cagepicks/cagepicks-backend/types/imports"
)

// CommitEnqueuer schedules a commit to run off the request goroutine.
type CommitEnqueuer interface {
	EnqueueCommit(ctx context.Context, sessionID string) error
}

// ImportHandler wires the import service to chi routes.
type ImportHandler struct {
	service       importservice.Service
	logger        *slog.Logger
	maxFileBytes  int64
	uploadLimiter *rate.Limiter
	enqueuer      CommitEnqueuer
}

// NewImportHandler creates a handler. maxFileBytes caps uploads;
// uploads are also rate limited since parsing is the most expensive
// request this surface serves. When enqueuer is non-nil, commits are
// scheduled on the job queue and the request returns 202.
func NewImportHandler(service importservice.Service, logger *slog.Logger, maxFileBytes int64, enqueuer CommitEnqueuer) *ImportHandler {
	return &ImportHandler{
		service:       service,
		logger:        logger,
		maxFileBytes:  maxFileBytes,
		uploadLimiter: rate.NewLimiter(rate.Limit(2), 5),
		enqueuer:      enqueuer,
	}
}

// RegisterRoutes mounts the import routes on the router.
func (h *ImportHandler) RegisterRoutes(r chi.Router) {
	r.Route("/import/sessions", func(r chi.Router) {
		r.Post("/", h.StartSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Post("/file", h.UploadFile)
			r.Delete("/file", h.ClearFile)
			r.Put("/mappings/{column}", h.SetMapping)
			r.Post("/confirm", h.ConfirmMapping)
			r.Post("/cancel", h.CancelPreview)
			r.Post("/rows/{rowID}/skip", h.SkipRow)
			r.Post("/rows/{rowID}/replace", h.ReplaceRow)
			r.Post("/commit", h.Commit)
		})
	})
}

type startSessionRequest struct {
	SchemaKind importtypes.SchemaKind `json:"schema_kind"`
}

// StartSession creates a new import session.
func (h *ImportHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Failed to decode request body: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.service.StartSession(r.Context(), req.SchemaKind)
	h.respond(w, r, result, err, http.StatusCreated)
}

// GetSession returns the session snapshot.
func (h *ImportHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	h.respond(w, r, result, err, http.StatusOK)
}

// UploadFile accepts a multipart upload under the "file" field.
func (h *ImportHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if !h.uploadLimiter.Allow() {
		http.Error(w, "Too many uploads, slow down", http.StatusTooManyRequests)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileBytes)
	if err := r.ParseMultipartForm(h.maxFileBytes); err != nil {
		http.Error(w, fmt.Sprintf("Failed to parse upload: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing \"file\" field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to read upload: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.service.UploadFile(r.Context(), chi.URLParam(r, "sessionID"), header.Filename, data)
	h.respond(w, r, result, err, http.StatusOK)
}

// ClearFile discards the uploaded file.
func (h *ImportHandler) ClearFile(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ClearFile(r.Context(), chi.URLParam(r, "sessionID"))
	h.respond(w, r, result, err, http.StatusOK)
}

type setMappingRequest struct {
	TargetField string `json:"target_field"`
}

// SetMapping points the column at a target field; an empty target
// ignores the column.
func (h *ImportHandler) SetMapping(w http.ResponseWriter, r *http.Request) {
	var req setMappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Failed to decode request body: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.service.SetMapping(r.Context(), chi.URLParam(r, "sessionID"), chi.URLParam(r, "column"), req.TargetField)
	h.respond(w, r, result, err, http.StatusOK)
}

// ConfirmMapping validates the mapping and reconciles rows.
func (h *ImportHandler) ConfirmMapping(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ConfirmMapping(r.Context(), chi.URLParam(r, "sessionID"))
	h.respond(w, r, result, err, http.StatusOK)
}

// CancelPreview returns the session to the mapping phase.
func (h *ImportHandler) CancelPreview(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.CancelPreview(r.Context(), chi.URLParam(r, "sessionID"))
	h.respond(w, r, result, err, http.StatusOK)
}

// SkipRow excludes a row from commit.
func (h *ImportHandler) SkipRow(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.SkipRow(r.Context(), chi.URLParam(r, "sessionID"), chi.URLParam(r, "rowID"))
	h.respond(w, r, result, err, http.StatusOK)
}

// ReplaceRow marks a duplicate row for replacement.
func (h *ImportHandler) ReplaceRow(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ReplaceRow(r.Context(), chi.URLParam(r, "sessionID"), chi.URLParam(r, "rowID"))
	h.respond(w, r, result, err, http.StatusOK)
}

// Commit persists the ready rows, either inline or via the job queue.
func (h *ImportHandler) Commit(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if h.enqueuer != nil {
		result, err := h.service.GetSession(r.Context(), sessionID)
		if err != nil || result.Failure != nil {
			h.respond(w, r, result, err, http.StatusOK)
			return
		}
		if err := h.enqueuer.EnqueueCommit(r.Context(), sessionID); err != nil {
			h.logger.ErrorContext(r.Context(), "Failed to enqueue commit",
				attr.String("session_id", sessionID),
				attr.Error(err),
			)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		h.respond(w, r, result, nil, http.StatusAccepted)
		return
	}

	result, err := h.service.Commit(r.Context(), sessionID)
	h.respond(w, r, result, err, http.StatusOK)
}

func (h *ImportHandler) respond(w http.ResponseWriter, r *http.Request, result importservice.ImportOperationResult, err error, okStatus int) {
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Import request failed",
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if result.Failure != nil {
		status := http.StatusConflict
		switch {
		case errors.Is(result.Failure, importservice.ErrSessionNotFound):
			status = http.StatusNotFound
		case errors.Is(result.Failure, importservice.ErrCommitInFlight):
			status = http.StatusConflict
		default:
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, result.Failure.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(okStatus)
	if err := json.NewEncoder(w).Encode(result.Success); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to encode response",
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
	}
}
