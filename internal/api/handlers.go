// Package api exposes the service over HTTP: registration, session
// management, uploads, listings, visibility changes, and content reads.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mkravets/filehub/internal/common"
	"github.com/mkravets/filehub/internal/logging"
	"github.com/mkravets/filehub/internal/models"
	"github.com/mkravets/filehub/internal/services"
)

// apiRootParent is the wire representation of "no parent folder".
const apiRootParent = "0"

type ctxKey int

const userIDKey ctxKey = iota

// Handler routes HTTP requests to the services.
type Handler struct {
	sessions *services.SessionService
	users    *services.UserService
	files    *services.FileService
	stats    *services.StatsService
	logger   logging.Logger
}

func NewHandler(sessions *services.SessionService, users *services.UserService,
	files *services.FileService, stats *services.StatsService, logger logging.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		users:    users,
		files:    files,
		stats:    stats,
		logger:   logger.With("module", "api"),
	}
}

// Routes builds the router. Metadata and content reads accept anonymous
// callers so published files stay reachable without a session.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/status", h.handleStatus)
	r.Get("/stats", h.handleStats)

	r.Post("/users", h.handleRegister)
	r.Get("/connect", h.handleConnect)
	r.Get("/disconnect", h.handleDisconnect)
	r.With(h.requireAuth).Get("/users/me", h.handleMe)

	r.Route("/files", func(r chi.Router) {
		r.With(h.requireAuth).Post("/", h.handleUpload)
		r.With(h.requireAuth).Get("/", h.handleList)
		r.With(h.resolveActor).Get("/{id}", h.handleGetFile)
		r.With(h.requireAuth).Put("/{id}/publish", h.handlePublish)
		r.With(h.requireAuth).Put("/{id}/unpublish", h.handleUnpublish)
		r.With(h.resolveActor).Get("/{id}/data", h.handleData)
	})

	return r
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.stats.Status(r.Context()))
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, userResponse{ID: user.ID, Email: user.Email})
}

func (h *Handler) handleConnect(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	token, err := h.sessions.Login(r.Context(), email, password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(common.TokenHeaderName)
	if err := h.sessions.Logout(r.Context(), token); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), actorID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, userResponse{ID: user.ID, Email: user.Email})
}

// wireParent accepts the parent reference as either a string id or the
// literal number 0 some clients send for the root.
type wireParent string

func (p *wireParent) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = wireParent(s)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		*p = wireParent(strconv.FormatInt(n, 10))
		return nil
	}
	return errors.New("invalid parentId")
}

type uploadRequest struct {
	Name     string     `json:"name"`
	Type     string     `json:"type"`
	ParentID wireParent `json:"parentId"`
	IsPublic bool       `json:"isPublic"`
	Data     string     `json:"data"`
}

type fileResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID string `json:"parentId"`
}

func toFileResponse(f *models.File) fileResponse {
	parent := f.ParentID
	if parent == models.RootParentID {
		parent = apiRootParent
	}
	return fileResponse{
		ID:       f.ID,
		UserID:   f.UserID,
		Name:     f.Name,
		Type:     string(f.Type),
		IsPublic: f.IsPublic,
		ParentID: parent,
	}
}

func toModelParent(p string) string {
	if p == "" || p == apiRootParent {
		return models.RootParentID
	}
	return p
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	file, err := h.files.Upload(r.Context(), actorID(r), &services.UploadRequest{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: toModelParent(string(req.ParentID)),
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toFileResponse(file))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	parentID := toModelParent(r.URL.Query().Get("parentId"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	listed, err := h.files.List(r.Context(), actorID(r), parentID, page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]fileResponse, 0, len(listed))
	for _, f := range listed {
		out = append(out, toFileResponse(f))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetFile(w http.ResponseWriter, r *http.Request) {
	file, err := h.files.GetFile(r.Context(), actorID(r), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toFileResponse(file))
}

func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, true)
}

func (h *Handler) handleUnpublish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, false)
}

func (h *Handler) setVisibility(w http.ResponseWriter, r *http.Request, public bool) {
	file, err := h.files.SetVisibility(r.Context(), actorID(r), chi.URLParam(r, "id"), public)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toFileResponse(file))
}

func (h *Handler) handleData(w http.ResponseWriter, r *http.Request) {
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))

	data, contentType, err := h.files.ReadContent(r.Context(), actorID(r), chi.URLParam(r, "id"), size)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// requireAuth resolves the session token and rejects the request when it does
// not map to a user.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := h.sessions.Resolve(r.Context(), r.Header.Get(common.TokenHeaderName))
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
	})
}

// resolveActor resolves the token when present but lets anonymous requests
// through; the access check downstream decides what they may see.
func (h *Handler) resolveActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(common.TokenHeaderName)
		if token != "" {
			if userID, err := h.sessions.Resolve(r.Context(), token); err == nil {
				r = r.WithContext(withUserID(r.Context(), userID))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func withUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func actorID(r *http.Request) string {
	if v, ok := r.Context().Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// writeError maps service errors to HTTP responses. Internal failures are
// logged with detail but reported generically.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if mf, ok := common.AsMissingField(err); ok {
		respondError(w, http.StatusBadRequest, "Missing "+mf.Field)
		return
	}

	switch {
	case errors.Is(err, common.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, common.ErrParentNotFound):
		respondError(w, http.StatusBadRequest, "Parent not found")
	case errors.Is(err, common.ErrParentNotFolder):
		respondError(w, http.StatusBadRequest, "Parent is not a folder")
	case errors.Is(err, common.ErrInvalidData):
		respondError(w, http.StatusBadRequest, "Invalid data")
	case errors.Is(err, common.ErrFolderHasNoContent):
		respondError(w, http.StatusBadRequest, "A folder doesn't have content")
	case errors.Is(err, common.ErrAlreadyExists):
		respondError(w, http.StatusBadRequest, "Already exist")
	case errors.Is(err, common.ErrNotFound):
		respondError(w, http.StatusNotFound, "Not found")
	default:
		h.logger.Error(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal error")
	}
}
