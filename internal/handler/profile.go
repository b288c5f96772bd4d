package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vaultpass/passgen-go/internal/middleware"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/service"
)

// ProfileHandler handles HTTP requests for generation profiles.
type ProfileHandler struct {
	service *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(svc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: svc}
}

// HandleList handles GET /api/v1/profiles requests.
func (h *ProfileHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.List(r.Context())
	if err != nil {
		slog.Error("listing profiles", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, profiles)
}

// HandleGet handles GET /api/v1/profiles/{name} requests.
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// HandlePut handles PUT /api/v1/profiles/{name} requests.
func (h *ProfileHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	var req model.ProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	name := chi.URLParam(r, "name")
	p, err := h.service.Save(r.Context(), name, req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		slog.Info("profile saved", "profile", name, "by", claims.Subject)
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleDelete handles DELETE /api/v1/profiles/{name} requests.
func (h *ProfileHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.service.Delete(r.Context(), name); err != nil {
		h.writeError(w, err)
		return
	}

	slog.Info("profile deleted", "profile", name)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProfileHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidProfile):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrProfileNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	default:
		slog.Error("profile request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}
