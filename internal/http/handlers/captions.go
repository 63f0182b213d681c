package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/captionly/captionly-be/internal/captions"
	"github.com/captionly/captionly-be/internal/http/respond"
	"github.com/captionly/captionly-be/internal/middleware"
	"github.com/captionly/captionly-be/internal/models/dto"
	"github.com/captionly/captionly-be/internal/storage"
)

// CaptionHandler owns the protected caption endpoints. Every storage call is
// scoped by the identity resolved by the access guard, never by a
// client-supplied id.
type CaptionHandler struct {
	service *captions.Service
}

// NewCaptionHandler constructs the handler.
func NewCaptionHandler(service *captions.Service) *CaptionHandler {
	return &CaptionHandler{service: service}
}

// Register attaches caption routes to the mux behind the access guard.
func (h *CaptionHandler) Register(mux *http.ServeMux, guard func(http.Handler) http.Handler) {
	mux.Handle("/api/generate-caption", guard(http.HandlerFunc(h.handleGenerate)))
	mux.Handle("/api/captions", guard(http.HandlerFunc(h.handleList)))
	mux.Handle("/api/captions/", guard(http.HandlerFunc(h.handleDelete)))
}

func (h *CaptionHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req dto.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	caption, err := h.service.Generate(r.Context(), identity.UserID, req.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, captions.ErrEmptyPrompt):
			respond.Error(w, http.StatusBadRequest, "prompt is required")
		case errors.Is(err, captions.ErrGenerationFailed):
			log.Printf("generate caption for %s: %v", identity.UserID, err)
			respond.Error(w, http.StatusBadGateway, "failed to generate caption")
		default:
			log.Printf("save caption for %s: %v", identity.UserID, err)
			respond.Error(w, http.StatusInternalServerError, "failed to save caption")
		}
		return
	}

	respond.JSON(w, http.StatusOK, dto.GenerateResponse{Caption: caption})
}

func (h *CaptionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	list, err := h.service.List(r.Context(), identity.UserID)
	if err != nil {
		log.Printf("list captions for %s: %v", identity.UserID, err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch captions")
		return
	}

	respond.JSON(w, http.StatusOK, dto.CaptionsResponse{Captions: list})
}

func (h *CaptionHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/captions/")
	if id == "" || strings.Contains(id, "/") {
		respond.Error(w, http.StatusNotFound, "caption not found")
		return
	}

	if err := h.service.Delete(r.Context(), identity.UserID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "caption not found")
			return
		}
		log.Printf("delete caption %s for %s: %v", id, identity.UserID, err)
		respond.Error(w, http.StatusInternalServerError, "failed to delete caption")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "caption deleted"})
}
