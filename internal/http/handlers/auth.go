package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/captionly/captionly-be/internal/auth"
	"github.com/captionly/captionly-be/internal/http/respond"
	"github.com/captionly/captionly-be/internal/models"
	"github.com/captionly/captionly-be/internal/models/dto"
	"github.com/captionly/captionly-be/internal/storage"
)

// AuthHandler owns the register/login/google endpoints.
type AuthHandler struct {
	authn  *auth.Authenticator
	tokens *auth.TokenManager
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authn *auth.Authenticator, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{authn: authn, tokens: tokens}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/register", h.handleRegister)
	mux.HandleFunc("/api/auth/login", h.handleLogin)
	mux.HandleFunc("/api/auth/google", h.handleGoogle)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := validateRegistration(req.Name, req.Email, req.Password); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authn.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			respond.Error(w, http.StatusConflict, "an account with this email already exists")
		default:
			log.Printf("register error: %v", err)
			respond.Error(w, http.StatusInternalServerError, "failed to create account")
		}
		return
	}

	respond.JSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.authn.AuthenticateWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			// Collapsed to the same 401 as a bad password so the endpoint
			// cannot be used to enumerate accounts.
			log.Printf("login failed: no user for %s", auth.NormalizeEmail(req.Email))
			respond.Error(w, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, auth.ErrNoPassword):
			respond.Error(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, auth.ErrInvalidCredentials):
			respond.Error(w, http.StatusUnauthorized, "invalid credentials")
		default:
			log.Printf("login error for %s: %v", auth.NormalizeEmail(req.Email), err)
			respond.Error(w, http.StatusInternalServerError, "failed to log in")
		}
		return
	}

	h.respondWithToken(w, user)
}

func (h *AuthHandler) handleGoogle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.GoogleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Credential) == "" {
		respond.Error(w, http.StatusBadRequest, "Google credential is required")
		return
	}

	user, err := h.authn.AuthenticateWithGoogle(r.Context(), req.Credential)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidAssertion):
			log.Printf("google login rejected: %v", err)
			respond.Error(w, http.StatusBadRequest, "invalid Google credential")
		default:
			log.Printf("google login error: %v", err)
			respond.Error(w, http.StatusInternalServerError, "an error occurred during Google login")
		}
		return
	}

	h.respondWithToken(w, user)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, user models.User) {
	token, err := h.tokens.Issue(user)
	if err != nil {
		log.Printf("issue token for %s: %v", user.ID, err)
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusOK, dto.AuthResponse{Token: token, User: user})
}

func validateRegistration(name, email, password string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return errors.New("name and email are required")
	}
	if !strings.Contains(email, "@") {
		return errors.New("email is invalid")
	}
	if len(password) < 8 || !utf8.ValidString(password) {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}
