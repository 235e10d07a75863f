package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"accounts-backend/internal/logging"
	"accounts-backend/internal/models"
	"accounts-backend/internal/storage"
)

const (
	msgMissingRegistration = "Missing details!"
	msgMissingLogin        = "Missing login details!"
	msgDuplicateEmail      = "This email already exists"
	msgInvalidCredentials  = "Invalid password or email"
	msgInvalidBody         = "Invalid request body"
	msgInternal            = "Internal server error"
	msgCreated             = "Account created successfully"
	msgLoggedIn            = "Login authentication success"
)

type Handler struct {
	service *Service
	logger  logging.Logger
}

func NewHandler(service *Service, logger logging.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts the /auth endpoints on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.With(Middleware(h.service.Issuer())).Get("/me", h.Me)
	})
}

type authResponse struct {
	Status  int    `json:"status"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
}

type accountResponse struct {
	User *models.Account `json:"user"`
}

// Register creates an account and returns a session token
// @Summary Create account
// @Description Creates an account in an organization and returns a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param account body RegistrationInput true "New account"
// @Success 201 {object} authResponse "Account created"
// @Failure 400 {object} authResponse "Invalid request body or missing details"
// @Failure 409 {object} authResponse "Email already exists"
// @Failure 500 {object} authResponse "Internal server error"
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in RegistrationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	session, err := h.service.Register(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err, msgMissingRegistration)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Status:  http.StatusCreated,
		Token:   session.Token,
		Message: msgCreated,
		Name:    session.Account.Name,
		Email:   session.Account.Email,
	})
}

// Login authenticates a user and returns a JWT token
// @Summary User login
// @Description Authenticates user with email and password, returns JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginInput true "Login credentials"
// @Success 200 {object} authResponse "Session token and user data"
// @Failure 400 {object} authResponse "Invalid request body or missing credentials"
// @Failure 401 {object} authResponse "Invalid credentials"
// @Failure 500 {object} authResponse "Internal server error"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in LoginInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	session, err := h.service.Authenticate(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err, msgMissingLogin)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Status:  http.StatusOK,
		Token:   session.Token,
		Message: msgLoggedIn,
		Name:    session.Account.Name,
		Email:   session.Account.Email,
	})
}

// Logout acknowledges a logout; tokens are stateless and simply discarded by the client
// @Summary User logout
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]bool "Success response"
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Me returns the current authenticated user
// @Summary Get current user
// @Description Returns the account the bearer token was issued for
// @Tags auth
// @Produce json
// @Success 200 {object} accountResponse "User data"
// @Failure 401 {object} authResponse "Unauthorized"
// @Failure 404 {object} authResponse "User not found"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claim, ok := ClaimFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	account, err := h.service.Account(r.Context(), claim.ID)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error(r.Context(), "load account failed", "account_id", claim.ID, "error", err)
		writeMessage(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{User: account})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, missingMsg string) {
	switch {
	case errors.Is(err, ErrMissingFields):
		writeMessage(w, http.StatusBadRequest, missingMsg)
	case errors.Is(err, ErrDuplicateEmail):
		writeMessage(w, http.StatusConflict, msgDuplicateEmail)
	case errors.Is(err, ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, msgInvalidCredentials)
	default:
		h.logger.Error(r.Context(), "auth request failed", "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusInternalServerError, msgInternal)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, authResponse{Status: status, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
