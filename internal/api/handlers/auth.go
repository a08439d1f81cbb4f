package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rentledger/rentledger/internal/api/middleware"
	"github.com/rentledger/rentledger/internal/domain"
	"github.com/rentledger/rentledger/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type signupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	Country         string `json:"country"`
	TermsAccepted   bool   `json:"terms_accepted"`
	PrivacyAccepted bool   `json:"privacy_accepted"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.svc.SignUp(r.Context(), service.SignUpInput{
		Email:           req.Email,
		Password:        req.Password,
		Country:         req.Country,
		TermsAccepted:   req.TermsAccepted,
		PrivacyAccepted: req.PrivacyAccepted,
	})
	if err != nil {
		var partial *service.ErrPartialSignup
		switch {
		case errors.Is(err, service.ErrEmailRequired),
			errors.Is(err, service.ErrPasswordRequired),
			errors.Is(err, service.ErrCountryRequired),
			errors.Is(err, service.ErrPasswordTooShort),
			errors.Is(err, service.ErrLegalNotAccepted):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEmailTaken):
			writeError(w, http.StatusConflict, err.Error())
		case errors.As(err, &partial):
			writeError(w, http.StatusInternalServerError, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := h.svc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// SignOut exists for client parity. Sessions are stateless tokens, so the
// server has nothing to revoke; the client discards the token.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
