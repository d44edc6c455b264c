package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/openfairway/rangelog/internal/api/respond"
	"github.com/openfairway/rangelog/internal/store"
)

const bcryptCost = 12

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
	UserID      int64  `json:"user_id"`
}

// RegisterHandler creates an account and logs it straight in.
// @Summary Register
// @Description Creates a user account and returns an access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body credentials true "Credentials"
// @Success 201 {object} tokenResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Router /auth/register [post]
func RegisterHandler(svc *Service, st *store.Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be JSON")
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" || req.Password == "" {
			respond.WriteError(w, http.StatusBadRequest, "MISSING_CREDENTIALS", "Username and password are required")
			return
		}

		if _, err := st.GetUserByUsername(r.Context(), req.Username); err == nil {
			respond.WriteError(w, http.StatusConflict, "USERNAME_TAKEN", "Username already taken")
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Could not create user")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Could not create user")
			return
		}

		id, err := st.CreateUser(r.Context(), req.Username, string(hash))
		if err != nil {
			// Insert raced with a concurrent registration for the same name.
			logger.Warn("create user failed", "username", req.Username, "error", err)
			respond.WriteError(w, http.StatusConflict, "USERNAME_TAKEN", "Username already taken")
			return
		}

		tok, err := svc.IssueToken(id)
		if err != nil {
			respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Could not issue token")
			return
		}
		logger.Info("user registered", "user_id", id, "username", req.Username)
		respond.WriteJSONObject(w, http.StatusCreated, tokenResponse{AccessToken: tok, Username: req.Username, UserID: id})
	}
}

// LoginHandler exchanges credentials for an access token.
// @Summary Login
// @Description Verifies credentials and returns an access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body credentials true "Credentials"
// @Success 200 {object} tokenResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 401 {object} respond.ErrorResponse
// @Router /auth/login [post]
func LoginHandler(svc *Service, st *store.Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be JSON")
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" || req.Password == "" {
			respond.WriteError(w, http.StatusBadRequest, "MISSING_CREDENTIALS", "Username and password are required")
			return
		}

		u, err := st.GetUserByUsername(r.Context(), req.Username)
		if err != nil || bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(req.Password)) != nil {
			// Same answer for unknown user and wrong password.
			respond.WriteError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
			return
		}

		tok, err := svc.IssueToken(u.ID)
		if err != nil {
			respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Could not issue token")
			return
		}
		logger.Info("user logged in", "user_id", u.ID)
		respond.WriteJSONObject(w, http.StatusOK, tokenResponse{AccessToken: tok, Username: u.Username, UserID: u.ID})
	}
}
