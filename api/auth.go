package api

import (
	"encoding/json"
	"io"
	"net/http"

	"log/slog"

	"github.com/internhub/internhub/internal/auth"
	"github.com/internhub/internhub/pkg/models"
	"github.com/internhub/internhub/pkg/repository"
)

type AuthHandler struct {
	users  repository.UserRepo
	tokens *auth.Issuer

	// refreshStore is nil unless the deployment enables a revocable
	// refresh-token store; stateless deployments run without one.
	refreshStore    auth.RefreshStore
	statelessStrict bool
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(users repository.UserRepo, tokens *auth.Issuer, store auth.RefreshStore, statelessStrict bool) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, refreshStore: store, statelessStrict: statelessStrict}
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type signOutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

func (h *AuthHandler) issueTokens(r *http.Request, userID int64, role models.Role) (*tokenResponse, error) {
	access, err := h.tokens.IssueAccess(userID, role)
	if err != nil {
		return nil, err
	}

	resp := &tokenResponse{
		AccessToken: access,
		TokenType:   "bearer",
		ExpiresIn:   int64(h.tokens.AccessTTL().Seconds()),
	}
	if h.statelessStrict {
		return resp, nil
	}

	refresh, jti, err := h.tokens.IssueRefresh(userID, role)
	if err != nil {
		return nil, err
	}
	if h.refreshStore != nil {
		if err := h.refreshStore.Save(r.Context(), jti, userID, h.tokens.RefreshTTL()); err != nil {
			return nil, err
		}
	}
	resp.RefreshToken = refresh

	return resp, nil
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		validationFailed(w, "invalid request")
		return
	}
	if err := validatePayload(r.Context(), signUpSchema, body); err != nil {
		validationFailed(w, err.Error())
		return
	}

	var req signUpRequest
	if err := json.Unmarshal(body, &req); err != nil {
		validationFailed(w, "invalid request")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		internalError(w, err)
		return
	}

	ctx := r.Context()

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.Role(req.Role),
	}
	userID, err := h.users.CreateUser(ctx, user)
	if err != nil {
		if err == repository.ErrDuplicate {
			conflict(w, "email already registered")
			return
		}
		internalError(w, err)
		return
	}

	resp, err := h.issueTokens(r, userID, user.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	logger.Info("user signed up", slog.Int64("user_id", userID), slog.String("role", req.Role))

	writeJSON(w, resp, http.StatusOK)
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		validationFailed(w, "invalid request")
		return
	}
	if req.Email == "" || req.Password == "" {
		validationFailed(w, "missing fields")
		return
	}

	ctx := r.Context()

	user, err := h.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		internalError(w, err)
		return
	}
	if user == nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		unauthorized(w, "invalid credentials")
		return
	}

	resp, err := h.issueTokens(r, user.ID, user.Role)
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, resp, http.StatusOK)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.statelessStrict {
		validationFailed(w, "refresh disabled in stateless strict mode")
		return
	}

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		validationFailed(w, "refresh_token is required")
		return
	}

	claims, err := h.tokens.VerifyRefresh(req.RefreshToken)
	if err != nil {
		unauthorized(w, "invalid refresh token")
		return
	}

	if h.refreshStore != nil {
		ok, err := h.refreshStore.Valid(r.Context(), claims.ID)
		if err != nil {
			internalError(w, err)
			return
		}
		if !ok {
			unauthorized(w, "refresh token revoked")
			return
		}
		// the redeemed token is replaced, not kept alive
		if err := h.refreshStore.Revoke(r.Context(), claims.ID); err != nil {
			internalError(w, err)
			return
		}
	}

	resp, err := h.issueTokens(r, claims.Subject, claims.Role)
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, resp, http.StatusOK)
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	// Stateless deployments have nothing to revoke; already-issued tokens
	// stay valid until expiry.
	var req signOutRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if h.refreshStore != nil && req.RefreshToken != "" {
		if claims, err := h.tokens.VerifyRefresh(req.RefreshToken); err == nil {
			if err := h.refreshStore.Revoke(r.Context(), claims.ID); err != nil {
				logger.Error("revoke refresh token", slog.Any("err", err))
			}
		}
	}

	writeJSON(w, map[string]string{"message": "signed out"}, http.StatusOK)
}

// Me returns the resolved identity of the caller.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request, user *models.User) {
	writeJSON(w, user.Public(), http.StatusOK)
}
