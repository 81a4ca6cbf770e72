package api

import (
	"fmt"
	"net/http"

	"github.com/internhub/internhub/internal/auth"
	"github.com/internhub/internhub/pkg/models"
	"github.com/internhub/internhub/pkg/repository"
)

// Guard resolves a request's bearer token to a live user row and enforces
// role checks before a handler runs. The store lookup (not just the claim)
// is what decides the identity: a token whose subject no longer exists is
// rejected.
type Guard struct {
	users  repository.UserRepo
	tokens *auth.Issuer
}

func NewGuard(users repository.UserRepo, tokens *auth.Issuer) *Guard {
	return &Guard{users: users, tokens: tokens}
}

// userHandler is a handler that runs with a resolved caller identity.
type userHandler func(w http.ResponseWriter, r *http.Request, user *models.User)

func (g *Guard) resolve(r *http.Request) (*models.User, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("missing Authorization header")
	}

	var tokenString string
	if _, err := fmt.Sscanf(authHeader, "Bearer %s", &tokenString); err != nil || tokenString == "" {
		return nil, fmt.Errorf("invalid Authorization header")
	}

	claims, err := g.tokens.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := g.users.GetUserByID(r.Context(), claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	return user, nil
}

// WithUser rejects the request with 401 unless the bearer token resolves to
// an existing user.
func (g *Guard) WithUser(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := g.resolve(r)
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}
		next(w, r, user)
	}
}

// RequireAdmin composes WithUser with an admin role check.
func (g *Guard) RequireAdmin(next userHandler) http.HandlerFunc {
	return g.WithUser(func(w http.ResponseWriter, r *http.Request, user *models.User) {
		if user.Role != models.RoleAdmin {
			forbidden(w, "admin required")
			return
		}
		next(w, r, user)
	})
}

// RequireStudent composes WithUser with a student role check.
func (g *Guard) RequireStudent(next userHandler) http.HandlerFunc {
	return g.WithUser(func(w http.ResponseWriter, r *http.Request, user *models.User) {
		if user.Role != models.RoleStudent {
			forbidden(w, "student required")
			return
		}
		next(w, r, user)
	})
}
