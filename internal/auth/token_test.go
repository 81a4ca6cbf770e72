package auth_test

import (
	"testing"
	"time"

	"github.com/internhub/internhub/internal/auth"
	"github.com/internhub/internhub/pkg/models"
)

func TestIssueAndVerifyAccess(t *testing.T) {
	issuer := auth.NewIssuer("testsecret", time.Hour, 24*time.Hour)

	token, err := issuer.IssueAccess(42, models.RoleStudent)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Subject != 42 {
		t.Fatalf("expected subject 42, got %d", claims.Subject)
	}
	if claims.Role != models.RoleStudent {
		t.Fatalf("expected student role, got %q", claims.Role)
	}
}

func TestVerify_Expired(t *testing.T) {
	issuer := auth.NewIssuer("testsecret", -time.Minute, 24*time.Hour)

	token, err := issuer.IssueAccess(1, models.RoleAdmin)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	if _, err := issuer.Verify(token); err != auth.ErrExpired {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := auth.NewIssuer("testsecret", time.Hour, 24*time.Hour)
	other := auth.NewIssuer("othersecret", time.Hour, 24*time.Hour)

	token, err := issuer.IssueAccess(1, models.RoleAdmin)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	if _, err := other.Verify(token); err != auth.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	issuer := auth.NewIssuer("testsecret", time.Hour, 24*time.Hour)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := issuer.Verify(tok); err != auth.ErrInvalidToken {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestRefreshTokenMarker(t *testing.T) {
	issuer := auth.NewIssuer("testsecret", time.Hour, 24*time.Hour)

	refresh, jti, err := issuer.IssueRefresh(7, models.RoleStudent)
	if err != nil {
		t.Fatalf("IssueRefresh error: %v", err)
	}
	if jti == "" {
		t.Fatalf("expected non-empty jti")
	}

	claims, err := issuer.VerifyRefresh(refresh)
	if err != nil {
		t.Fatalf("VerifyRefresh error: %v", err)
	}
	if claims.Subject != 7 || claims.Role != models.RoleStudent {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID != jti {
		t.Fatalf("expected jti %q, got %q", jti, claims.ID)
	}

	// an access token must not redeem as a refresh token
	access, err := issuer.IssueAccess(7, models.RoleStudent)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	if _, err := issuer.VerifyRefresh(access); err != auth.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for access token, got %v", err)
	}
}

func TestVerify_UnknownRole(t *testing.T) {
	issuer := auth.NewIssuer("testsecret", time.Hour, 24*time.Hour)

	token, err := issuer.IssueAccess(1, models.Role("superuser"))
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	if _, err := issuer.Verify(token); err != auth.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for unknown role, got %v", err)
	}
}
