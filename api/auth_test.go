package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/internhub/internhub/api"
	"github.com/internhub/internhub/internal/auth"
	"github.com/internhub/internhub/pkg/models"
	"github.com/internhub/internhub/pkg/repository/mock"
)

const testSecret = "testsecret"

func testIssuer() *auth.Issuer {
	return auth.NewIssuer(testSecret, time.Hour, 24*time.Hour)
}

// memRefreshStore is an in-process stand-in for the redis-backed store.
type memRefreshStore struct {
	mu   sync.Mutex
	live map[string]int64
}

func newMemRefreshStore() *memRefreshStore {
	return &memRefreshStore{live: make(map[string]int64)}
}

func (s *memRefreshStore) Save(ctx context.Context, jti string, userID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live[jti] = userID
	return nil
}

func (s *memRefreshStore) Valid(ctx context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.live[jti]
	return ok, nil
}

func (s *memRefreshStore) Revoke(ctx context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, jti)
	return nil
}

var _ auth.RefreshStore = (*memRefreshStore)(nil)

type tokenBody struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

func parseClaims(t *testing.T, tokenStr string) jwt.MapClaims {
	t.Helper()
	tok, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) { return []byte(testSecret), nil })
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", tok.Claims)
	}
	return claims
}

func TestAuthHandlers_Strict(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       any
		prepare    func(m *mock.Mocks)
		wantStatus int
		checkBody  func(t *testing.T, body []byte)
	}{
		{
			name:       "SignUp_InvalidJSON",
			path:       "/sign-up",
			body:       "not a json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "SignUp_ShortPassword",
			path:       "/sign-up",
			body:       map[string]string{"email": "a@example.com", "password": "short", "role": "student"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "SignUp_BadRole",
			path:       "/sign-up",
			body:       map[string]string{"email": "a@example.com", "password": "password1", "role": "wizard"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "SignUp_BadEmail",
			path:       "/sign-up",
			body:       map[string]string{"email": "not-an-email", "password": "password1", "role": "student"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "SignUp_MissingRole",
			path:       "/sign-up",
			body:       map[string]string{"email": "a@example.com", "password": "password1"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "SignUp_Success",
			path:       "/sign-up",
			body:       map[string]string{"email": "alice@example.com", "password": "password1", "role": "student"},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				var tb tokenBody
				if err := json.Unmarshal(b, &tb); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				if tb.AccessToken == "" || tb.TokenType != "bearer" {
					t.Fatalf("unexpected token response: %+v", tb)
				}
				if tb.ExpiresIn != 3600 {
					t.Fatalf("expected expires_in 3600, got %d", tb.ExpiresIn)
				}
				// stateless strict deployments never hand out refresh tokens
				if tb.RefreshToken != "" {
					t.Fatalf("unexpected refresh token in strict mode")
				}
				claims := parseClaims(t, tb.AccessToken)
				if claims["role"] != "student" {
					t.Fatalf("expected student role claim, got %v", claims["role"])
				}
				if sub, _ := claims["sub"].(string); sub == "" {
					t.Fatalf("missing sub claim")
				} else if _, err := strconv.ParseInt(sub, 10, 64); err != nil {
					t.Fatalf("sub is not a numeric id: %q", sub)
				}
				if expF, ok := claims["exp"].(float64); !ok || int64(expF) < time.Now().Unix() {
					t.Fatalf("invalid exp claim")
				}
			},
		},
		{
			name: "SignUp_DuplicateEmail",
			path: "/sign-up",
			body: map[string]string{"email": "dup@example.com", "password": "password1", "role": "student"},
			prepare: func(m *mock.Mocks) {
				m.Users.Add("dup@example.com", "hash", models.RoleStudent)
			},
			wantStatus: http.StatusConflict,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte("conflict")) {
					t.Fatalf("expected conflict error kind, got %s", b)
				}
			},
		},
		{
			name:       "SignIn_InvalidJSON",
			path:       "/sign-in",
			body:       "not a json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "SignIn_MissingPassword",
			path:       "/sign-in",
			body:       map[string]string{"email": "a@example.com"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "SignIn_UnknownUser",
			path:       "/sign-in",
			body:       map[string]string{"email": "ghost@example.com", "password": "whatever1"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "SignIn_WrongPassword",
			path: "/sign-in",
			body: map[string]string{"email": "bob@example.com", "password": "wrongpass"},
			prepare: func(m *mock.Mocks) {
				hash, _ := auth.HashPassword("rightpass")
				m.Users.Add("bob@example.com", hash, models.RoleStudent)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "SignIn_Success",
			path: "/sign-in",
			body: map[string]string{"email": "bob@example.com", "password": "hunter22"},
			prepare: func(m *mock.Mocks) {
				hash, _ := auth.HashPassword("hunter22")
				m.Users.Add("bob@example.com", hash, models.RoleAdmin)
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				var tb tokenBody
				if err := json.Unmarshal(b, &tb); err != nil || tb.AccessToken == "" {
					t.Fatalf("expected access token, got %s (%v)", b, err)
				}
				claims := parseClaims(t, tb.AccessToken)
				if claims["role"] != "admin" {
					t.Fatalf("expected admin role claim, got %v", claims["role"])
				}
			},
		},
		{
			name:       "Refresh_DisabledInStrictMode",
			path:       "/refresh",
			body:       map[string]string{"refresh_token": "anything"},
			wantStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte("stateless strict")) {
					t.Fatalf("expected strict-mode message, got %s", b)
				}
			},
		},
		{
			name:       "SignOut_OK",
			path:       "/sign-out",
			body:       nil,
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte("signed out")) {
					t.Fatalf("unexpected body: %s", b)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := mock.NewMocks()
			if tt.prepare != nil {
				tt.prepare(mocks)
			}
			handler := api.NewAuthHandler(mocks.Users, testIssuer(), nil, true)

			var bodyReader io.Reader
			if tt.body != nil {
				b, _ := json.Marshal(tt.body)
				bodyReader = bytes.NewReader(b)
			}
			req := httptest.NewRequest(http.MethodPost, tt.path, bodyReader)
			w := httptest.NewRecorder()

			switch tt.path {
			case "/sign-up":
				handler.SignUp(w, req)
			case "/sign-in":
				handler.SignIn(w, req)
			case "/refresh":
				handler.Refresh(w, req)
			case "/sign-out":
				handler.SignOut(w, req)
			default:
				t.Fatalf("unknown path %s", tt.path)
			}

			res := w.Result()
			defer res.Body.Close()
			data, _ := io.ReadAll(res.Body)
			if res.StatusCode != tt.wantStatus {
				t.Fatalf("expected status %d got %d body=%s", tt.wantStatus, res.StatusCode, data)
			}
			if tt.checkBody != nil {
				tt.checkBody(t, data)
			}
		})
	}
}

func TestRefresh_NonStrict(t *testing.T) {
	mocks := mock.NewMocks()
	hash, _ := auth.HashPassword("password1")
	mocks.Users.Add("s@example.com", hash, models.RoleStudent)

	store := newMemRefreshStore()
	handler := api.NewAuthHandler(mocks.Users, testIssuer(), store, false)

	signIn := func() tokenBody {
		b, _ := json.Marshal(map[string]string{"email": "s@example.com", "password": "password1"})
		w := httptest.NewRecorder()
		handler.SignIn(w, httptest.NewRequest(http.MethodPost, "/sign-in", bytes.NewReader(b)))
		if w.Code != http.StatusOK {
			t.Fatalf("sign-in failed: %d %s", w.Code, w.Body.String())
		}
		var tb tokenBody
		if err := json.Unmarshal(w.Body.Bytes(), &tb); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return tb
	}

	tb := signIn()
	if tb.RefreshToken == "" {
		t.Fatalf("expected refresh token in non-strict mode")
	}
	claims := parseClaims(t, tb.RefreshToken)
	if claims["type"] != "refresh" {
		t.Fatalf("expected refresh type marker, got %v", claims["type"])
	}

	// the access token is not accepted as a refresh token
	b, _ := json.Marshal(map[string]string{"refresh_token": tb.AccessToken})
	w := httptest.NewRecorder()
	handler.Refresh(w, httptest.NewRequest(http.MethodPost, "/refresh", bytes.NewReader(b)))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for access token, got %d", w.Code)
	}

	// a valid refresh token rotates: new pair out, old jti revoked
	b, _ = json.Marshal(map[string]string{"refresh_token": tb.RefreshToken})
	w = httptest.NewRecorder()
	handler.Refresh(w, httptest.NewRequest(http.MethodPost, "/refresh", bytes.NewReader(b)))
	if w.Code != http.StatusOK {
		t.Fatalf("refresh failed: %d %s", w.Code, w.Body.String())
	}
	var rotated tokenBody
	if err := json.Unmarshal(w.Body.Bytes(), &rotated); err != nil || rotated.RefreshToken == "" {
		t.Fatalf("expected rotated pair, got %s (%v)", w.Body.String(), err)
	}

	// redeeming the original token again must fail
	b, _ = json.Marshal(map[string]string{"refresh_token": tb.RefreshToken})
	w = httptest.NewRecorder()
	handler.Refresh(w, httptest.NewRequest(http.MethodPost, "/refresh", bytes.NewReader(b)))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for replayed refresh token, got %d", w.Code)
	}
}

func TestSignOut_RevokesRefreshToken(t *testing.T) {
	mocks := mock.NewMocks()
	hash, _ := auth.HashPassword("password1")
	mocks.Users.Add("s@example.com", hash, models.RoleStudent)

	store := newMemRefreshStore()
	handler := api.NewAuthHandler(mocks.Users, testIssuer(), store, false)

	b, _ := json.Marshal(map[string]string{"email": "s@example.com", "password": "password1"})
	w := httptest.NewRecorder()
	handler.SignIn(w, httptest.NewRequest(http.MethodPost, "/sign-in", bytes.NewReader(b)))
	var tb tokenBody
	if err := json.Unmarshal(w.Body.Bytes(), &tb); err != nil || tb.RefreshToken == "" {
		t.Fatalf("sign-in: %s (%v)", w.Body.String(), err)
	}

	b, _ = json.Marshal(map[string]string{"refresh_token": tb.RefreshToken})
	w = httptest.NewRecorder()
	handler.SignOut(w, httptest.NewRequest(http.MethodPost, "/sign-out", bytes.NewReader(b)))
	if w.Code != http.StatusOK {
		t.Fatalf("sign-out failed: %d", w.Code)
	}

	// the revoked token no longer refreshes
	w = httptest.NewRecorder()
	handler.Refresh(w, httptest.NewRequest(http.MethodPost, "/refresh", bytes.NewReader(b)))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after sign-out, got %d", w.Code)
	}
}
