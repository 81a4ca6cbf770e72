package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/internhub/internhub/pkg/models"
)

var (
	// ErrExpired means the token's exp claim has passed.
	ErrExpired = errors.New("token expired")
	// ErrInvalidToken covers bad signatures, malformed tokens and claim
	// sets that don't carry a usable subject/role pair.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the identity payload carried by a verified token.
type Claims struct {
	Subject int64
	Role    models.Role
	// ID is the jti of a refresh token; empty for access tokens.
	ID string
}

// Issuer creates and verifies HS256-signed tokens carrying subject, role and
// an absolute expiry.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// AccessTTL returns the lifetime of issued access tokens.
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }

// RefreshTTL returns the lifetime of issued refresh tokens.
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// IssueAccess signs an access token for the given identity.
func (i *Issuer) IssueAccess(userID int64, role models.Role) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.FormatInt(userID, 10),
		"role": string(role),
		"exp":  time.Now().Add(i.accessTTL).Unix(),
	})
	return token.SignedString(i.secret)
}

// IssueRefresh signs a refresh token: same identity claims plus a type
// marker and a jti so a token store can track redemption.
func (i *Issuer) IssueRefresh(userID int64, role models.Role) (string, string, error) {
	jti := uuid.NewString()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.FormatInt(userID, 10),
		"role": string(role),
		"type": "refresh",
		"jti":  jti,
		"exp":  time.Now().Add(i.refreshTTL).Unix(),
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

func (i *Issuer) parse(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func claimsFrom(mc jwt.MapClaims) (Claims, error) {
	sub, _ := mc["sub"].(string)
	roleStr, _ := mc["role"].(string)
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	role := models.Role(roleStr)
	if !role.Valid() {
		return Claims{}, ErrInvalidToken
	}
	jti, _ := mc["jti"].(string)
	return Claims{Subject: id, Role: role, ID: jti}, nil
}

// Verify checks the signature and expiry of an access token and returns its
// identity claims.
func (i *Issuer) Verify(tokenStr string) (Claims, error) {
	mc, err := i.parse(tokenStr)
	if err != nil {
		return Claims{}, err
	}
	return claimsFrom(mc)
}

// VerifyRefresh is Verify plus a check for the refresh type marker.
func (i *Issuer) VerifyRefresh(tokenStr string) (Claims, error) {
	mc, err := i.parse(tokenStr)
	if err != nil {
		return Claims{}, err
	}
	if typ, _ := mc["type"].(string); typ != "refresh" {
		return Claims{}, ErrInvalidToken
	}
	return claimsFrom(mc)
}
