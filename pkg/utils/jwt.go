package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims identifies an operator and the terminal session the token was
// issued for. SessionID keys the operator's cart.
type Claims struct {
	OperatorID uuid.UUID  `json:"operator_id"`
	Username   string     `json:"username"`
	BranchID   *uuid.UUID `json:"branch_id,omitempty"`
	Role       string     `json:"role"`
	SessionID  string     `json:"sid"`
	TokenType  string     `json:"typ"`
	jwt.RegisteredClaims
}

// JWTManager signs and validates HS256 tokens
type JWTManager struct {
	secret        []byte
	expiry        time.Duration
	refreshExpiry time.Duration
	issuer        string
}

func NewJWTManager(secret string, expiry, refreshExpiry time.Duration) *JWTManager {
	return &JWTManager{
		secret:        []byte(secret),
		expiry:        expiry,
		refreshExpiry: refreshExpiry,
		issuer:        "retailpos-api",
	}
}

// TokenSubject is what gets encoded into a token pair
type TokenSubject struct {
	OperatorID uuid.UUID
	Username   string
	BranchID   *uuid.UUID
	Role       string
	SessionID  string
}

func (m *JWTManager) GenerateAccessToken(sub TokenSubject) (string, error) {
	return m.sign(sub, tokenTypeAccess, m.expiry)
}

func (m *JWTManager) GenerateRefreshToken(sub TokenSubject) (string, error) {
	return m.sign(sub, tokenTypeRefresh, m.refreshExpiry)
}

func (m *JWTManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	return m.validate(tokenString, tokenTypeAccess)
}

func (m *JWTManager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return m.validate(tokenString, tokenTypeRefresh)
}

func (m *JWTManager) sign(sub TokenSubject, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		OperatorID: sub.OperatorID,
		Username:   sub.Username,
		BranchID:   sub.BranchID,
		Role:       sub.Role,
		SessionID:  sub.SessionID,
		TokenType:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   sub.OperatorID.String(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *JWTManager) validate(tokenString, typ string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(m.issuer))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != typ {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
