package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJWTManager(t *testing.T) {
	branch := uuid.New()
	sub := TokenSubject{
		OperatorID: uuid.New(),
		Username:   "caja1",
		BranchID:   &branch,
		Role:       "cashier",
		SessionID:  "sess-1",
	}
	m := NewJWTManager("secret", time.Hour, 24*time.Hour)

	access, err := m.GenerateAccessToken(sub)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	refresh, err := m.GenerateRefreshToken(sub)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	claims, err := m.ValidateAccessToken(access)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.OperatorID != sub.OperatorID || claims.SessionID != "sess-1" || *claims.BranchID != branch {
		t.Errorf("unexpected claims %+v", claims)
	}

	tests := []struct {
		name  string
		check func() error
	}{
		{"refresh token is not an access token", func() error { _, err := m.ValidateAccessToken(refresh); return err }},
		{"access token is not a refresh token", func() error { _, err := m.ValidateRefreshToken(access); return err }},
		{"wrong secret", func() error {
			_, err := NewJWTManager("other", time.Hour, time.Hour).ValidateAccessToken(access)
			return err
		}},
		{"expired", func() error {
			expired, _ := NewJWTManager("secret", -time.Minute, time.Hour).GenerateAccessToken(sub)
			_, err := m.ValidateAccessToken(expired)
			return err
		}},
		{"garbage", func() error { _, err := m.ValidateAccessToken("not.a.token"); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.check(); err == nil {
				t.Error("expected validation to fail")
			}
		})
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPasswordHash("s3cret", hash) || CheckPasswordHash("wrong", hash) {
		t.Error("bcrypt round trip failed")
	}
}
