package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIsMatchesByKind(t *testing.T) {
	sentinel := NewKind(http.StatusConflict, "stale_token", "Stale token")
	decorated := sentinel.WithMessage("token already used").WithDetails(map[string]string{"a": "b"})
	wrapped := fmt.Errorf("confirm: %w", decorated)

	if !errors.Is(wrapped, sentinel) {
		t.Fatal("expected decorated copy to match its sentinel")
	}
	if errors.Is(wrapped, ErrForbidden) {
		t.Fatal("different kinds must not match")
	}
	if sentinel.Message != "Stale token" {
		t.Fatal("WithMessage must not mutate the sentinel")
	}
}

func TestGetAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"app error", NewNotFoundError("Sale"), http.StatusNotFound, "Sale not found"},
		{"wrapped app error", fmt.Errorf("x: %w", NewBadRequestError("bad")), http.StatusBadRequest, "bad"},
		{"plain error is opaque", errors.New("pq: connection refused"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetAppError(tt.err)
			if got.Code != tt.wantCode || got.Message != tt.wantMsg {
				t.Errorf("got %d %q, want %d %q", got.Code, got.Message, tt.wantCode, tt.wantMsg)
			}
		})
	}

	if IsDomain(errors.New("boom")) {
		t.Error("plain error must not be a domain error")
	}
	if !IsDomain(NewConflictError("x")) {
		t.Error("conflict must be a domain error")
	}
}
