package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/apperr"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/auth"
)

func TestMemoryCodeStoreSingleUse(t *testing.T) {
	s := auth.NewMemoryCodeStore()
	ctx := context.Background()

	if err := s.Put(ctx, "code-1", "payload", time.Minute); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Take(ctx, "code-1")
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	if got != "payload" {
		t.Fatalf("payload = %q, want %q", got, "payload")
	}

	if _, err := s.Take(ctx, "code-1"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("second take: err = %v, want ErrUnauthorized", err)
	}
}

func TestMemoryCodeStoreExpiry(t *testing.T) {
	s := auth.NewMemoryCodeStore()
	ctx := context.Background()

	if err := s.Put(ctx, "code-1", "payload", -time.Second); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := s.Take(ctx, "code-1"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expired take: err = %v, want ErrUnauthorized", err)
	}
}

func TestMemoryCodeStoreUnknownCode(t *testing.T) {
	s := auth.NewMemoryCodeStore()
	if _, err := s.Take(context.Background(), "nope"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}
