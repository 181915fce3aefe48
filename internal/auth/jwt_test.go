package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/apperr"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/auth"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/models"
)

var me = models.Identity{ID: "u1", Kind: models.KindAdmin}

func TestAccessTokenRoundTrip(t *testing.T) {
	ti := auth.NewTokenIssuer("secret", time.Hour, 7*24*time.Hour)
	token, err := ti.IssueAccess(me)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	got, err := ti.VerifyAccess(token)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if !got.Equal(me) {
		t.Fatalf("got %+v, want %+v", got, me)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	ti := auth.NewTokenIssuer("secret", time.Hour, 7*24*time.Hour)
	token, err := ti.IssueRefresh(me)
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	got, err := ti.VerifyRefresh(token)
	if err != nil {
		t.Fatalf("VerifyRefresh: %v", err)
	}
	if !got.Equal(me) {
		t.Fatalf("got %+v, want %+v", got, me)
	}
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	ti := auth.NewTokenIssuer("secret", time.Hour, 7*24*time.Hour)
	token, _ := ti.IssueRefresh(me)
	if _, err := ti.VerifyAccess(token); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestAccessTokenRejectedAsRefresh(t *testing.T) {
	ti := auth.NewTokenIssuer("secret", time.Hour, 7*24*time.Hour)
	token, _ := ti.IssueAccess(me)
	if _, err := ti.VerifyRefresh(token); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	ti := auth.NewTokenIssuer("secret", -time.Minute, time.Hour)
	token, _ := ti.IssueAccess(me)
	if _, err := ti.VerifyAccess(token); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestWrongSecretRejected(t *testing.T) {
	token, _ := auth.NewTokenIssuer("secret-a", time.Hour, time.Hour).IssueAccess(me)
	if _, err := auth.NewTokenIssuer("secret-b", time.Hour, time.Hour).VerifyAccess(token); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestParseBearer(t *testing.T) {
	got, err := auth.ParseBearer("Bearer abc.def.ghi")
	if err != nil || got != "abc.def.ghi" {
		t.Fatalf("ParseBearer = (%q, %v)", got, err)
	}
	if _, err := auth.ParseBearer(""); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("empty header: err = %v, want ErrUnauthorized", err)
	}
	if _, err := auth.ParseBearer("Basic dXNlcg=="); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("basic scheme: err = %v, want ErrUnauthorized", err)
	}
}
