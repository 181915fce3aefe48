package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/apperr"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/auth"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/models"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/repository"
)

// exchangeCodeTTL bounds the window between the Google callback redirect and
// the client's exchange-code call.
const exchangeCodeTTL = 2 * time.Minute

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService covers both account kinds: admins and employees live in
// separate collections but share the token machinery.
type AuthService struct {
	users  *repository.UserRepository
	issuer *auth.TokenIssuer
	google *auth.GoogleOAuth
	codes  auth.CodeStore
	log    *zap.Logger
}

func NewAuthService(users *repository.UserRepository, issuer *auth.TokenIssuer, google *auth.GoogleOAuth, codes auth.CodeStore, log *zap.Logger) *AuthService {
	return &AuthService{users: users, issuer: issuer, google: google, codes: codes, log: log}
}

func (s *AuthService) issuePair(who models.Identity) (TokenPair, error) {
	access, err := s.issuer.IssueAccess(who)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.issuer.IssueRefresh(who)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) RegisterAdmin(ctx context.Context, name, email, password string) (*models.Admin, error) {
	if _, err := s.users.FindAdminByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", apperr.ErrConflict)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	a := &models.Admin{Name: name, Email: email, Password: hash}
	if err := s.users.CreateAdmin(ctx, a); err != nil {
		return nil, err
	}
	s.log.Info("admin registered", zap.String("email", email))
	return a, nil
}

func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*models.Admin, TokenPair, error) {
	a, err := s.users.FindAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, TokenPair{}, fmt.Errorf("%w: wrong email or password", apperr.ErrUnauthorized)
		}
		return nil, TokenPair{}, err
	}
	if err := auth.CheckPassword(a.Password, password); err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.issuePair(models.Identity{ID: a.ID, Kind: models.KindAdmin})
	if err != nil {
		return nil, TokenPair{}, err
	}
	return a, pair, nil
}

func (s *AuthService) RegisterEmployee(ctx context.Context, e *models.Employee, password string) (*models.Employee, error) {
	if _, err := s.users.FindEmployeeByEmail(ctx, e.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", apperr.ErrConflict)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	e.Password = hash
	if err := s.users.CreateEmployee(ctx, e); err != nil {
		return nil, err
	}
	s.log.Info("employee registered", zap.String("email", e.Email))
	return e, nil
}

func (s *AuthService) LoginEmployee(ctx context.Context, email, password string) (*models.Employee, TokenPair, error) {
	e, err := s.users.FindEmployeeByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, TokenPair{}, fmt.Errorf("%w: wrong email or password", apperr.ErrUnauthorized)
		}
		return nil, TokenPair{}, err
	}
	if err := auth.CheckPassword(e.Password, password); err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.issuePair(models.Identity{ID: e.ID, Kind: models.KindEmployee})
	if err != nil {
		return nil, TokenPair{}, err
	}
	return e, pair, nil
}

// Refresh trades a valid refresh token for a fresh pair. The account must
// still exist.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	who, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	if _, err := s.users.ResolveContact(ctx, who); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return TokenPair{}, fmt.Errorf("%w: account no longer exists", apperr.ErrUnauthorized)
		}
		return TokenPair{}, err
	}
	return s.issuePair(who)
}

// Me returns the caller's profile view.
func (s *AuthService) Me(ctx context.Context, who models.Identity) (*models.Contact, error) {
	return s.users.ResolveContact(ctx, who)
}

// GoogleAuthURL returns the consent-screen URL, with a random state the
// client echoes back.
func (s *AuthService) GoogleAuthURL() (string, error) {
	if s.google == nil {
		return "", fmt.Errorf("%w: google login is not configured", apperr.ErrBadRequest)
	}
	return s.google.AuthURL(uuid.NewString()), nil
}

// GoogleCallback finishes the OAuth dance. The Google account must match an
// existing admin or employee email; the portal never auto-provisions from
// Google. On success it mints a one-time exchange code the SPA redeems via
// ExchangeCode, so tokens never ride on a redirect URL.
func (s *AuthService) GoogleCallback(ctx context.Context, code string) (string, error) {
	if s.google == nil {
		return "", fmt.Errorf("%w: google login is not configured", apperr.ErrBadRequest)
	}
	profile, err := s.google.Exchange(ctx, code)
	if err != nil {
		return "", err
	}

	var who models.Identity
	if a, err := s.users.FindAdminByEmail(ctx, profile.Email); err == nil {
		who = models.Identity{ID: a.ID, Kind: models.KindAdmin}
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return "", err
	} else if e, err := s.users.FindEmployeeByEmail(ctx, profile.Email); err == nil {
		who = models.Identity{ID: e.ID, Kind: models.KindEmployee}
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return "", err
	} else {
		return "", fmt.Errorf("%w: no account for %s", apperr.ErrUnauthorized, profile.Email)
	}

	payload, err := json.Marshal(who)
	if err != nil {
		return "", err
	}
	exchange := uuid.NewString()
	if err := s.codes.Put(ctx, exchange, string(payload), exchangeCodeTTL); err != nil {
		return "", err
	}
	return exchange, nil
}

// ExchangeCode redeems a one-time code minted by GoogleCallback for a token
// pair. Codes are single-use.
func (s *AuthService) ExchangeCode(ctx context.Context, code string) (*models.Contact, TokenPair, error) {
	payload, err := s.codes.Take(ctx, code)
	if err != nil {
		return nil, TokenPair{}, err
	}
	var who models.Identity
	if err := json.Unmarshal([]byte(payload), &who); err != nil {
		return nil, TokenPair{}, fmt.Errorf("%w: malformed exchange code", apperr.ErrUnauthorized)
	}
	contact, err := s.users.ResolveContact(ctx, who)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.issuePair(who)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return contact, pair, nil
}
