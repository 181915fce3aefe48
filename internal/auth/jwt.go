package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/apperr"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/models"
)

type Claims struct {
	Kind models.Kind `json:"kind"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies the access/refresh token pair. Both tokens
// are HS256; refresh tokens carry a "refresh" audience so one cannot stand in
// for the other.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

const refreshAudience = "refresh"

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (ti *TokenIssuer) sign(who models.Identity, ttl time.Duration, audience []string) (string, error) {
	now := time.Now()
	claims := Claims{
		Kind: who.Kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   who.ID,
			Audience:  audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
}

func (ti *TokenIssuer) IssueAccess(who models.Identity) (string, error) {
	return ti.sign(who, ti.accessTTL, nil)
}

func (ti *TokenIssuer) IssueRefresh(who models.Identity) (string, error) {
	return ti.sign(who, ti.refreshTTL, []string{refreshAudience})
}

func (ti *TokenIssuer) parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return ti.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)
	}
	return claims, nil
}

// VerifyAccess validates an access token and returns the identity it names.
func (ti *TokenIssuer) VerifyAccess(tokenStr string) (models.Identity, error) {
	claims, err := ti.parse(tokenStr)
	if err != nil {
		return models.Identity{}, err
	}
	for _, aud := range claims.Audience {
		if aud == refreshAudience {
			return models.Identity{}, fmt.Errorf("%w: refresh token used as access token", apperr.ErrUnauthorized)
		}
	}
	return claimsIdentity(claims)
}

// VerifyRefresh validates a refresh token and returns the identity it names.
func (ti *TokenIssuer) VerifyRefresh(tokenStr string) (models.Identity, error) {
	claims, err := ti.parse(tokenStr)
	if err != nil {
		return models.Identity{}, err
	}
	for _, aud := range claims.Audience {
		if aud == refreshAudience {
			return claimsIdentity(claims)
		}
	}
	return models.Identity{}, fmt.Errorf("%w: not a refresh token", apperr.ErrUnauthorized)
}

func claimsIdentity(claims *Claims) (models.Identity, error) {
	kind := claims.Kind
	if kind == "" {
		kind = models.KindEmployee
	}
	if !kind.Valid() || claims.Subject == "" {
		return models.Identity{}, fmt.Errorf("%w: malformed claims", apperr.ErrUnauthorized)
	}
	return models.Identity{ID: claims.Subject, Kind: kind}, nil
}

// ParseBearer extracts the token from an Authorization header.
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("%w: authorization header empty", apperr.ErrUnauthorized)
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", fmt.Errorf("%w: invalid authorization header format", apperr.ErrUnauthorized)
	}
	return parts[1], nil
}
