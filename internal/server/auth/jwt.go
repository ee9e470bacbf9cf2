// Package auth issues and validates bearer tokens and hashes account secrets.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/dmitrijs2005/gophbank/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload: sub is the principal identifier.
type Claims struct {
	jwt.RegisteredClaims
	NationalID string `json:"national_id"`
}

// AuthenticatedPrincipal is what a valid token proves about its bearer.
type AuthenticatedPrincipal struct {
	Identifier string
	NationalID string
}

// TokenManager signs and validates HS256 access tokens with one key.
type TokenManager struct {
	key SigningKey
	now func() time.Time
}

func NewTokenManager(key SigningKey) *TokenManager {
	return &TokenManager{key: key, now: time.Now}
}

// IssueToken mints a token for p that expires after validity.
func (tm *TokenManager) IssueToken(p *models.Principal, validity time.Duration) (string, error) {
	if validity <= 0 {
		return "", fmt.Errorf("%w: token validity must be positive", common.ErrorValidation)
	}

	now := tm.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Identifier,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		NationalID: p.NationalID,
	})
	token.Header["kid"] = tm.key.ID

	s, err := token.SignedString(tm.key.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// ValidateToken checks signature, expiry and required claims. Every failure
// wraps common.ErrInvalidToken.
func (tm *TokenManager) ValidateToken(tokenString string) (*AuthenticatedPrincipal, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if kid, _ := t.Header["kid"].(string); kid != tm.key.ID {
			return nil, common.ErrInvalidSignature
		}
		return tm.key.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidSignature), errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, common.ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, common.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
			return nil, common.ErrMalformedClaims
		default:
			return nil, common.ErrInvalidToken
		}
	}

	if claims.Subject == "" || claims.NationalID == "" {
		return nil, common.ErrMalformedClaims
	}

	return &AuthenticatedPrincipal{Identifier: claims.Subject, NationalID: claims.NationalID}, nil
}
