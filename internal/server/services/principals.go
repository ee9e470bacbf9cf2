// Package services contains server-side business logic: registration, login
// and profile handling for principals, and owner-scoped transaction CRUD.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/dmitrijs2005/gophbank/internal/server/auth"
	"github.com/dmitrijs2005/gophbank/internal/server/models"
	"github.com/dmitrijs2005/gophbank/internal/server/repositories/repomanager"
)

// ErrIncorrectPassword is returned by ChangePassword when the current
// password does not match.
var ErrIncorrectPassword = fmt.Errorf("%w: incorrect password", common.ErrorUnauthorized)

// Registration is the input of PrincipalService.Register.
type Registration struct {
	Identifier string `json:"username" validate:"required,max=50"`
	FirstName  string `json:"first_name" validate:"required,max=50"`
	LastName   string `json:"last_name" validate:"required,max=50"`
	Email      string `json:"email" validate:"required,max=50"`
	Password   string `json:"password" validate:"required,max=50"`
	NationalID string `json:"national_id" validate:"required,len=9,number"`
}

type passwordChange struct {
	Password    string `json:"password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=5,max=50"`
}

// Token is a freshly issued bearer token.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"-"`
}

// PrincipalService handles registration, credential checks, token issuance
// and the profile of the authenticated principal.
type PrincipalService struct {
	repomanager                 repomanager.RepositoryManager
	tokens                      *auth.TokenManager
	hasher                      auth.Hasher
	accessTokenValidityDuration time.Duration
	now                         func() time.Time

	// dummyHash is verified against when the identifier is unknown so the
	// miss costs as much as a wrong password under the configured scheme.
	dummyHash func() string
}

func NewPrincipalService(m repomanager.RepositoryManager, tokens *auth.TokenManager, hasher auth.Hasher, validity time.Duration) *PrincipalService {
	return &PrincipalService{
		repomanager:                 m,
		tokens:                      tokens,
		hasher:                      hasher,
		accessTokenValidityDuration: validity,
		now:                         time.Now,
		dummyHash: sync.OnceValue(func() string {
			h, err := hasher.Hash("gophbank dummy secret")
			if err != nil {
				return ""
			}
			return h
		}),
	}
}

// Register creates a principal with the given role. Duplicate identifier,
// email or national id yields common.ErrorConflict.
func (s *PrincipalService) Register(ctx context.Context, r Registration, role models.Role) (*models.Principal, error) {
	if err := validateStruct(r); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrorValidation, role)
	}

	hash, err := s.hasher.Hash(r.Password)
	if err != nil {
		return nil, fmt.Errorf("hash secret: %w", err)
	}

	p := &models.Principal{
		Identifier: r.Identifier,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		SecretHash: hash,
		NationalID: r.NationalID,
		Role:       role,
	}
	if err := s.repomanager.Principals(ctx).Insert(ctx, p); err != nil {
		return nil, fmt.Errorf("error creating principal: %w", err)
	}
	return p, nil
}

// VerifyCredentials returns the principal when password matches its stored
// hash. Unknown identifiers and wrong passwords both yield
// common.ErrorUnauthorized.
func (s *PrincipalService) VerifyCredentials(ctx context.Context, identifier, password string) (*models.Principal, error) {
	p, err := s.repomanager.Principals(ctx).FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.VerifySecret(password, s.dummyHash())
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching principal: %w", err)
	}
	if !auth.VerifySecret(password, p.SecretHash) {
		return nil, common.ErrorUnauthorized
	}
	return p, nil
}

// Login verifies credentials and issues an access token.
func (s *PrincipalService) Login(ctx context.Context, identifier, password string) (*Token, error) {
	p, err := s.VerifyCredentials(ctx, identifier, password)
	if err != nil {
		return nil, err
	}
	tok, err := s.tokens.IssueToken(p, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Token{
		AccessToken: tok,
		TokenType:   "Bearer",
		ExpiresAt:   s.now().Add(s.accessTokenValidityDuration),
	}, nil
}

// LookupByNationalID finds a principal by national id.
func (s *PrincipalService) LookupByNationalID(ctx context.Context, nationalID string) (*models.Principal, error) {
	if len(nationalID) != 9 {
		return nil, fmt.Errorf("%w: national_id must be exactly 9 characters", common.ErrorValidation)
	}
	p, err := s.repomanager.Principals(ctx).FindByNationalID(ctx, nationalID)
	if err != nil {
		return nil, fmt.Errorf("error searching principal: %w", err)
	}
	return p, nil
}

// Profile returns the stored record of the authenticated principal.
func (s *PrincipalService) Profile(ctx context.Context, identifier string) (*models.Principal, error) {
	p, err := s.repomanager.Principals(ctx).FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("error searching principal: %w", err)
	}
	return p, nil
}

// ChangePassword replaces the stored hash after checking the current
// password. Lookup and update run in one database transaction.
func (s *PrincipalService) ChangePassword(ctx context.Context, identifier, current, next string) error {
	if err := validateStruct(passwordChange{Password: current, NewPassword: next}); err != nil {
		return err
	}

	return s.repomanager.WithTx(ctx, func(tx repomanager.RepositoryManager) error {
		repo := tx.Principals(ctx)

		p, err := repo.FindByIdentifier(ctx, identifier)
		if err != nil {
			return fmt.Errorf("error searching principal: %w", err)
		}
		if !auth.VerifySecret(current, p.SecretHash) {
			return ErrIncorrectPassword
		}

		hash, err := s.hasher.Hash(next)
		if err != nil {
			return fmt.Errorf("hash secret: %w", err)
		}
		if err := repo.UpdateSecretHash(ctx, identifier, hash); err != nil {
			return fmt.Errorf("error updating secret: %w", err)
		}
		return nil
	})
}

// ResolveRole reads the current role from the store. Roles are not carried
// in tokens, so a demotion takes effect on the next request.
func (s *PrincipalService) ResolveRole(ctx context.Context, identifier string) (models.Role, error) {
	p, err := s.repomanager.Principals(ctx).FindByIdentifier(ctx, identifier)
	if err != nil {
		return "", fmt.Errorf("error resolving role: %w", err)
	}
	return p.Role, nil
}

// List returns every principal ordered by identifier.
func (s *PrincipalService) List(ctx context.Context) ([]*models.Principal, error) {
	ps, err := s.repomanager.Principals(ctx).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing principals: %w", err)
	}
	return ps, nil
}
