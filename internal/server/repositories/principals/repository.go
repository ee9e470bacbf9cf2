// Package principals stores registered account holders.
package principals

import (
	"context"

	"github.com/dmitrijs2005/gophbank/internal/server/models"
)

type Repository interface {
	FindByIdentifier(ctx context.Context, identifier string) (*models.Principal, error)
	FindByNationalID(ctx context.Context, nationalID string) (*models.Principal, error)
	Insert(ctx context.Context, p *models.Principal) error
	UpdateSecretHash(ctx context.Context, identifier, secretHash string) error
	List(ctx context.Context) ([]*models.Principal, error)
}
