// Package transactions stores transaction records.
package transactions

import (
	"context"

	"github.com/dmitrijs2005/gophbank/internal/server/models"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	FindByID(ctx context.Context, id int64) (*models.Transaction, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Transaction, error)
	ListAll(ctx context.Context) ([]*models.Transaction, error)
	Update(ctx context.Context, id int64, amount decimal.Decimal, accountType models.AccountType) error
	Delete(ctx context.Context, id int64) error
}
