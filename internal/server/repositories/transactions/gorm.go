package transactions

import (
	"context"

	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/dmitrijs2005/gophbank/internal/server/models"
	"github.com/dmitrijs2005/gophbank/internal/server/repositories/dberr"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Create inserts tx and fills in its generated ID and CreatedAt.
func (r *GormRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return dberr.Wrap(err)
	}
	return nil
}

func (r *GormRepository) FindByID(ctx context.Context, id int64) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tx).Error; err != nil {
		return nil, dberr.Wrap(err)
	}
	return &tx, nil
}

func (r *GormRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Transaction, error) {
	return r.list(r.db.WithContext(ctx).Where("owner_id = ?", ownerID))
}

func (r *GormRepository) ListAll(ctx context.Context) ([]*models.Transaction, error) {
	return r.list(r.db.WithContext(ctx))
}

func (r *GormRepository) list(q *gorm.DB) ([]*models.Transaction, error) {
	out := []*models.Transaction{}
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, dberr.Wrap(err)
	}
	return out, nil
}

func (r *GormRepository) Update(ctx context.Context, id int64, amount decimal.Decimal, accountType models.AccountType) error {
	res := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]any{"amount": amount, "account_type": accountType})
	if res.Error != nil {
		return dberr.Wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Transaction{})
	if res.Error != nil {
		return dberr.Wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrorNotFound
	}
	return nil
}
