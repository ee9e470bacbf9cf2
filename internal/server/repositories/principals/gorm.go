package principals

import (
	"context"

	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/dmitrijs2005/gophbank/internal/server/models"
	"github.com/dmitrijs2005/gophbank/internal/server/repositories/dberr"
	"gorm.io/gorm"
)

// GormRepository is a Repository backed by any gorm dialect. The handle may
// be a plain session or an open transaction.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.Principal, error) {
	return r.findBy(ctx, "identifier", identifier)
}

func (r *GormRepository) FindByNationalID(ctx context.Context, nationalID string) (*models.Principal, error) {
	return r.findBy(ctx, "national_id", nationalID)
}

func (r *GormRepository) findBy(ctx context.Context, field, value string) (*models.Principal, error) {
	var p models.Principal
	if err := r.db.WithContext(ctx).Where(field+" = ?", value).First(&p).Error; err != nil {
		return nil, dberr.Wrap(err)
	}
	return &p, nil
}

// Insert adds p as a new row. Any clash on identifier, email or national id
// yields common.ErrorConflict and leaves the existing row untouched.
func (r *GormRepository) Insert(ctx context.Context, p *models.Principal) error {
	if p.Role == "" {
		p.Role = models.RoleUser
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return dberr.Wrap(err)
	}
	return nil
}

func (r *GormRepository) UpdateSecretHash(ctx context.Context, identifier, secretHash string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Principal{}).
		Where("identifier = ?", identifier).
		Update("secret_hash", secretHash)
	if res.Error != nil {
		return dberr.Wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *GormRepository) List(ctx context.Context) ([]*models.Principal, error) {
	out := []*models.Principal{}
	if err := r.db.WithContext(ctx).Order("identifier").Find(&out).Error; err != nil {
		return nil, dberr.Wrap(err)
	}
	return out, nil
}
