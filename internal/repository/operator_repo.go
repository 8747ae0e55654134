package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/spc-registrar/records-api/internal/models"
)

// OperatorRepository provides access to operator accounts.
type OperatorRepository interface {
	Create(ctx context.Context, operator *models.Operator) error
	GetByID(ctx context.Context, id uint) (models.Operator, error)
	FindByUsername(ctx context.Context, username string) (models.Operator, error)
	Count(ctx context.Context) (int64, error)
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
}

type operatorRepository struct {
	db *gorm.DB
}

// NewOperatorRepository constructs an operator repository.
func NewOperatorRepository(db *gorm.DB) OperatorRepository {
	return &operatorRepository{db: db}
}

func (r *operatorRepository) Create(ctx context.Context, operator *models.Operator) error {
	return r.db.WithContext(ctx).Create(operator).Error
}

func (r *operatorRepository) GetByID(ctx context.Context, id uint) (models.Operator, error) {
	var operator models.Operator
	if err := r.db.WithContext(ctx).First(&operator, id).Error; err != nil {
		return models.Operator{}, err
	}

	return operator, nil
}

func (r *operatorRepository) FindByUsername(ctx context.Context, username string) (models.Operator, error) {
	var operator models.Operator
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&operator).Error; err != nil {
		return models.Operator{}, err
	}

	return operator, nil
}

func (r *operatorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Operator{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *operatorRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Operator{}).
		Where("id = ?", id).
		Update("last_login", at).Error
}

func (r *operatorRepository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	update := r.db.WithContext(ctx).Model(&models.Operator{}).
		Where("id = ?", id).
		Update("password", hash)
	if update.Error != nil {
		return update.Error
	}
	if update.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
