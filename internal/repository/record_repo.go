package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/spc-registrar/records-api/internal/models"
)

// RecordFilter narrows a record listing. An empty Status means no status
// filter; the `All` value used by clients is normalized away before it
// reaches the repository.
type RecordFilter struct {
	Search string
	Status models.RecordStatus
}

// StatusCount is one row of the per-status tally.
type StatusCount struct {
	Status models.RecordStatus
	Count  int64
}

// MonthCount is the number of records created in one calendar month
// (YYYY-MM).
type MonthCount struct {
	Month string
	Count int64
}

// RecordRepository exposes persistence helpers for student records. Every
// operation is scoped to the owning operator; rows belonging to another
// operator behave as if they do not exist.
type RecordRepository interface {
	Create(ctx context.Context, record *models.StudentRecord) error
	GetByID(ctx context.Context, ownerID, id uint) (models.StudentRecord, error)
	Update(ctx context.Context, ownerID, id uint, updates map[string]interface{}) (models.StudentRecord, error)
	Delete(ctx context.Context, ownerID, id uint) error
	List(ctx context.Context, ownerID uint, filter RecordFilter) ([]models.StudentRecord, error)
	Count(ctx context.Context, ownerID uint) (int64, error)
	CountByStatus(ctx context.Context, ownerID uint) ([]StatusCount, error)
	CountByMonth(ctx context.Context, ownerID uint, months int) ([]MonthCount, error)
}

type recordRepository struct {
	db *gorm.DB
}

// NewRecordRepository constructs a student record repository.
func NewRecordRepository(db *gorm.DB) RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) Create(ctx context.Context, record *models.StudentRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *recordRepository) GetByID(ctx context.Context, ownerID, id uint) (models.StudentRecord, error) {
	var record models.StudentRecord
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&record).Error
	if err != nil {
		return models.StudentRecord{}, err
	}

	return record, nil
}

func (r *recordRepository) Update(ctx context.Context, ownerID, id uint, updates map[string]interface{}) (models.StudentRecord, error) {
	tx := r.db.WithContext(ctx).Model(&models.StudentRecord{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(updates)
	if tx.Error != nil {
		return models.StudentRecord{}, tx.Error
	}
	if tx.RowsAffected == 0 {
		return models.StudentRecord{}, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, ownerID, id)
}

func (r *recordRepository) Delete(ctx context.Context, ownerID, id uint) error {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.StudentRecord{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *recordRepository) List(ctx context.Context, ownerID uint, filter RecordFilter) ([]models.StudentRecord, error) {
	query := r.db.WithContext(ctx).Model(&models.StudentRecord{}).
		Where("owner_id = ?", ownerID)

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(username) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(middle_name) LIKE ? OR LOWER(last_name) LIKE ?",
			like, like, like, like, like,
		)
	}

	if filter.Status != "" {
		query = query.Where("category = ?", filter.Status)
	}

	// Revisions disagreed between updated_at and id ordering; id-descending
	// is canonical per the latest revision.
	var records []models.StudentRecord
	if err := query.Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *recordRepository) Count(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StudentRecord{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *recordRepository) CountByStatus(ctx context.Context, ownerID uint) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.WithContext(ctx).Model(&models.StudentRecord{}).
		Select("category AS status, COUNT(*) AS count").
		Where("owner_id = ?", ownerID).
		Group("category").
		Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *recordRepository) CountByMonth(ctx context.Context, ownerID uint, months int) ([]MonthCount, error) {
	if months <= 0 {
		months = 6
	}

	var counts []MonthCount
	err := r.db.WithContext(ctx).Model(&models.StudentRecord{}).
		Select("strftime('%Y-%m', created_at) AS month, COUNT(*) AS count").
		Where("owner_id = ?", ownerID).
		Group("month").
		Order("month DESC").
		Limit(months).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	return counts, nil
}
