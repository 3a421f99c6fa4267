package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/entity"
	"gorm.io/gorm"
)

// DefectRepository standardized defect library store
type DefectRepository struct {
	db *gorm.DB
}

func NewDefectRepository(db *gorm.DB) *DefectRepository {
	return &DefectRepository{db: db}
}

// FindAll lists the whole defect library
func (r *DefectRepository) FindAll(ctx context.Context) ([]entity.DefectLibraryItem, error) {
	var items []entity.DefectLibraryItem
	err := r.db.WithContext(ctx).
		Order("code ASC").
		Find(&items).Error
	return items, err
}

// FindByStage lists library entries bound to one stage
func (r *DefectRepository) FindByStage(ctx context.Context, stage string) ([]entity.DefectLibraryItem, error) {
	var items []entity.DefectLibraryItem
	err := r.db.WithContext(ctx).
		Where("stage = ?", stage).
		Order("code ASC").
		Find(&items).Error
	return items, err
}

// FindByID loads one library entry
func (r *DefectRepository) FindByID(ctx context.Context, id string) (*entity.DefectLibraryItem, error) {
	var item entity.DefectLibraryItem
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create inserts a library entry
func (r *DefectRepository) Create(ctx context.Context, item *entity.DefectLibraryItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()[:32]
	}
	return r.db.WithContext(ctx).Create(item).Error
}

// Update saves a library entry
func (r *DefectRepository) Update(ctx context.Context, item *entity.DefectLibraryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}
