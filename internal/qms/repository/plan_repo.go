package repository

import (
	"context"
	"errors"

	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/entity"
	"gorm.io/gorm"
)

// PlanRepository production plan registry
type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// FindByHeadcode exact headcode match
func (r *PlanRepository) FindByHeadcode(ctx context.Context, headcode string) (*entity.PlanItem, error) {
	var item entity.PlanItem
	err := r.db.WithContext(ctx).
		Where("headcode = ?", headcode).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindBySiteUnitCode exact factory code match
func (r *PlanRepository) FindBySiteUnitCode(ctx context.Context, code string) (*entity.PlanItem, error) {
	var item entity.PlanItem
	err := r.db.WithContext(ctx).
		Where("site_unit_code = ?", code).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByPartialCode first plan line whose codes contain the fragment
func (r *PlanRepository) FindByPartialCode(ctx context.Context, fragment string) (*entity.PlanItem, error) {
	var item entity.PlanItem
	like := "%" + fragment + "%"
	err := r.db.WithContext(ctx).
		Where("headcode LIKE ? OR site_unit_code LIKE ?", like, like).
		Order("created_at ASC").
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create inserts a plan line
func (r *PlanRepository) Create(ctx context.Context, item *entity.PlanItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}
