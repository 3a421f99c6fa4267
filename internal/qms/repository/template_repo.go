package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/entity"
	"gorm.io/gorm"
)

// TemplateRepository checklist template store
type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// FindByModule lists template items of one module in declared order
func (r *TemplateRepository) FindByModule(ctx context.Context, moduleType entity.ModuleType) ([]entity.ChecklistTemplateItem, error) {
	var items []entity.ChecklistTemplateItem
	err := r.db.WithContext(ctx).
		Where("module_type = ?", moduleType).
		Order("sort_order ASC, created_at ASC").
		Find(&items).Error
	return items, err
}

// ReplaceModule swaps the whole template of one module in a transaction
func (r *TemplateRepository) ReplaceModule(ctx context.Context, moduleType entity.ModuleType, items []entity.ChecklistTemplateItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("module_type = ?", moduleType).
			Delete(&entity.ChecklistTemplateItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ModuleType = moduleType
			if items[i].ID == "" {
				items[i].ID = uuid.New().String()[:32]
			}
			items[i].SortOrder = i
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}
