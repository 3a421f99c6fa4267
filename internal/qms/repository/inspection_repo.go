package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/entity"
	"gorm.io/gorm"
)

// InspectionRepository inspection record store
type InspectionRepository struct {
	db *gorm.DB
}

func NewInspectionRepository(db *gorm.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

// FindAll lists inspection records with filters
func (r *InspectionRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.InspectionRecord, int64, error) {
	var items []entity.InspectionRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.InspectionRecord{})

	if moduleType := filters["module_type"]; moduleType != "" {
		query = query.Where("module_type = ?", moduleType)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if projectCode := filters["project_code"]; projectCode != "" {
		query = query.Where("project_code = ?", projectCode)
	}
	if siteUnitCode := filters["site_unit_code"]; siteUnitCode != "" {
		query = query.Where("site_unit_code = ?", siteUnitCode)
	}
	if headcode := filters["headcode"]; headcode != "" {
		query = query.Where("headcode = ?", headcode)
	}
	if stage := filters["stage"]; stage != "" {
		query = query.Where("stage = ?", stage)
	}
	if inspector := filters["inspector_id"]; inspector != "" {
		query = query.Where("inspector_id = ?", inspector)
	}
	if dateFrom := filters["date_from"]; dateFrom != "" {
		query = query.Where("date >= ?", dateFrom)
	}
	if dateTo := filters["date_to"]; dateTo != "" {
		query = query.Where("date <= ?", dateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID loads one inspection record
func (r *InspectionRepository) FindByID(ctx context.Context, id string) (*entity.InspectionRecord, error) {
	var record entity.InspectionRecord
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindBySiteUnit lists prior inspections of one production unit, newest first
func (r *InspectionRepository) FindBySiteUnit(ctx context.Context, siteUnitCode string, limit int) ([]entity.InspectionRecord, error) {
	var items []entity.InspectionRecord
	query := r.db.WithContext(ctx).
		Where("site_unit_code = ?", siteUnitCode).
		Order("date DESC, created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&items).Error
	return items, err
}

// Create inserts an inspection record
func (r *InspectionRepository) Create(ctx context.Context, record *entity.InspectionRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// Update saves the full inspection record
func (r *InspectionRepository) Update(ctx context.Context, record *entity.InspectionRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// GenerateCode generates an inspection code QC-{year}-{seq}
func (r *InspectionRepository) GenerateCode(ctx context.Context) (string, error) {
	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("QC-%s-", year)

	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.InspectionRecord{}).
		Select("COALESCE(MAX(code), '')").
		Where("code LIKE ?", prefix+"%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, "QC-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("QC-%s-%04d", year, seq), nil
}
