package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/entity"
	"gorm.io/gorm"
)

// NCRRepository non-conformance report store
type NCRRepository struct {
	db *gorm.DB
}

func NewNCRRepository(db *gorm.DB) *NCRRepository {
	return &NCRRepository{db: db}
}

// FindAll lists NCRs with filters
func (r *NCRRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.NCR, int64, error) {
	var items []entity.NCR
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.NCR{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if severity := filters["severity"]; severity != "" {
		query = query.Where("severity = ?", severity)
	}
	if inspectionID := filters["inspection_id"]; inspectionID != "" {
		query = query.Where("inspection_id = ?", inspectionID)
	}
	if responsible := filters["responsible_person"]; responsible != "" {
		query = query.Where("responsible_person = ?", responsible)
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

// FindByID loads one NCR
func (r *NCRRepository) FindByID(ctx context.Context, id string) (*entity.NCR, error) {
	var ncr entity.NCR
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&ncr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ncr, nil
}

// FindByInspection lists NCRs attached to one inspection
func (r *NCRRepository) FindByInspection(ctx context.Context, inspectionID string) ([]entity.NCR, error) {
	var items []entity.NCR
	err := r.db.WithContext(ctx).
		Where("inspection_id = ?", inspectionID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

// FindByItem loads the NCR bound to one check item, nil when absent
func (r *NCRRepository) FindByItem(ctx context.Context, inspectionID, itemID string) (*entity.NCR, error) {
	var ncr entity.NCR
	err := r.db.WithContext(ctx).
		Where("inspection_id = ? AND item_id = ?", inspectionID, itemID).
		First(&ncr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ncr, nil
}

// Create inserts an NCR
func (r *NCRRepository) Create(ctx context.Context, ncr *entity.NCR) error {
	return r.db.WithContext(ctx).Create(ncr).Error
}

// Update saves the full NCR
func (r *NCRRepository) Update(ctx context.Context, ncr *entity.NCR) error {
	return r.db.WithContext(ctx).Save(ncr).Error
}

// GenerateCode generates an NCR code NCR-{year}-{seq}
func (r *NCRRepository) GenerateCode(ctx context.Context) (string, error) {
	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("NCR-%s-", year)

	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.NCR{}).
		Select("COALESCE(MAX(code), '')").
		Where("code LIKE ?", prefix+"%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, "NCR-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("NCR-%s-%04d", year, seq), nil
}
