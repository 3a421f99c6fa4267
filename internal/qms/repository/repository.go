package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories QMS repository set
type Repositories struct {
	Inspection  *InspectionRepository
	NCR         *NCRRepository
	Template    *TemplateRepository
	Defect      *DefectRepository
	Plan        *PlanRepository
	ActivityLog *ActivityLogRepository
}

// NewRepositories wires all QMS repositories on one DB handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Inspection:  NewInspectionRepository(db),
		NCR:         NewNCRRepository(db),
		Template:    NewTemplateRepository(db),
		Defect:      NewDefectRepository(db),
		Plan:        NewPlanRepository(db),
		ActivityLog: NewActivityLogRepository(db),
	}
}
