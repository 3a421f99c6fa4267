package entity

import "time"

// PlanItem production plan line, the registry inspections are opened against
type PlanItem struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	Headcode     string    `json:"headcode" gorm:"size:20;index"`
	SiteUnitCode string    `json:"site_unit_code" gorm:"size:20;index"`
	ProjectCode  string    `json:"project_code" gorm:"size:50"`
	ProjectName  string    `json:"project_name" gorm:"size:200"`
	ItemName     string    `json:"item_name" gorm:"size:200"`
	Unit         string    `json:"unit" gorm:"size:20;default:PCS"`
	PlannedQty   float64   `json:"planned_qty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (PlanItem) TableName() string {
	return "qms_plans"
}
