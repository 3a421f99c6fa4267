package entity

import "time"

// DefectLibraryItem standardized defect definition used to pre-fill NCRs
type DefectLibraryItem struct {
	ID              string    `json:"id" gorm:"primaryKey;size:32"`
	Code            string    `json:"code" gorm:"size:50;uniqueIndex;not null"`
	Name            string    `json:"name" gorm:"size:200;not null"`
	Stage           string    `json:"stage" gorm:"size:100;index"`
	Category        string    `json:"category,omitempty" gorm:"size:100"`
	Description     string    `json:"description" gorm:"type:text"`
	Severity        Severity  `json:"severity" gorm:"size:20;default:MINOR"`
	SuggestedAction string    `json:"suggested_action,omitempty" gorm:"type:text"`
	CreatedBy       string    `json:"created_by,omitempty" gorm:"size:32"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (DefectLibraryItem) TableName() string {
	return "qms_defect_library"
}
