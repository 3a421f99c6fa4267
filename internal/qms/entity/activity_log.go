package entity

import "time"

// ActivityLog audit trail for inspections and NCRs
type ActivityLog struct {
	ID         string `json:"id" gorm:"primaryKey;size:32"`
	EntityType string `json:"entity_type" gorm:"size:50;not null;index:idx_qms_activity_entity"` // inspection/ncr/template
	EntityID   string `json:"entity_id" gorm:"size:32;not null;index:idx_qms_activity_entity"`
	EntityCode string `json:"entity_code" gorm:"size:50"`

	Action     string `json:"action" gorm:"size:50;not null"` // create/submit/status_change/approve/ncr_open
	FromStatus string `json:"from_status" gorm:"size:20"`
	ToStatus   string `json:"to_status" gorm:"size:20"`

	Content     string `json:"content" gorm:"type:text"`
	Attachments JSONB  `json:"attachments" gorm:"type:jsonb"` // [{name, url, size}]
	Metadata    JSONB  `json:"metadata" gorm:"type:jsonb"`

	OperatorID   string    `json:"operator_id" gorm:"size:32"`
	OperatorName string    `json:"operator_name" gorm:"size:100"`
	CreatedAt    time.Time `json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "qms_activity_logs"
}
