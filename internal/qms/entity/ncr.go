package entity

import "time"

// NCR non-conformance record opened against one failing checklist item
type NCR struct {
	ID           string `json:"id" gorm:"primaryKey;size:32"`
	Code         string `json:"code" gorm:"size:32;uniqueIndex"`
	InspectionID string `json:"inspection_id" gorm:"size:32;index"`
	ItemID       string `json:"item_id" gorm:"size:64;index"`

	DefectCode       string   `json:"defect_code,omitempty" gorm:"size:50"` // lookup relation into the defect library
	Severity         Severity `json:"severity" gorm:"size:20;default:MINOR"`
	IssueDescription string   `json:"issue_description" gorm:"type:text;not null"`
	RootCause        string   `json:"root_cause,omitempty" gorm:"type:text"`
	Solution         string   `json:"solution,omitempty" gorm:"type:text"`
	PreventiveAction string   `json:"preventive_action,omitempty" gorm:"type:text"`

	ResponsiblePerson string `json:"responsible_person,omitempty" gorm:"size:100"`
	Deadline          string `json:"deadline,omitempty" gorm:"size:10"` // yyyy-mm-dd

	Status       NCRStatus  `json:"status" gorm:"size:20;default:OPEN"`
	ImagesBefore StringList `json:"images_before" gorm:"type:jsonb"`
	ImagesAfter  StringList `json:"images_after" gorm:"type:jsonb"`

	CreatedBy   string    `json:"created_by,omitempty" gorm:"size:32"`
	ClosedBy    string    `json:"closed_by,omitempty" gorm:"size:32"`
	ClosedDate  string    `json:"closed_date,omitempty" gorm:"size:10"`
	CreatedDate string    `json:"created_date" gorm:"size:10"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (NCR) TableName() string {
	return "qms_ncrs"
}

// NCRStatus remediation state
type NCRStatus string

const (
	NCRStatusOpen       NCRStatus = "OPEN"
	NCRStatusInProgress NCRStatus = "IN_PROGRESS"
	NCRStatusResolved   NCRStatus = "RESOLVED"
	NCRStatusClosed     NCRStatus = "CLOSED"
)

// ValidNCRTransitions remediation flow is strictly linear, no skips
var ValidNCRTransitions = map[NCRStatus][]NCRStatus{
	NCRStatusOpen:       {NCRStatusInProgress},
	NCRStatusInProgress: {NCRStatusResolved},
	NCRStatusResolved:   {NCRStatusClosed},
}

// CanTransitionNCR reports whether from -> to is a legal step
func CanTransitionNCR(from, to NCRStatus) bool {
	for _, next := range ValidNCRTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
