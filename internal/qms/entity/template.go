package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChecklistTemplateItem reference checklist row owned by a module.
// Read-only to the engine; edited only through template administration.
type ChecklistTemplateItem struct {
	ID         string     `json:"id" gorm:"primaryKey;size:32"`
	ModuleType ModuleType `json:"module_type" gorm:"size:20;index;not null"`
	Stage      string     `json:"stage,omitempty" gorm:"size:100"` // empty = every stage
	Category   string     `json:"category" gorm:"size:100;not null"`
	Label      string     `json:"label" gorm:"size:300;not null"`
	Standard   string     `json:"standard,omitempty" gorm:"size:300"`
	Method     string     `json:"method,omitempty" gorm:"size:100"`
	SortOrder  int        `json:"sort_order" gorm:"default:0"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (ChecklistTemplateItem) TableName() string {
	return "qms_checklist_templates"
}

// InstantiateChecklist builds the working checklist for a stage: copy the
// matching template rows, mint fresh ids, reset status to PENDING. The
// returned items never alias the template.
func InstantiateChecklist(tpl []ChecklistTemplateItem, stage string) []CheckItem {
	items := make([]CheckItem, 0, len(tpl))
	for _, t := range tpl {
		if t.Stage != "" && t.Stage != stage {
			continue
		}
		items = append(items, CheckItem{
			ID:       uuid.New().String()[:32],
			Stage:    t.Stage,
			Category: t.Category,
			Label:    t.Label,
			Standard: t.Standard,
			Method:   t.Method,
			Status:   CheckStatusPending,
			Notes:    "",
			Images:   []string{},
		})
	}
	return items
}
