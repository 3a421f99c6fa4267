package entity

import (
	"math"
	"time"
)

// CheckItem working copy of a template item inside one inspection.
// Minted with a fresh id at instantiation so edits never touch the template.
type CheckItem struct {
	ID       string      `json:"id"`
	Stage    string      `json:"stage,omitempty"` // empty = applies to every stage
	Category string      `json:"category"`
	Label    string      `json:"label"`
	Standard string      `json:"standard,omitempty"`
	Method   string      `json:"method,omitempty"`
	Status   CheckStatus `json:"status"`
	Notes    string      `json:"notes,omitempty"`
	Images   []string    `json:"images,omitempty"`
	NCRID    string      `json:"ncr_id,omitempty"`

	// filled on detail reads, never stored in the items column
	NCR *NCR `json:"ncr,omitempty"`
}

// InspectionRecord one inspection session for a unit at a production stage
type InspectionRecord struct {
	ID         string     `json:"id" gorm:"primaryKey;size:32"`
	Code       string     `json:"code" gorm:"size:32;uniqueIndex"`
	ModuleType ModuleType `json:"module_type" gorm:"size:20;index"`

	ProjectCode  string `json:"project_code" gorm:"size:50;index"`
	ProjectName  string `json:"project_name" gorm:"size:200"`
	SiteUnitCode string `json:"site_unit_code" gorm:"size:50;index"` // factory code of the physical unit
	Headcode     string `json:"headcode" gorm:"size:50"`
	ItemName     string `json:"item_name" gorm:"size:200"`
	Workshop     string `json:"workshop" gorm:"size:100"`
	Stage        string `json:"stage" gorm:"size:100"`
	Location     string `json:"location" gorm:"size:200"`

	Unit              string  `json:"unit" gorm:"size:10;default:PCS"`
	PlannedQty        float64 `json:"planned_qty"`
	InspectedQuantity float64 `json:"inspected_quantity"`
	PassedQuantity    float64 `json:"passed_quantity"`
	FailedQuantity    float64 `json:"failed_quantity"`

	Items  CheckItemList    `json:"items" gorm:"type:jsonb"`
	Status InspectionStatus `json:"status" gorm:"size:20;default:DRAFT"`
	Score  int              `json:"score"`

	Images              StringList `json:"images" gorm:"type:jsonb"`
	Signature           string     `json:"signature,omitempty" gorm:"type:text"`
	ProductionSignature string     `json:"production_signature,omitempty" gorm:"type:text"`
	ProductionName      string     `json:"production_name,omitempty" gorm:"size:100"`
	ManagerSignature    string     `json:"manager_signature,omitempty" gorm:"type:text"`
	ManagerName         string     `json:"manager_name,omitempty" gorm:"size:100"`
	Summary             string     `json:"summary,omitempty" gorm:"type:text"`

	InspectorID   string    `json:"inspector_id" gorm:"size:32;index"`
	InspectorName string    `json:"inspector_name" gorm:"size:100"`
	Date          string    `json:"date" gorm:"size:10"` // yyyy-mm-dd
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (InspectionRecord) TableName() string {
	return "qms_inspections"
}

// QuantityField which of the three mutually constrained quantities was edited
type QuantityField string

const (
	QuantityInspected QuantityField = "inspected"
	QuantityPassed    QuantityField = "passed"
	QuantityFailed    QuantityField = "failed"
)

// Quantities the reconciled triple; inspected == passed + failed always holds
type Quantities struct {
	Inspected float64 `json:"inspected"`
	Passed    float64 `json:"passed"`
	Failed    float64 `json:"failed"`
}

// ReconcileQuantities applies a single-field edit. Last edited field wins,
// the third is recomputed and clamped at zero.
func ReconcileQuantities(q Quantities, field QuantityField, value float64) Quantities {
	if value < 0 {
		value = 0
	}
	switch field {
	case QuantityInspected:
		q.Inspected = value
		q.Passed = math.Max(0, q.Inspected-q.Failed)
		q.Failed = q.Inspected - q.Passed
	case QuantityPassed:
		q.Passed = value
		q.Failed = math.Max(0, q.Inspected-q.Passed)
		q.Passed = q.Inspected - q.Failed
	case QuantityFailed:
		q.Failed = value
		q.Passed = math.Max(0, q.Inspected-q.Failed)
		q.Failed = q.Inspected - q.Passed
	}
	return q
}

// PassRate percentage passed, one decimal, 0 when nothing inspected.
// Display-only; never written back into the quantities.
func (q Quantities) PassRate() float64 {
	if q.Inspected <= 0 {
		return 0
	}
	return math.Round(q.Passed/q.Inspected*1000) / 10
}

// DefectRate percentage failed, one decimal, 0 when nothing inspected
func (q Quantities) DefectRate() float64 {
	if q.Inspected <= 0 {
		return 0
	}
	return math.Round(q.Failed/q.Inspected*1000) / 10
}

// Quantities returns the record's reconciled triple
func (r *InspectionRecord) Quantities() Quantities {
	return Quantities{
		Inspected: r.InspectedQuantity,
		Passed:    r.PassedQuantity,
		Failed:    r.FailedQuantity,
	}
}

// SetQuantities writes a reconciled triple back onto the record
func (r *InspectionRecord) SetQuantities(q Quantities) {
	r.InspectedQuantity = q.Inspected
	r.PassedQuantity = q.Passed
	r.FailedQuantity = q.Failed
}

// StageItems items belonging to the given stage. Items with an empty stage
// apply everywhere and are always kept.
func StageItems(items []CheckItem, stage string) []CheckItem {
	kept := make([]CheckItem, 0, len(items))
	for _, it := range items {
		if it.Stage == "" || it.Stage == stage {
			kept = append(kept, it)
		}
	}
	return kept
}

// HasIssues true when any item is FAIL or CONDITIONAL
func HasIssues(items []CheckItem) bool {
	for _, it := range items {
		if it.Status.IsIssue() {
			return true
		}
	}
	return false
}

// ComputeScore pass percentage from quantities when any quantity was
// inspected, otherwise the share of PASS items.
func ComputeScore(q Quantities, items []CheckItem) int {
	if q.Inspected > 0 {
		return int(math.Round(q.Passed / q.Inspected * 100))
	}
	if len(items) == 0 {
		return 0
	}
	passed := 0
	for _, it := range items {
		if it.Status == CheckStatusPass {
			passed++
		}
	}
	return int(math.Round(float64(passed) / float64(len(items)) * 100))
}
