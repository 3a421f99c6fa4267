package entity

// CheckStatus result of a single checklist item
type CheckStatus string

const (
	CheckStatusPending     CheckStatus = "PENDING"
	CheckStatusPass        CheckStatus = "PASS"
	CheckStatusFail        CheckStatus = "FAIL"
	CheckStatusConditional CheckStatus = "CONDITIONAL"
)

// CheckStatusLabel display label (vi)
func CheckStatusLabel(s CheckStatus) string {
	switch s {
	case CheckStatusPass:
		return "Đạt"
	case CheckStatusFail:
		return "Hỏng"
	case CheckStatusConditional:
		return "Có điều kiện"
	default:
		return "Chưa kiểm"
	}
}

// IsIssue FAIL and CONDITIONAL both flag the record on submit.
// Only FAIL forces an NCR.
func (s CheckStatus) IsIssue() bool {
	return s == CheckStatusFail || s == CheckStatusConditional
}

// ValidCheckStatus reports whether s is a known check status
func ValidCheckStatus(s CheckStatus) bool {
	switch s {
	case CheckStatusPending, CheckStatusPass, CheckStatusFail, CheckStatusConditional:
		return true
	}
	return false
}

// InspectionStatus lifecycle of an inspection record
type InspectionStatus string

const (
	InspectionStatusDraft     InspectionStatus = "DRAFT"
	InspectionStatusPending   InspectionStatus = "PENDING"
	InspectionStatusFlagged   InspectionStatus = "FLAGGED"
	InspectionStatusApproved  InspectionStatus = "APPROVED"
	InspectionStatusCompleted InspectionStatus = "COMPLETED"
)

// InspectionStatusLabel display label (vi)
func InspectionStatusLabel(s InspectionStatus) string {
	switch s {
	case InspectionStatusDraft:
		return "Bản nháp"
	case InspectionStatusPending:
		return "Chờ duyệt"
	case InspectionStatusFlagged:
		return "Có lỗi"
	case InspectionStatusApproved:
		return "Đã duyệt"
	case InspectionStatusCompleted:
		return "Hoàn thành"
	default:
		return string(s)
	}
}

// Severity defect severity
type Severity string

const (
	SeverityMinor    Severity = "MINOR"
	SeverityMajor    Severity = "MAJOR"
	SeverityCritical Severity = "CRITICAL"
)

// ModuleType inspection module (which QC process owns the record)
type ModuleType string

const (
	ModuleIQC    ModuleType = "IQC"     // incoming material
	ModuleSQCMat ModuleType = "SQC_MAT" // outsourced material
	ModuleSQCBTP ModuleType = "SQC_BTP" // outsourced semi-finished
	ModulePQC    ModuleType = "PQC"     // in-production
	ModuleFSR    ModuleType = "FSR"     // first sample review
	ModuleFQC    ModuleType = "FQC"     // final
	ModuleSPR    ModuleType = "SPR"     // sample check
	ModuleSITE   ModuleType = "SITE"    // on-site installation
)

// ValidModule reports whether m is a known inspection module
func ValidModule(m ModuleType) bool {
	switch m {
	case ModuleIQC, ModuleSQCMat, ModuleSQCBTP, ModulePQC, ModuleFSR, ModuleFQC, ModuleSPR, ModuleSITE:
		return true
	}
	return false
}

// ModuleLabel display label (vi)
func ModuleLabel(m ModuleType) string {
	switch m {
	case ModuleIQC:
		return "IQC - Vật Liệu Đầu Vào"
	case ModuleSQCMat:
		return "SQC - Gia Công Ngoài - Vật Tư"
	case ModuleSQCBTP:
		return "SQC - Gia Công Ngoài - BTP"
	case ModulePQC:
		return "PQC - Kiểm tra Sản xuất"
	case ModuleFSR:
		return "FSR - Mẫu Đầu Tiên"
	case ModuleFQC:
		return "FQC - Final"
	case ModuleSPR:
		return "SPR - Kiểm Mẫu"
	case ModuleSITE:
		return "Site - Công trình"
	default:
		return string(m)
	}
}
