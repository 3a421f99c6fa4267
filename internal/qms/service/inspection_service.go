package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/entity"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/repository"
)

// InspectionService inspection record engine
type InspectionService struct {
	inspectionRepo  *repository.InspectionRepository
	ncrRepo         *repository.NCRRepository
	templateRepo    *repository.TemplateRepository
	activityLogRepo *repository.ActivityLogRepository
}

func NewInspectionService(
	inspectionRepo *repository.InspectionRepository,
	ncrRepo *repository.NCRRepository,
	templateRepo *repository.TemplateRepository,
	activityLogRepo *repository.ActivityLogRepository,
) *InspectionService {
	return &InspectionService{
		inspectionRepo:  inspectionRepo,
		ncrRepo:         ncrRepo,
		templateRepo:    templateRepo,
		activityLogRepo: activityLogRepo,
	}
}

// CreateInspectionReq opens a new draft inspection
type CreateInspectionReq struct {
	ModuleType   entity.ModuleType `json:"module_type" binding:"required"`
	ProjectCode  string            `json:"project_code"`
	ProjectName  string            `json:"project_name"`
	SiteUnitCode string            `json:"site_unit_code"`
	Headcode     string            `json:"headcode"`
	ItemName     string            `json:"item_name"`
	Workshop     string            `json:"workshop"`
	Stage        string            `json:"stage"`
	Location     string            `json:"location"`
	Unit         string            `json:"unit"`
	PlannedQty   float64           `json:"planned_qty"`
	Date         string            `json:"date"`
}

// Create opens a DRAFT record and instantiates the working checklist
// from the module template for the chosen stage.
func (s *InspectionService) Create(ctx context.Context, req CreateInspectionReq, operatorID, operatorName string) (*entity.InspectionRecord, error) {
	if !entity.ValidModule(req.ModuleType) {
		return nil, &ValidationError{Field: "module_type", Message: "unknown inspection module"}
	}

	code, err := s.inspectionRepo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate inspection code: %w", err)
	}

	tpl, err := s.templateRepo.FindByModule(ctx, req.ModuleType)
	if err != nil {
		return nil, fmt.Errorf("load checklist template: %w", err)
	}

	unit := req.Unit
	if unit == "" {
		unit = "PCS"
	}
	date := req.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	record := &entity.InspectionRecord{
		ID:            uuid.New().String()[:32],
		Code:          code,
		ModuleType:    req.ModuleType,
		ProjectCode:   req.ProjectCode,
		ProjectName:   req.ProjectName,
		SiteUnitCode:  req.SiteUnitCode,
		Headcode:      req.Headcode,
		ItemName:      req.ItemName,
		Workshop:      req.Workshop,
		Stage:         req.Stage,
		Location:      req.Location,
		Unit:          unit,
		PlannedQty:    req.PlannedQty,
		Items:         entity.InstantiateChecklist(tpl, req.Stage),
		Status:        entity.InspectionStatusDraft,
		Images:        []string{},
		InspectorID:   operatorID,
		InspectorName: operatorName,
		Date:          date,
	}

	if err := s.inspectionRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("create inspection: %w", err)
	}

	if s.activityLogRepo != nil {
		s.activityLogRepo.LogActivity(ctx, "inspection", record.ID, record.Code,
			"create", "", string(entity.InspectionStatusDraft),
			fmt.Sprintf("Opened %s inspection, stage %s", entity.ModuleLabel(req.ModuleType), req.Stage),
			operatorID, operatorName)
	}
	return record, nil
}

// List lists inspection records with filters and pagination
func (s *InspectionService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.InspectionRecord, int64, error) {
	return s.inspectionRepo.FindAll(ctx, page, pageSize, filters)
}

// Get loads one record and attaches each item's NCR for detail display
func (s *InspectionService) Get(ctx context.Context, id string) (*entity.InspectionRecord, error) {
	record, err := s.inspectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ncrs, err := s.ncrRepo.FindByInspection(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load inspection ncrs: %w", err)
	}
	byItem := make(map[string]*entity.NCR, len(ncrs))
	for i := range ncrs {
		byItem[ncrs[i].ItemID] = &ncrs[i]
	}
	for i := range record.Items {
		if ncr, ok := byItem[record.Items[i].ID]; ok {
			record.Items[i].NCRID = ncr.ID
			record.Items[i].NCR = ncr
		}
	}
	return record, nil
}

// ListHistory prior inspections of the same physical unit, newest first,
// excluding the record currently being edited
func (s *InspectionService) ListHistory(ctx context.Context, siteUnitCode, excludeID string, limit int) ([]entity.InspectionRecord, error) {
	if siteUnitCode == "" {
		return []entity.InspectionRecord{}, nil
	}
	records, err := s.inspectionRepo.FindBySiteUnit(ctx, siteUnitCode, limit)
	if err != nil {
		return nil, err
	}
	out := records[:0]
	for _, r := range records {
		if r.ID == excludeID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// UpdateInspectionReq field-scoped draft update; nil means untouched
type UpdateInspectionReq struct {
	ProjectCode  *string  `json:"project_code"`
	ProjectName  *string  `json:"project_name"`
	SiteUnitCode *string  `json:"site_unit_code"`
	Headcode     *string  `json:"headcode"`
	ItemName     *string  `json:"item_name"`
	Workshop     *string  `json:"workshop"`
	Location     *string  `json:"location"`
	Unit         *string  `json:"unit"`
	PlannedQty   *float64 `json:"planned_qty"`
	Summary      *string  `json:"summary"`
	Date         *string  `json:"date"`

	Signature           *string `json:"signature"`
	ProductionSignature *string `json:"production_signature"`
	ProductionName      *string `json:"production_name"`
	ManagerSignature    *string `json:"manager_signature"`
	ManagerName         *string `json:"manager_name"`

	Images *[]string `json:"images"`
}

// Update applies only the fields present in the request, so a slow
// concurrent save never clobbers fields edited while it was in flight
func (s *InspectionService) Update(ctx context.Context, id string, req UpdateInspectionReq) (*entity.InspectionRecord, error) {
	record, err := s.inspectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status != entity.InspectionStatusDraft {
		return nil, &ValidationError{Field: "status", Message: "submitted inspection is read-only"}
	}

	if req.ProjectCode != nil {
		record.ProjectCode = *req.ProjectCode
	}
	if req.ProjectName != nil {
		record.ProjectName = *req.ProjectName
	}
	if req.SiteUnitCode != nil {
		record.SiteUnitCode = *req.SiteUnitCode
	}
	if req.Headcode != nil {
		record.Headcode = *req.Headcode
	}
	if req.ItemName != nil {
		record.ItemName = *req.ItemName
	}
	if req.Workshop != nil {
		record.Workshop = *req.Workshop
	}
	if req.Location != nil {
		record.Location = *req.Location
	}
	if req.Unit != nil {
		record.Unit = *req.Unit
	}
	if req.PlannedQty != nil {
		record.PlannedQty = *req.PlannedQty
	}
	if req.Summary != nil {
		record.Summary = *req.Summary
	}
	if req.Date != nil {
		record.Date = *req.Date
	}
	if req.Signature != nil {
		record.Signature = *req.Signature
	}
	if req.ProductionSignature != nil {
		record.ProductionSignature = *req.ProductionSignature
	}
	if req.ProductionName != nil {
		record.ProductionName = *req.ProductionName
	}
	if req.ManagerSignature != nil {
		record.ManagerSignature = *req.ManagerSignature
	}
	if req.ManagerName != nil {
		record.ManagerName = *req.ManagerName
	}
	if req.Images != nil {
		record.Images = *req.Images
	}

	if err := s.inspectionRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("update inspection: %w", err)
	}
	return record, nil
}

// SetQuantity applies a single-field quantity edit through the reconciler
func (s *InspectionService) SetQuantity(ctx context.Context, id string, field entity.QuantityField, value float64) (*entity.InspectionRecord, error) {
	switch field {
	case entity.QuantityInspected, entity.QuantityPassed, entity.QuantityFailed:
	default:
		return nil, &ValidationError{Field: "field", Message: "unknown quantity field"}
	}

	record, err := s.inspectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status != entity.InspectionStatusDraft {
		return nil, &ValidationError{Field: "status", Message: "submitted inspection is read-only"}
	}

	record.SetQuantities(entity.ReconcileQuantities(record.Quantities(), field, value))

	if err := s.inspectionRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("update quantities: %w", err)
	}
	return record, nil
}

// SetItemReq single-field edit on one working checklist item
type SetItemReq struct {
	Field string      `json:"field" binding:"required"` // status/notes/images
	Value interface{} `json:"value"`
}

// ItemUpdateResult carries the needs-NCR follow-up signal alongside the record
type ItemUpdateResult struct {
	Record   *entity.InspectionRecord `json:"record"`
	NeedsNCR bool                     `json:"needs_ncr"`
	ItemID   string                   `json:"item_id,omitempty"`
}

// SetItemField replaces one field on the matching item by identity.
// Setting status to FAIL on an item with no NCR flags the required
// NCR follow-up; repeating the edit does not create anything, so the
// signal stays idempotent until an NCR is actually saved.
func (s *InspectionService) SetItemField(ctx context.Context, id, itemID string, req SetItemReq) (*ItemUpdateResult, error) {
	record, err := s.inspectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status != entity.InspectionStatusDraft {
		return nil, &ValidationError{Field: "status", Message: "submitted inspection is read-only"}
	}

	idx := -1
	for i := range record.Items {
		if record.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, repository.ErrNotFound
	}

	needsNCR := false
	item := &record.Items[idx]
	switch req.Field {
	case "status":
		str, ok := req.Value.(string)
		if !ok {
			return nil, &ValidationError{Field: "value", Message: "status must be a string"}
		}
		status := entity.CheckStatus(str)
		if !entity.ValidCheckStatus(status) {
			return nil, &ValidationError{Field: "value", Message: "unknown check status"}
		}
		item.Status = status
		if status == entity.CheckStatusFail && item.NCRID == "" {
			needsNCR = true
		}
	case "notes":
		str, ok := req.Value.(string)
		if !ok {
			return nil, &ValidationError{Field: "value", Message: "notes must be a string"}
		}
		item.Notes = str
	case "images":
		raw, ok := req.Value.([]interface{})
		if !ok {
			return nil, &ValidationError{Field: "value", Message: "images must be a string list"}
		}
		images := make([]string, 0, len(raw))
		for _, v := range raw {
			str, ok := v.(string)
			if !ok {
				return nil, &ValidationError{Field: "value", Message: "images must be a string list"}
			}
			images = append(images, str)
		}
		item.Images = images
	default:
		return nil, &ValidationError{Field: "field", Message: "unknown item field"}
	}

	if err := s.inspectionRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return &ItemUpdateResult{Record: record, NeedsNCR: needsNCR, ItemID: itemID}, nil
}

// AddItemReq manual checklist extension when the template has no rows
type AddItemReq struct {
	Label    string `json:"label" binding:"required"`
	Category string `json:"category"`
	Standard string `json:"standard"`
	Method   string `json:"method"`
}

// AddItem appends a user-supplied PENDING item for the current stage
func (s *InspectionService) AddItem(ctx context.Context, id string, req AddItemReq) (*entity.InspectionRecord, error) {
	record, err := s.inspectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status != entity.InspectionStatusDraft {
		return nil, &ValidationError{Field: "status", Message: "submitted inspection is read-only"}
	}

	record.Items = append(record.Items, entity.CheckItem{
		ID:       uuid.New().String()[:32],
		Stage:    record.Stage,
		Category: req.Category,
		Label:    req.Label,
		Standard: req.Standard,
		Method:   req.Method,
		Status:   entity.CheckStatusPending,
		Images:   []string{},
	})

	if err := s.inspectionRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("add item: %w", err)
	}
	return record, nil
}

// ChangeStage discards the working checklist and re-instantiates it from
// the template for the new stage. Destructive and explicit; never reached
// through unrelated field edits.
func (s *InspectionService) ChangeStage(ctx context.Context, id, stage string) (*entity.InspectionRecord, error) {
	record, err := s.inspectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status != entity.InspectionStatusDraft {
		return nil, &ValidationError{Field: "status", Message: "submitted inspection is read-only"}
	}
	if stage == record.Stage {
		return record, nil
	}

	tpl, err := s.templateRepo.FindByModule(ctx, record.ModuleType)
	if err != nil {
		return nil, fmt.Errorf("load checklist template: %w", err)
	}

	record.Stage = stage
	record.Items = entity.InstantiateChecklist(tpl, stage)

	if err := s.inspectionRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("change stage: %w", err)
	}
	return record, nil
}

// Submit derives the record status from its items and freezes it.
// Items of an abandoned stage are dropped before persisting. On a
// persistence error the caller keeps the full draft for retry.
func (s *InspectionService) Submit(ctx context.Context, id, operatorID, operatorName string) (*entity.InspectionRecord, error) {
	record, err := s.inspectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status != entity.InspectionStatusDraft {
		return nil, &ValidationError{Field: "status", Message: "inspection already submitted"}
	}
	if record.ProjectCode == "" {
		return nil, &ValidationError{Field: "project_code", Message: "project code is required"}
	}
	if record.Stage == "" {
		return nil, &ValidationError{Field: "stage", Message: "stage is required"}
	}

	fromStatus := record.Status
	record.Items = entity.StageItems(record.Items, record.Stage)

	next := entity.InspectionStatusPending
	if entity.HasIssues(record.Items) {
		next = entity.InspectionStatusFlagged
	}
	record.Status = next
	record.Score = entity.ComputeScore(record.Quantities(), record.Items)

	if err := s.inspectionRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("submit inspection: %w", err)
	}

	if s.activityLogRepo != nil {
		s.activityLogRepo.LogActivity(ctx, "inspection", record.ID, record.Code,
			"submit", string(fromStatus), string(next),
			fmt.Sprintf("Submitted with %d items, score %d", len(record.Items), record.Score),
			operatorID, operatorName)
	}
	return record, nil
}

// ApproveReq reviewer sign-off
type ApproveReq struct {
	Completed        bool   `json:"completed"`
	ManagerSignature string `json:"manager_signature"`
	ManagerName      string `json:"manager_name"`
}

// Approve reviewer transition out of the submitted states, recording the
// manager sign-off on the record
func (s *InspectionService) Approve(ctx context.Context, id string, req ApproveReq, operatorID, operatorName string) (*entity.InspectionRecord, error) {
	record, err := s.inspectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status != entity.InspectionStatusPending && record.Status != entity.InspectionStatusFlagged {
		return nil, &TransitionError{From: string(record.Status), To: string(entity.InspectionStatusApproved)}
	}

	fromStatus := record.Status
	record.Status = entity.InspectionStatusApproved
	if req.Completed {
		record.Status = entity.InspectionStatusCompleted
	}
	if req.ManagerSignature != "" {
		record.ManagerSignature = req.ManagerSignature
	}
	record.ManagerName = req.ManagerName
	if record.ManagerName == "" {
		record.ManagerName = operatorName
	}

	if err := s.inspectionRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("approve inspection: %w", err)
	}

	if s.activityLogRepo != nil {
		s.activityLogRepo.LogActivity(ctx, "inspection", record.ID, record.Code,
			"approve", string(fromStatus), string(record.Status), "", operatorID, operatorName)
	}
	return record, nil
}

// IsNotFound reports whether err is the repository miss sentinel
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
