package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/entity"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/repository"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/shared/aiassist"
)

// NCRService non-conformance sub-workflow
type NCRService struct {
	ncrRepo         *repository.NCRRepository
	inspectionRepo  *repository.InspectionRepository
	defectRepo      *repository.DefectRepository
	activityLogRepo *repository.ActivityLogRepository
	aiClient        *aiassist.Client
}

func NewNCRService(
	ncrRepo *repository.NCRRepository,
	inspectionRepo *repository.InspectionRepository,
	defectRepo *repository.DefectRepository,
	activityLogRepo *repository.ActivityLogRepository,
) *NCRService {
	return &NCRService{
		ncrRepo:         ncrRepo,
		inspectionRepo:  inspectionRepo,
		defectRepo:      defectRepo,
		activityLogRepo: activityLogRepo,
	}
}

// SetAIClient injects the suggestion collaborator
func (s *NCRService) SetAIClient(client *aiassist.Client) {
	s.aiClient = client
}

// SaveNCRReq NCR draft from the inspector dialog
type SaveNCRReq struct {
	DefectCode        string          `json:"defect_code"`
	Severity          entity.Severity `json:"severity"`
	IssueDescription  string          `json:"issue_description" binding:"required"`
	RootCause         string          `json:"root_cause"`
	Solution          string          `json:"solution"`
	PreventiveAction  string          `json:"preventive_action"`
	ResponsiblePerson string          `json:"responsible_person"`
	Deadline          string          `json:"deadline"`
	ImagesBefore      []string        `json:"images_before"`
	ImagesAfter       []string        `json:"images_after"`
}

// CreateOrUpdate saves the NCR of one failing check item. An existing NCR
// is updated in place, keeping its id, code and created date; a missing one
// is minted fresh. Saving always forces the parent item to FAIL, so only
// a draft inspection accepts it.
func (s *NCRService) CreateOrUpdate(ctx context.Context, inspectionID, itemID string, req SaveNCRReq, operatorID, operatorName string) (*entity.NCR, error) {
	if req.IssueDescription == "" {
		return nil, &ValidationError{Field: "issue_description", Message: "issue description is required"}
	}

	record, err := s.inspectionRepo.FindByID(ctx, inspectionID)
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

	severity := req.Severity
	if severity == "" {
		severity = entity.SeverityMinor
	}

	existing, err := s.ncrRepo.FindByItem(ctx, inspectionID, itemID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("load ncr: %w", err)
	}

	var ncr *entity.NCR
	created := existing == nil
	if created {
		code, err := s.ncrRepo.GenerateCode(ctx)
		if err != nil {
			return nil, fmt.Errorf("generate ncr code: %w", err)
		}
		ncr = &entity.NCR{
			ID:           uuid.New().String()[:32],
			Code:         code,
			InspectionID: inspectionID,
			ItemID:       itemID,
			Status:       entity.NCRStatusOpen,
			CreatedBy:    operatorID,
			CreatedDate:  time.Now().Format("2006-01-02"),
		}
	} else {
		ncr = existing
	}

	ncr.DefectCode = req.DefectCode
	ncr.Severity = severity
	ncr.IssueDescription = req.IssueDescription
	ncr.RootCause = req.RootCause
	ncr.Solution = req.Solution
	ncr.PreventiveAction = req.PreventiveAction
	ncr.ResponsiblePerson = req.ResponsiblePerson
	ncr.Deadline = req.Deadline
	if req.ImagesBefore != nil {
		ncr.ImagesBefore = req.ImagesBefore
	}
	if req.ImagesAfter != nil {
		ncr.ImagesAfter = req.ImagesAfter
	}

	if created {
		err = s.ncrRepo.Create(ctx, ncr)
	} else {
		err = s.ncrRepo.Update(ctx, ncr)
	}
	if err != nil {
		return nil, fmt.Errorf("save ncr: %w", err)
	}

	// an NCR cannot exist on a passing item
	record.Items[idx].NCRID = ncr.ID
	record.Items[idx].Status = entity.CheckStatusFail
	if err := s.inspectionRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("bind ncr to item: %w", err)
	}

	if s.activityLogRepo != nil {
		action := "ncr_update"
		if created {
			action = "ncr_open"
		}
		s.activityLogRepo.LogActivity(ctx, "ncr", ncr.ID, ncr.Code,
			action, "", string(ncr.Status), req.IssueDescription, operatorID, operatorName)
	}
	return ncr, nil
}

// List lists NCRs with filters
func (s *NCRService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.NCR, int64, error) {
	return s.ncrRepo.FindAll(ctx, page, pageSize, filters)
}

// Get loads one NCR
func (s *NCRService) Get(ctx context.Context, id string) (*entity.NCR, error) {
	return s.ncrRepo.FindByID(ctx, id)
}

// UpdateStatus moves the NCR along its linear state machine
func (s *NCRService) UpdateStatus(ctx context.Context, id string, next entity.NCRStatus, operatorID, operatorName string) (*entity.NCR, error) {
	ncr, err := s.ncrRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.CanTransitionNCR(ncr.Status, next) {
		return nil, &TransitionError{From: string(ncr.Status), To: string(next)}
	}

	from := ncr.Status
	ncr.Status = next
	if next == entity.NCRStatusClosed {
		ncr.ClosedBy = operatorID
		ncr.ClosedDate = time.Now().Format("2006-01-02")
	}

	if err := s.ncrRepo.Update(ctx, ncr); err != nil {
		return nil, fmt.Errorf("update ncr status: %w", err)
	}

	if s.activityLogRepo != nil {
		s.activityLogRepo.LogActivity(ctx, "ncr", ncr.ID, ncr.Code,
			"status_change", string(from), string(next), "", operatorID, operatorName)
	}
	return ncr, nil
}

// LibraryPrefill the fields a selected defect entry contributes to a draft
type LibraryPrefill struct {
	DefectCode       string          `json:"defect_code"`
	IssueDescription string          `json:"issue_description"`
	Severity         entity.Severity `json:"severity"`
	Solution         string          `json:"solution,omitempty"`
}

// ApplyLibraryEntry builds the pre-fill for a selected library entry.
// The suggested action lands in solution only when the inspector has not
// typed one yet.
func (s *NCRService) ApplyLibraryEntry(ctx context.Context, defectID, currentSolution string) (*LibraryPrefill, error) {
	def, err := s.defectRepo.FindByID(ctx, defectID)
	if err != nil {
		return nil, err
	}

	prefill := &LibraryPrefill{
		DefectCode:       def.Code,
		IssueDescription: def.Name,
		Severity:         def.Severity,
		Solution:         currentSolution,
	}
	if def.Description != "" {
		prefill.IssueDescription = def.Name + ": " + def.Description
	}
	if currentSolution == "" {
		prefill.Solution = def.SuggestedAction
	}
	return prefill, nil
}

// Suggest asks the AI collaborator for a root cause and solution.
// Failure leaves the draft untouched; the caller may retry.
func (s *NCRService) Suggest(ctx context.Context, issueDescription, itemLabel string) (*aiassist.Suggestion, error) {
	if issueDescription == "" {
		return nil, &ValidationError{Field: "issue_description", Message: "issue description is required"}
	}
	if s.aiClient == nil {
		return nil, &CollaboratorError{Op: "ai suggest", Err: errors.New("collaborator not configured")}
	}

	suggestion, err := s.aiClient.Suggest(ctx, issueDescription, itemLabel)
	if err != nil {
		return nil, &CollaboratorError{Op: "ai suggest", Err: err}
	}
	return suggestion, nil
}

// AddEvidence appends normalized image URLs to one evidence list
func (s *NCRService) AddEvidence(ctx context.Context, id, phase string, urls []string) (*entity.NCR, error) {
	ncr, err := s.ncrRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch phase {
	case "before":
		ncr.ImagesBefore = append(ncr.ImagesBefore, urls...)
	case "after":
		ncr.ImagesAfter = append(ncr.ImagesAfter, urls...)
	default:
		return nil, &ValidationError{Field: "phase", Message: "phase must be before or after"}
	}
	if err := s.ncrRepo.Update(ctx, ncr); err != nil {
		return nil, fmt.Errorf("add evidence: %w", err)
	}
	return ncr, nil
}

// RemoveEvidence splices one evidence image out by index
func (s *NCRService) RemoveEvidence(ctx context.Context, id, phase string, index int) (*entity.NCR, error) {
	ncr, err := s.ncrRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch phase {
	case "before":
		if index < 0 || index >= len(ncr.ImagesBefore) {
			return nil, &ValidationError{Field: "index", Message: "evidence index out of range"}
		}
		ncr.ImagesBefore = append(ncr.ImagesBefore[:index], ncr.ImagesBefore[index+1:]...)
	case "after":
		if index < 0 || index >= len(ncr.ImagesAfter) {
			return nil, &ValidationError{Field: "index", Message: "evidence index out of range"}
		}
		ncr.ImagesAfter = append(ncr.ImagesAfter[:index], ncr.ImagesAfter[index+1:]...)
	default:
		return nil, &ValidationError{Field: "phase", Message: "phase must be before or after"}
	}
	if err := s.ncrRepo.Update(ctx, ncr); err != nil {
		return nil, fmt.Errorf("remove evidence: %w", err)
	}
	return ncr, nil
}
