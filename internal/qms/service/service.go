package service

import (
	"github.com/redis/go-redis/v9"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/repository"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/shared/aiassist"
)

// Services QMS service set
type Services struct {
	Inspection *InspectionService
	NCR        *NCRService
	Template   *TemplateService
	Defect     *DefectService
	Plan       *PlanService
}

// NewServices wires all QMS services
func NewServices(repos *repository.Repositories, rdb *redis.Client) *Services {
	templateSvc := NewTemplateService(repos.Template, rdb)
	defectSvc := NewDefectService(repos.Defect, rdb)

	inspectionSvc := NewInspectionService(repos.Inspection, repos.NCR, repos.Template, repos.ActivityLog)
	ncrSvc := NewNCRService(repos.NCR, repos.Inspection, repos.Defect, repos.ActivityLog)

	return &Services{
		Inspection: inspectionSvc,
		NCR:        ncrSvc,
		Template:   templateSvc,
		Defect:     defectSvc,
		Plan:       NewPlanService(repos.Plan),
	}
}

// SetAIClient injects the suggestion collaborator into the NCR service
func (s *Services) SetAIClient(client *aiassist.Client) {
	s.NCR.SetAIClient(client)
}
