package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/service"
)

// PlanHandler plan and unit lookup endpoints
type PlanHandler struct {
	svc *service.PlanService
}

func NewPlanHandler(svc *service.PlanService) *PlanHandler {
	return &PlanHandler{svc: svc}
}

// LookupUnit resolve a scanned or typed identifier to its plan line
// GET /api/v1/qms/plans/lookup?code=xxx
func (h *PlanHandler) LookupUnit(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		BadRequest(c, "code is required")
		return
	}

	item, err := h.svc.LookupUnit(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrLookupMiss) {
			NotFound(c, "no plan line matches the code")
			return
		}
		InternalError(c, "plan lookup failed: "+err.Error())
		return
	}
	Success(c, item)
}
