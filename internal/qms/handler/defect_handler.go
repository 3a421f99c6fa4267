package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/service"
)

// DefectHandler defect library endpoints
type DefectHandler struct {
	svc *service.DefectService
}

func NewDefectHandler(svc *service.DefectService) *DefectHandler {
	return &DefectHandler{svc: svc}
}

// SearchDefects stage-scoped free text search
// GET /api/v1/qms/defects?stage=xxx&q=xxx
func (h *DefectHandler) SearchDefects(c *gin.Context) {
	items, err := h.svc.Search(c.Request.Context(), c.Query("stage"), c.Query("q"))
	if err != nil {
		InternalError(c, "search defects failed: "+err.Error())
		return
	}
	Success(c, items)
}

// GetDefect
// GET /api/v1/qms/defects/:id
func (h *DefectHandler) GetDefect(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err, "defect entry not found")
		return
	}
	Success(c, item)
}

// CreateDefect
// POST /api/v1/qms/defects
func (h *DefectHandler) CreateDefect(c *gin.Context) {
	var req service.CreateDefectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	item, err := h.svc.Create(c.Request.Context(), req, GetUserID(c))
	if err != nil {
		ServiceError(c, err, "create defect failed")
		return
	}
	Created(c, item)
}
