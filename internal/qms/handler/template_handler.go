package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/entity"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/service"
)

// TemplateHandler checklist template endpoints
type TemplateHandler struct {
	svc *service.TemplateService
}

func NewTemplateHandler(svc *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

// GetTemplate
// GET /api/v1/qms/templates/:moduleType
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	items, err := h.svc.GetTemplate(c.Request.Context(), entity.ModuleType(c.Param("moduleType")))
	if err != nil {
		ServiceError(c, err, "template not found")
		return
	}
	Success(c, items)
}

// ReplaceTemplate template administration
// PUT /api/v1/qms/templates/:moduleType
func (h *TemplateHandler) ReplaceTemplate(c *gin.Context) {
	var req struct {
		Items []service.TemplateItemReq `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	items, err := h.svc.ReplaceTemplate(c.Request.Context(), entity.ModuleType(c.Param("moduleType")), req.Items)
	if err != nil {
		ServiceError(c, err, "replace template failed")
		return
	}
	Success(c, items)
}
