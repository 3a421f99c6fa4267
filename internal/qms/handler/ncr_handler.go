package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/entity"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/service"
)

// NCRHandler non-conformance endpoints
type NCRHandler struct {
	svc *service.NCRService
}

func NewNCRHandler(svc *service.NCRService) *NCRHandler {
	return &NCRHandler{svc: svc}
}

// ListNCRs
// GET /api/v1/qms/ncrs?status=xxx&severity=xxx&inspection_id=xxx
func (h *NCRHandler) ListNCRs(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"status":             c.Query("status"),
		"severity":           c.Query("severity"),
		"inspection_id":      c.Query("inspection_id"),
		"responsible_person": c.Query("responsible_person"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list ncrs failed: "+err.Error())
		return
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	Success(c, ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	})
}

// GetNCR
// GET /api/v1/qms/ncrs/:id
func (h *NCRHandler) GetNCR(c *gin.Context) {
	ncr, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err, "ncr not found")
		return
	}
	Success(c, ncr)
}

// SaveNCR create or update the NCR of one failing item
// PUT /api/v1/qms/inspections/:id/items/:itemId/ncr
func (h *NCRHandler) SaveNCR(c *gin.Context) {
	var req service.SaveNCRReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	ncr, err := h.svc.CreateOrUpdate(c.Request.Context(), c.Param("id"), c.Param("itemId"), req, GetUserID(c), GetUserName(c))
	if err != nil {
		ServiceError(c, err, "save ncr failed")
		return
	}
	Success(c, ncr)
}

// UpdateNCRStatus linear state machine move
// PUT /api/v1/qms/ncrs/:id/status
func (h *NCRHandler) UpdateNCRStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	ncr, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), entity.NCRStatus(req.Status), GetUserID(c), GetUserName(c))
	if err != nil {
		ServiceError(c, err, "update ncr status failed")
		return
	}
	Success(c, ncr)
}

// ApplyLibraryEntry pre-fill from a selected defect library entry
// GET /api/v1/qms/ncrs/prefill?defect_id=xxx&current_solution=xxx
func (h *NCRHandler) ApplyLibraryEntry(c *gin.Context) {
	defectID := c.Query("defect_id")
	if defectID == "" {
		BadRequest(c, "defect_id is required")
		return
	}

	prefill, err := h.svc.ApplyLibraryEntry(c.Request.Context(), defectID, c.Query("current_solution"))
	if err != nil {
		ServiceError(c, err, "defect entry not found")
		return
	}
	Success(c, prefill)
}

// SuggestNCR AI collaborator root cause and solution proposal
// POST /api/v1/qms/ncrs/suggest
func (h *NCRHandler) SuggestNCR(c *gin.Context) {
	var req struct {
		IssueDescription string `json:"issue_description" binding:"required"`
		ItemLabel        string `json:"item_label"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	suggestion, err := h.svc.Suggest(c.Request.Context(), req.IssueDescription, req.ItemLabel)
	if err != nil {
		ServiceError(c, err, "suggestion failed")
		return
	}
	Success(c, suggestion)
}

// AddEvidence append normalized evidence image URLs
// POST /api/v1/qms/ncrs/:id/evidence
func (h *NCRHandler) AddEvidence(c *gin.Context) {
	var req struct {
		Phase string   `json:"phase" binding:"required"`
		URLs  []string `json:"urls" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	ncr, err := h.svc.AddEvidence(c.Request.Context(), c.Param("id"), req.Phase, req.URLs)
	if err != nil {
		ServiceError(c, err, "add evidence failed")
		return
	}
	Success(c, ncr)
}

// RemoveEvidence splice one evidence image out by index
// DELETE /api/v1/qms/ncrs/:id/evidence
func (h *NCRHandler) RemoveEvidence(c *gin.Context) {
	var req struct {
		Phase string `json:"phase" binding:"required"`
		Index *int   `json:"index" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	ncr, err := h.svc.RemoveEvidence(c.Request.Context(), c.Param("id"), req.Phase, *req.Index)
	if err != nil {
		ServiceError(c, err, "remove evidence failed")
		return
	}
	Success(c, ncr)
}
