package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/entity"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/service"
)

// InspectionHandler inspection record endpoints
type InspectionHandler struct {
	svc *service.InspectionService
}

func NewInspectionHandler(svc *service.InspectionService) *InspectionHandler {
	return &InspectionHandler{svc: svc}
}

// ListInspections
// GET /api/v1/qms/inspections?module_type=xxx&status=xxx&project_code=xxx
func (h *InspectionHandler) ListInspections(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"module_type":    c.Query("module_type"),
		"status":         c.Query("status"),
		"project_code":   c.Query("project_code"),
		"site_unit_code": c.Query("site_unit_code"),
		"headcode":       c.Query("headcode"),
		"stage":          c.Query("stage"),
		"inspector_id":   c.Query("inspector_id"),
		"date_from":      c.Query("date_from"),
		"date_to":        c.Query("date_to"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list inspections failed: "+err.Error())
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

// CreateInspection
// POST /api/v1/qms/inspections
func (h *InspectionHandler) CreateInspection(c *gin.Context) {
	var req service.CreateInspectionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	record, err := h.svc.Create(c.Request.Context(), req, GetUserID(c), GetUserName(c))
	if err != nil {
		ServiceError(c, err, "create inspection failed")
		return
	}
	Created(c, record)
}

// GetInspection full detail with each item's NCR attached
// GET /api/v1/qms/inspections/:id
func (h *InspectionHandler) GetInspection(c *gin.Context) {
	record, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err, "inspection not found")
		return
	}
	Success(c, record)
}

// ListHistory prior inspections of the same physical unit
// GET /api/v1/qms/inspections/history?site_unit_code=xxx&exclude_id=xxx
func (h *InspectionHandler) ListHistory(c *gin.Context) {
	siteUnitCode := c.Query("site_unit_code")
	if siteUnitCode == "" {
		BadRequest(c, "site_unit_code is required")
		return
	}

	limit := 50
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}

	records, err := h.svc.ListHistory(c.Request.Context(), siteUnitCode, c.Query("exclude_id"), limit)
	if err != nil {
		InternalError(c, "list history failed: "+err.Error())
		return
	}
	Success(c, records)
}

// UpdateInspection field-scoped draft update
// PATCH /api/v1/qms/inspections/:id
func (h *InspectionHandler) UpdateInspection(c *gin.Context) {
	var req service.UpdateInspectionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	record, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		ServiceError(c, err, "update inspection failed")
		return
	}
	Success(c, record)
}

// SetQuantity single quantity edit run through the reconciler
// PUT /api/v1/qms/inspections/:id/quantities
func (h *InspectionHandler) SetQuantity(c *gin.Context) {
	var req struct {
		Field string  `json:"field" binding:"required"`
		Value float64 `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	record, err := h.svc.SetQuantity(c.Request.Context(), c.Param("id"), entity.QuantityField(req.Field), req.Value)
	if err != nil {
		ServiceError(c, err, "update quantities failed")
		return
	}
	Success(c, record)
}

// SetItemField single field edit on one checklist item
// PUT /api/v1/qms/inspections/:id/items/:itemId
func (h *InspectionHandler) SetItemField(c *gin.Context) {
	var req service.SetItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	result, err := h.svc.SetItemField(c.Request.Context(), c.Param("id"), c.Param("itemId"), req)
	if err != nil {
		ServiceError(c, err, "update item failed")
		return
	}
	Success(c, result)
}

// AddItem manual checklist extension
// POST /api/v1/qms/inspections/:id/items
func (h *InspectionHandler) AddItem(c *gin.Context) {
	var req service.AddItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	record, err := h.svc.AddItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		ServiceError(c, err, "add item failed")
		return
	}
	Created(c, record)
}

// ChangeStage destructive stage switch, checklist is rebuilt
// PUT /api/v1/qms/inspections/:id/stage
func (h *InspectionHandler) ChangeStage(c *gin.Context) {
	var req struct {
		Stage string `json:"stage" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	record, err := h.svc.ChangeStage(c.Request.Context(), c.Param("id"), req.Stage)
	if err != nil {
		ServiceError(c, err, "change stage failed")
		return
	}
	Success(c, record)
}

// SubmitInspection derive status and freeze the record
// POST /api/v1/qms/inspections/:id/submit
func (h *InspectionHandler) SubmitInspection(c *gin.Context) {
	record, err := h.svc.Submit(c.Request.Context(), c.Param("id"), GetUserID(c), GetUserName(c))
	if err != nil {
		ServiceError(c, err, "submit inspection failed")
		return
	}
	Success(c, record)
}

// ApproveInspection reviewer transition
// POST /api/v1/qms/inspections/:id/approve
func (h *InspectionHandler) ApproveInspection(c *gin.Context) {
	var req service.ApproveReq
	// empty body approves without completing
	_ = c.ShouldBindJSON(&req)

	record, err := h.svc.Approve(c.Request.Context(), c.Param("id"), req, GetUserID(c), GetUserName(c))
	if err != nil {
		ServiceError(c, err, "approve inspection failed")
		return
	}
	Success(c, record)
}
