package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/imaging"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/repository"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/service"
)

// Handlers QMS handler set
type Handlers struct {
	Inspection *InspectionHandler
	NCR        *NCRHandler
	Template   *TemplateHandler
	Defect     *DefectHandler
	Plan       *PlanHandler
	Upload     *UploadHandler
}

// NewHandlers wires all QMS handlers
func NewHandlers(services *service.Services, normalizer *imaging.Normalizer, uploadDir string) *Handlers {
	return &Handlers{
		Inspection: NewInspectionHandler(services.Inspection),
		NCR:        NewNCRHandler(services.NCR),
		Template:   NewTemplateHandler(services.Template),
		Defect:     NewDefectHandler(services.Defect),
		Plan:       NewPlanHandler(services.Plan),
		Upload:     NewUploadHandler(normalizer, uploadDir),
	}
}

// === response helpers ===

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

func BadGateway(c *gin.Context, message string) {
	Error(c, 50200, message)
}

// ServiceError maps a service layer error onto the response envelope
func ServiceError(c *gin.Context, err error, fallback string) {
	var validation *service.ValidationError
	var transition *service.TransitionError
	var collaborator *service.CollaboratorError
	switch {
	case errors.As(err, &validation):
		BadRequest(c, validation.Error())
	case errors.As(err, &transition):
		BadRequest(c, transition.Error())
	case errors.As(err, &collaborator):
		BadGateway(c, collaborator.Error())
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, fallback)
	default:
		InternalError(c, fallback+": "+err.Error())
	}
}

func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

func GetUserName(c *gin.Context) string {
	name, _ := c.Get("user_name")
	if s, ok := name.(string); ok {
		return s
	}
	return ""
}

func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}
