package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/middleware"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/entity"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "aatn-qms-jwt-secret-key-2024"

// SetupTestDB opens an isolated in-memory database per test
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String()[:8])
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&entity.InspectionRecord{},
		&entity.NCR{},
		&entity.ChecklistTemplateItem{},
		&entity.DefectLibraryItem{},
		&entity.PlanItem{},
		&entity.ActivityLog{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})

	return db
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid JWT token for testing
func GenerateTestToken(userID, name, email string, roles []string) string {
	if roles == nil {
		roles = []string{}
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"uid":   userID,
		"name":  name,
		"email": email,
		"roles": roles,
		"iss":   "aatn-qms",
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
		"jti":   fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DefaultTestToken returns a token for a default admin test user
func DefaultTestToken() string {
	return GenerateTestToken(
		"test-user-001",
		"Test Inspector",
		"inspector@test.com",
		[]string{"qms_admin"},
	)
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedTemplateItem inserts one checklist template row
func SeedTemplateItem(t *testing.T, db *gorm.DB, moduleType entity.ModuleType, stage, category, label string, order int) *entity.ChecklistTemplateItem {
	t.Helper()
	item := &entity.ChecklistTemplateItem{
		ID:         uuid.New().String()[:32],
		ModuleType: moduleType,
		Stage:      stage,
		Category:   category,
		Label:      label,
		SortOrder:  order,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("Failed to seed template item: %v", err)
	}
	return item
}

// SeedDefect inserts one defect library entry
func SeedDefect(t *testing.T, db *gorm.DB, code, name, stage, description string, severity entity.Severity) *entity.DefectLibraryItem {
	t.Helper()
	item := &entity.DefectLibraryItem{
		ID:          uuid.New().String()[:32],
		Code:        code,
		Name:        name,
		Stage:       stage,
		Description: description,
		Severity:    severity,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("Failed to seed defect: %v", err)
	}
	return item
}

// SeedPlanItem inserts one production plan line
func SeedPlanItem(t *testing.T, db *gorm.DB, headcode, siteUnitCode, projectCode, itemName string, qty float64) *entity.PlanItem {
	t.Helper()
	item := &entity.PlanItem{
		ID:           uuid.New().String()[:32],
		Headcode:     headcode,
		SiteUnitCode: siteUnitCode,
		ProjectCode:  projectCode,
		ProjectName:  "Test Project",
		ItemName:     itemName,
		Unit:         "PCS",
		PlannedQty:   qty,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("Failed to seed plan item: %v", err)
	}
	return item
}
