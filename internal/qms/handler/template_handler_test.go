package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/middleware"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/entity"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/repository"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/service"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/testutil"
	"gorm.io/gorm"
)

func setupTemplateTest(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	svc := service.NewTemplateService(repos.Template, nil)
	h := NewTemplateHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1/qms")
	api.GET("/templates/:moduleType", h.GetTemplate)
	api.PUT("/templates/:moduleType", middleware.RequireRole("qc_manager"), h.ReplaceTemplate)

	return db, router
}

func TestTemplateGetOrdered(t *testing.T) {
	db, router := setupTemplateTest(t)
	token := testutil.DefaultTestToken()

	testutil.SeedTemplateItem(t, db, entity.ModuleFQC, "Hoàn thiện", "Bề mặt", "Kiểm tra độ bóng", 1)
	testutil.SeedTemplateItem(t, db, entity.ModuleFQC, "Hoàn thiện", "Bề mặt", "Kiểm tra màu", 0)
	testutil.SeedTemplateItem(t, db, entity.ModuleIQC, "Nhập kho", "Vật liệu", "Kiểm tra độ ẩm", 0)

	w := testutil.DoRequest(router, http.MethodGet, "/api/v1/qms/templates/FQC", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	items := testutil.ParseResponse(w)["data"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("expected 2 FQC rows, got %d", len(items))
	}
	if items[0].(map[string]interface{})["label"] != "Kiểm tra màu" {
		t.Fatalf("rows not in declared order: %v", items[0])
	}
}

func TestTemplateUnknownModule(t *testing.T) {
	_, router := setupTemplateTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, http.MethodGet, "/api/v1/qms/templates/BOGUS", nil, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestTemplateReplaceRequiresRole(t *testing.T) {
	db, router := setupTemplateTest(t)
	testutil.SeedTemplateItem(t, db, entity.ModulePQC, "Sơn", "Bề mặt", "Cũ", 0)

	body := map[string]interface{}{
		"items": []map[string]interface{}{
			{"stage": "Sơn", "category": "Bề mặt", "label": "Mới"},
		},
	}

	inspectorToken := testutil.GenerateTestToken("user-2", "Inspector", "i@test.com", []string{"qc_inspector"})
	w := testutil.DoRequest(router, http.MethodPut, "/api/v1/qms/templates/PQC", body, inspectorToken)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for inspector, got %d", w.Code)
	}

	managerToken := testutil.GenerateTestToken("user-3", "Manager", "m@test.com", []string{"qc_manager"})
	w = testutil.DoRequest(router, http.MethodPut, "/api/v1/qms/templates/PQC", body, managerToken)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for manager, got %d: %s", w.Code, w.Body.String())
	}

	// the old template is fully replaced
	w = testutil.DoRequest(router, http.MethodGet, "/api/v1/qms/templates/PQC", nil, managerToken)
	items := testutil.ParseResponse(w)["data"].([]interface{})
	if len(items) != 1 || items[0].(map[string]interface{})["label"] != "Mới" {
		t.Fatalf("template not replaced: %v", items)
	}
}
