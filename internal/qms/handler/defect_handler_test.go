package handler

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/entity"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/repository"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/service"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/testutil"
	"gorm.io/gorm"
)

func setupDefectTest(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	svc := service.NewDefectService(repos.Defect, nil)
	h := NewDefectHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1/qms")
	api.GET("/defects", h.SearchDefects)
	api.GET("/defects/:id", h.GetDefect)
	api.POST("/defects", h.CreateDefect)

	return db, router
}

func seedDefectLibrary(t *testing.T, db *gorm.DB) {
	t.Helper()
	testutil.SeedDefect(t, db, "DF-001", "Nứt gỗ", "Lắp Ráp Mộc", "Vết nứt dọc thớ gỗ", entity.SeverityMajor)
	testutil.SeedDefect(t, db, "DF-002", "Hở mối ghép", "Lắp Ráp Mộc", "Khe hở tại mối ghép lớn hơn tiêu chuẩn", entity.SeverityMinor)
	testutil.SeedDefect(t, db, "DF-003", "Sơn không đều", "Sơn", "Bề mặt sơn loang màu", entity.SeverityMinor)
}

func searchDefects(t *testing.T, router *gin.Engine, token, stage, q string) []interface{} {
	t.Helper()
	path := "/api/v1/qms/defects?stage=" + url.QueryEscape(stage) + "&q=" + url.QueryEscape(q)
	w := testutil.DoRequest(router, http.MethodGet, path, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	return testutil.ParseResponse(w)["data"].([]interface{})
}

// TestDefectSearchStageExclusion entries of other stages never show up
func TestDefectSearchStageExclusion(t *testing.T) {
	db, router := setupDefectTest(t)
	token := testutil.DefaultTestToken()
	seedDefectLibrary(t, db)

	items := searchDefects(t, router, token, "Lắp Ráp Mộc", "")
	if len(items) != 2 {
		t.Fatalf("expected 2 stage-scoped entries, got %d", len(items))
	}
	for _, raw := range items {
		item := raw.(map[string]interface{})
		if item["stage"] != "Lắp Ráp Mộc" {
			t.Fatalf("entry from another stage leaked: %v", item)
		}
	}

	// the paint defect is excluded for the assembly stage even by text
	items = searchDefects(t, router, token, "Lắp Ráp Mộc", "sơn")
	if len(items) != 0 {
		t.Fatalf("expected the paint defect excluded, got %v", items)
	}
}

func TestDefectSearchSubstring(t *testing.T) {
	db, router := setupDefectTest(t)
	token := testutil.DefaultTestToken()
	seedDefectLibrary(t, db)

	// case-insensitive over name
	items := searchDefects(t, router, token, "Lắp Ráp Mộc", "nứt")
	if len(items) != 1 {
		t.Fatalf("expected 1 match, got %d", len(items))
	}
	if items[0].(map[string]interface{})["code"] != "DF-001" {
		t.Fatalf("unexpected match %v", items[0])
	}

	// over code
	items = searchDefects(t, router, token, "Lắp Ráp Mộc", "df-002")
	if len(items) != 1 {
		t.Fatalf("expected 1 match by code, got %d", len(items))
	}

	// over description
	items = searchDefects(t, router, token, "Lắp Ráp Mộc", "khe hở")
	if len(items) != 1 {
		t.Fatalf("expected 1 match by description, got %d", len(items))
	}

	// unknown text matches nothing
	items = searchDefects(t, router, token, "Lắp Ráp Mộc", "mốc xanh")
	if len(items) != 0 {
		t.Fatalf("expected no match, got %v", items)
	}
}

func TestDefectCreateAndGet(t *testing.T) {
	_, router := setupDefectTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/qms/defects", map[string]interface{}{
		"code":             "DF-100",
		"name":             "Trầy xước bề mặt",
		"stage":            "Hoàn thiện",
		"description":      "Vết xước nhìn thấy ở khoảng cách 50cm",
		"suggested_action": "Đánh bóng lại bề mặt",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if created["severity"] != "MINOR" {
		t.Fatalf("expected MINOR default, got %v", created["severity"])
	}

	w = testutil.DoRequest(router, http.MethodGet, "/api/v1/qms/defects/"+created["id"].(string), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}
