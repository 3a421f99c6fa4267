package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/entity"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/repository"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/service"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/testutil"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/shared/aiassist"
	"gorm.io/gorm"
)

func setupNCRTest(t *testing.T, assistURL string) (*gorm.DB, *gin.Engine) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, nil)
	if assistURL != "" {
		services.SetAIClient(aiassist.NewClient(assistURL, "test-key"))
	}
	handlers := NewHandlers(services, nil, t.TempDir())

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1/qms")
	api.GET("/ncrs", handlers.NCR.ListNCRs)
	api.GET("/ncrs/prefill", handlers.NCR.ApplyLibraryEntry)
	api.POST("/ncrs/suggest", handlers.NCR.SuggestNCR)
	api.GET("/ncrs/:id", handlers.NCR.GetNCR)
	api.POST("/ncrs/:id/evidence", handlers.NCR.AddEvidence)
	api.DELETE("/ncrs/:id/evidence", handlers.NCR.RemoveEvidence)

	return db, router
}

func TestNCRPrefillKeepsTypedSolution(t *testing.T) {
	db, router := setupNCRTest(t, "")
	token := testutil.DefaultTestToken()

	def := testutil.SeedDefect(t, db, "DF-010", "Cong vênh", "Lắp Ráp Mộc", "Tấm gỗ cong quá 3mm trên 1m", entity.SeverityMajor)
	db.Model(def).Update("suggested_action", "Ép phẳng lại và kiểm tra độ ẩm")

	// no prior solution: the library suggestion fills it
	w := testutil.DoRequest(router, http.MethodGet, "/api/v1/qms/ncrs/prefill?defect_id="+def.ID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	prefill := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if prefill["defect_code"] != "DF-010" || prefill["severity"] != "MAJOR" {
		t.Fatalf("unexpected prefill %v", prefill)
	}
	if prefill["solution"] != "Ép phẳng lại và kiểm tra độ ẩm" {
		t.Fatalf("expected suggested action as solution, got %v", prefill["solution"])
	}

	// inspector-entered text is never overwritten
	typed := url.QueryEscape("Đã xử lý tại xưởng")
	w = testutil.DoRequest(router, http.MethodGet,
		"/api/v1/qms/ncrs/prefill?defect_id="+def.ID+"&current_solution="+typed, nil, token)
	prefill = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if prefill["solution"] != "Đã xử lý tại xưởng" {
		t.Fatalf("typed solution was overwritten: %v", prefill["solution"])
	}
}

func TestNCRSuggest(t *testing.T) {
	assist := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/suggest" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":0,"message":"ok","data":{"root_cause":"Độ ẩm gỗ cao","solution":"Sấy lại trước khi gia công"}}`))
	}))
	defer assist.Close()

	_, router := setupNCRTest(t, assist.URL)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/qms/ncrs/suggest", map[string]interface{}{
		"issue_description": "Tấm gỗ cong vênh sau lắp ráp",
		"item_label":        "Kiểm tra độ phẳng",
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	suggestion := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if suggestion["root_cause"] != "Độ ẩm gỗ cao" || suggestion["solution"] != "Sấy lại trước khi gia công" {
		t.Fatalf("unexpected suggestion %v", suggestion)
	}
}

func TestNCRSuggestCollaboratorFailure(t *testing.T) {
	assist := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	defer assist.Close()

	_, router := setupNCRTest(t, assist.URL)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/qms/ncrs/suggest", map[string]interface{}{
		"issue_description": "Tấm gỗ cong vênh",
	}, token)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 on collaborator failure, got %d: %s", w.Code, w.Body.String())
	}
}

func TestNCRSuggestNotConfigured(t *testing.T) {
	_, router := setupNCRTest(t, "")
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/qms/ncrs/suggest", map[string]interface{}{
		"issue_description": "Bất kỳ",
	}, token)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 without a collaborator, got %d", w.Code)
	}
}

func TestNCREvidenceAppendAndSplice(t *testing.T) {
	db, router := setupNCRTest(t, "")
	token := testutil.DefaultTestToken()

	ncr := &entity.NCR{
		ID:               "ncr-evidence-001",
		Code:             "NCR-2026-0001",
		InspectionID:     "insp-001",
		ItemID:           "item-001",
		Severity:         entity.SeverityMinor,
		IssueDescription: "Trầy xước",
		Status:           entity.NCRStatusOpen,
		ImagesBefore:     []string{},
		ImagesAfter:      []string{},
	}
	if err := db.Create(ncr).Error; err != nil {
		t.Fatalf("seed ncr: %v", err)
	}

	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/qms/ncrs/"+ncr.ID+"/evidence",
		map[string]interface{}{"phase": "before", "urls": []string{"/uploads/a.jpg", "/uploads/b.jpg"}}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if len(data["images_before"].([]interface{})) != 2 {
		t.Fatalf("expected 2 evidence images, got %v", data["images_before"])
	}

	index := 0
	w = testutil.DoRequest(router, http.MethodDelete, "/api/v1/qms/ncrs/"+ncr.ID+"/evidence",
		map[string]interface{}{"phase": "before", "index": index}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data = testutil.ParseResponse(w)["data"].(map[string]interface{})
	remaining := data["images_before"].([]interface{})
	if len(remaining) != 1 || remaining[0] != "/uploads/b.jpg" {
		t.Fatalf("expected splice by index, got %v", remaining)
	}

	// out of range index is rejected
	bad := 5
	w = testutil.DoRequest(router, http.MethodDelete, "/api/v1/qms/ncrs/"+ncr.ID+"/evidence",
		map[string]interface{}{"phase": "before", "index": bad}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad index, got %d", w.Code)
	}
}
