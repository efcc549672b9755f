package handler

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bitfantasy/nimo-cmms/internal/cmms/entity"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/repository"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/service"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/testutil"
)

func setupExecutionTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	procRepo := repository.NewProcedureRepository(db)
	execRepo := repository.NewExecutionRepository(db)
	procSvc := service.NewProcedureService(procRepo, nil)
	execSvc := service.NewExecutionService(execRepo, procRepo)
	ph := NewProcedureHandler(procSvc)
	eh := NewExecutionHandler(execSvc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.POST("/procedures", ph.CreateProcedure)
	api.GET("/procedures/:id/executions/export", eh.ExportExecutions)
	api.GET("/executions", eh.ListExecutions)
	api.GET("/executions/:id", eh.GetExecution)
	api.POST("/executions", eh.StartExecution)
	api.PUT("/executions/:id/answers", eh.SaveExecutionAnswers)
	api.POST("/executions/:id/submit", eh.SubmitExecution)
	api.POST("/executions/:id/cancel", eh.CancelExecution)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func startTestExecution(t *testing.T, env *testutil.TestEnv, token string) (procID, execID, fieldID string) {
	t.Helper()
	body := map[string]interface{}{
		"title":    "压缩机点检",
		"category": "inspection",
		"fields": []map[string]interface{}{
			{"label": "运行温度", "field_type": "number", "is_required": true},
			{"label": "注意事项", "field_type": "info", "options": map[string]interface{}{"info_text": "断电操作"}},
		},
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procedures", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create procedure: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	proc := testutil.ParseResponse(w)["data"].(map[string]interface{})
	procID = proc["id"].(string)
	fieldID = proc["fields"].([]interface{})[0].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/executions",
		map[string]interface{}{"procedure_id": procID}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("start execution: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	exec := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if exec["status"] != entity.ExecutionStatusInProgress {
		t.Fatalf("new execution status = %v", exec["status"])
	}
	execID = exec["id"].(string)
	return procID, execID, fieldID
}

// TestExecutionLifecycle 发起 → 暂存 → 提交
func TestExecutionLifecycle(t *testing.T) {
	env := setupExecutionTest(t)
	token := testutil.DefaultTestToken()

	_, execID, fieldID := startTestExecution(t, env, token)

	// 暂存不改状态
	w := testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/executions/"+execID+"/answers",
		map[string]interface{}{"answers": map[string]interface{}{fieldID: 72.5}}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("save answers: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != entity.ExecutionStatusInProgress {
		t.Fatalf("save answers changed status to %v", data["status"])
	}

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/executions/"+execID+"/submit",
		map[string]interface{}{
			"answers": map[string]interface{}{fieldID: 75.0},
			"score":   98.5,
		}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != entity.ExecutionStatusCompleted {
		t.Fatalf("submitted status = %v", data["status"])
	}
	if data["score"].(float64) != 98.5 {
		t.Fatalf("score = %v", data["score"])
	}
	if data["completed_at"] == nil {
		t.Fatalf("completed_at not set")
	}
}

// TestExecutionSubmitWithoutAnswers 缺失必填项也允许提交
func TestExecutionSubmitWithoutAnswers(t *testing.T) {
	env := setupExecutionTest(t)
	token := testutil.DefaultTestToken()

	_, execID, _ := startTestExecution(t, env, token)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/executions/"+execID+"/submit",
		map[string]interface{}{}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("empty submit should succeed, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != entity.ExecutionStatusCompleted {
		t.Fatalf("status = %v", data["status"])
	}
}

// TestExecutionTerminalStates 结束后的执行不能再提交/暂存/取消
func TestExecutionTerminalStates(t *testing.T) {
	env := setupExecutionTest(t)
	token := testutil.DefaultTestToken()

	_, execID, fieldID := startTestExecution(t, env, token)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/executions/"+execID+"/submit",
		map[string]interface{}{}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("submit: got %d", w.Code)
	}

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/executions/"+execID+"/submit",
		map[string]interface{}{}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("re-submit should 400, got %d", w.Code)
	}
	w = testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/executions/"+execID+"/answers",
		map[string]interface{}{"answers": map[string]interface{}{fieldID: 1.0}}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("save on completed should 400, got %d", w.Code)
	}
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/executions/"+execID+"/cancel", nil, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("cancel on completed should 400, got %d", w.Code)
	}
}

// TestExecutionCancel 取消置终态并记录结束时间
func TestExecutionCancel(t *testing.T) {
	env := setupExecutionTest(t)
	token := testutil.DefaultTestToken()

	_, execID, _ := startTestExecution(t, env, token)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/executions/"+execID+"/cancel", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("cancel: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != entity.ExecutionStatusCancelled {
		t.Fatalf("status = %v", data["status"])
	}
	if data["completed_at"] == nil {
		t.Fatalf("completed_at not set on cancel")
	}
}

// TestExecutionStartOnGlobalProcedure 全局程序可被任意租户执行
func TestExecutionStartOnGlobalProcedure(t *testing.T) {
	env := setupExecutionTest(t)

	global := &entity.Procedure{
		ID:        "proc-global-exec",
		TenantID:  "tenant-library",
		Title:     "通用开机检查",
		Category:  "inspection",
		IsGlobal:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := env.DB.Create(global).Error; err != nil {
		t.Fatalf("failed to seed global procedure: %v", err)
	}

	token := testutil.DefaultTestToken()
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/executions",
		map[string]interface{}{"procedure_id": "proc-global-exec"}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("start on global: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["tenant_id"] != testutil.DefaultTenant {
		t.Fatalf("execution tenant = %v", data["tenant_id"])
	}
}

// TestExecutionTenantIsolation 其他租户看不到执行记录
func TestExecutionTenantIsolation(t *testing.T) {
	env := setupExecutionTest(t)

	_, execID, _ := startTestExecution(t, env, testutil.DefaultTestToken())

	other := testutil.TokenForTenant("tenant-002")
	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/executions/"+execID, nil, other)
	if w.Code != http.StatusNotFound {
		t.Fatalf("cross-tenant read should 404, got %d", w.Code)
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/executions", nil, other)
	if w.Code != http.StatusOK {
		t.Fatalf("list: got %d", w.Code)
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if items, ok := data["items"].([]interface{}); ok && len(items) != 0 {
		t.Fatalf("expected empty list for other tenant, got %d items", len(items))
	}
	pagination := data["pagination"].(map[string]interface{})
	if pagination["total"].(float64) != 0 {
		t.Fatalf("total = %v, want 0", pagination["total"])
	}
}

// TestExportExecutions 导出Excel
func TestExportExecutions(t *testing.T) {
	env := setupExecutionTest(t)
	token := testutil.DefaultTestToken()

	procID, execID, fieldID := startTestExecution(t, env, token)
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/executions/"+execID+"/submit",
		map[string]interface{}{"answers": map[string]interface{}{fieldID: 68.0}}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("submit: got %d", w.Code)
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/procedures/"+procID+"/executions/export", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("export: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, ".xlsx") {
		t.Fatalf("content disposition = %q", cd)
	}
	if w.Body.Len() == 0 {
		t.Fatalf("empty export body")
	}
}
