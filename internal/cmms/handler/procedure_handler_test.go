package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/bitfantasy/nimo-cmms/internal/cmms/entity"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/repository"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/service"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/testutil"
)

func setupProcedureTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	procRepo := repository.NewProcedureRepository(db)
	svc := service.NewProcedureService(procRepo, nil)
	h := NewProcedureHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/procedures", h.ListProcedures)
	api.POST("/procedures", h.CreateProcedure)
	api.GET("/procedures/field-types", h.ListFieldTypes)
	api.GET("/procedures/:id", h.GetProcedure)
	api.PUT("/procedures/:id", h.UpdateProcedure)
	api.DELETE("/procedures/:id", h.DeleteProcedure)
	api.POST("/procedures/:id/duplicate", h.DuplicateProcedure)
	api.POST("/procedures/:id/reorder", h.ReorderProcedureFields)
	api.POST("/procedures/:id/render", h.RenderProcedureForm)
	api.POST("/procedures/:id/validate", h.ValidateProcedureAnswers)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func createTestProcedure(t *testing.T, env *testutil.TestEnv, token string) map[string]interface{} {
	t.Helper()
	body := map[string]interface{}{
		"title":       "月度安全巡检",
		"description": "车间每月例行安全检查",
		"category":    "safety",
		"tags":        []string{"车间", "月度"},
		"fields": []map[string]interface{}{
			{"label": "检查区域", "field_type": "text", "is_required": true},
			{"label": "灭火器压力正常", "field_type": "inspection", "options": map[string]interface{}{
				"allow_comments":          true,
				"require_comment_on_fail": true,
			}},
			{"label": "安全须知", "field_type": "section"},
		},
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procedures", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	return resp["data"].(map[string]interface{})
}

// TestProcedureCreateAndGet 创建程序并读取详情，字段顺序为 0..N-1
func TestProcedureCreateAndGet(t *testing.T) {
	env := setupProcedureTest(t)
	token := testutil.DefaultTestToken()

	created := createTestProcedure(t, env, token)
	procID := created["id"].(string)

	fields := created["fields"].([]interface{})
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	for i, raw := range fields {
		f := raw.(map[string]interface{})
		if int(f["order_index"].(float64)) != i {
			t.Fatalf("field %d: order_index = %v", i, f["order_index"])
		}
	}

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/procedures/"+procID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["title"] != "月度安全巡检" {
		t.Fatalf("title = %v", data["title"])
	}
	if data["executions_count"].(float64) != 0 {
		t.Fatalf("executions_count = %v, want 0", data["executions_count"])
	}
}

// TestProcedureUpdateReplacesFields fields 非空时整组替换并重新编号
func TestProcedureUpdateReplacesFields(t *testing.T) {
	env := setupProcedureTest(t)
	token := testutil.DefaultTestToken()

	created := createTestProcedure(t, env, token)
	procID := created["id"].(string)
	oldFieldID := created["fields"].([]interface{})[0].(map[string]interface{})["id"].(string)

	body := map[string]interface{}{
		"fields": []map[string]interface{}{
			{"label": "温度读数", "field_type": "number", "options": map[string]interface{}{
				"min_value": 0, "max_value": 120,
			}},
			{"label": "总体评价", "field_type": "rating"},
		},
	}
	w := testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/procedures/"+procID, body, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	fields := resp["data"].(map[string]interface{})["fields"].([]interface{})
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields after replace, got %d", len(fields))
	}
	for i, raw := range fields {
		f := raw.(map[string]interface{})
		if f["id"].(string) == oldFieldID {
			t.Fatalf("old field survived the replace")
		}
		if int(f["order_index"].(float64)) != i {
			t.Fatalf("field %d: order_index = %v", i, f["order_index"])
		}
	}

	// 旧字段在库里也应消失
	var count int64
	env.DB.Model(&entity.ProcedureField{}).Where("id = ?", oldFieldID).Count(&count)
	if count != 0 {
		t.Fatalf("old field row still in database")
	}
}

// TestProcedureReorderFields 按给定ID顺序重排
func TestProcedureReorderFields(t *testing.T) {
	env := setupProcedureTest(t)
	token := testutil.DefaultTestToken()

	created := createTestProcedure(t, env, token)
	procID := created["id"].(string)
	fields := created["fields"].([]interface{})

	// 倒序
	reversed := make([]string, 0, len(fields))
	for i := len(fields) - 1; i >= 0; i-- {
		reversed = append(reversed, fields[i].(map[string]interface{})["id"].(string))
	}

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procedures/"+procID+"/reorder",
		map[string]interface{}{"field_ids": reversed}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	got := resp["data"].(map[string]interface{})["fields"].([]interface{})
	for i, raw := range got {
		f := raw.(map[string]interface{})
		if f["id"].(string) != reversed[i] {
			t.Fatalf("position %d: got %v, want %s", i, f["id"], reversed[i])
		}
		if int(f["order_index"].(float64)) != i {
			t.Fatalf("position %d: order_index = %v", i, f["order_index"])
		}
	}

	// 数量不齐 → 400
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procedures/"+procID+"/reorder",
		map[string]interface{}{"field_ids": reversed[:1]}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("partial reorder should fail, got %d", w.Code)
	}
}

// TestProcedureDuplicate 副本归属当前租户、非全局、字段换新ID
func TestProcedureDuplicate(t *testing.T) {
	env := setupProcedureTest(t)
	token := testutil.DefaultTestToken()

	// 另一租户的全局程序
	global := &entity.Procedure{
		ID:       "proc-global-001",
		TenantID: "tenant-library",
		Title:    "通用点检模板",
		Category: "inspection",
		IsGlobal: true,
		Fields: []entity.ProcedureField{
			{ID: "fld-g1", ProcedureID: "proc-global-001", Label: "外观检查", FieldType: "inspection", OrderIndex: 0},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := env.DB.Create(global).Error; err != nil {
		t.Fatalf("failed to seed global procedure: %v", err)
	}

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procedures/proc-global-001/duplicate", nil, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	dup := resp["data"].(map[string]interface{})
	if dup["tenant_id"] != testutil.DefaultTenant {
		t.Fatalf("duplicate tenant = %v", dup["tenant_id"])
	}
	if dup["is_global"].(bool) {
		t.Fatalf("duplicate must never be global")
	}
	if dup["title"] != "通用点检模板 (Copy)" {
		t.Fatalf("title = %v", dup["title"])
	}
	f := dup["fields"].([]interface{})[0].(map[string]interface{})
	if f["id"] == "fld-g1" {
		t.Fatalf("duplicated field kept the source id")
	}

	// 指定标题时不追加 (Copy)
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procedures/proc-global-001/duplicate",
		map[string]interface{}{"title": "我的点检模板"}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	named := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if named["title"] != "我的点检模板" {
		t.Fatalf("title = %v", named["title"])
	}
}

// TestProcedureTenantIsolation 其他租户的非全局程序不可见
func TestProcedureTenantIsolation(t *testing.T) {
	env := setupProcedureTest(t)

	created := createTestProcedure(t, env, testutil.DefaultTestToken())
	procID := created["id"].(string)

	other := testutil.TokenForTenant("tenant-002")
	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/procedures/"+procID, nil, other)
	if w.Code != http.StatusNotFound {
		t.Fatalf("cross-tenant read should 404, got %d", w.Code)
	}

	// 修改与删除同样拒绝
	w = testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/procedures/"+procID,
		map[string]interface{}{"title": "hijack"}, other)
	if w.Code != http.StatusNotFound {
		t.Fatalf("cross-tenant update should 404, got %d", w.Code)
	}
	w = testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/procedures/"+procID, nil, other)
	if w.Code != http.StatusNotFound {
		t.Fatalf("cross-tenant delete should 404, got %d", w.Code)
	}
}

// TestProcedureCreateRejectsBadFields 非法类型与配置在创建时拒绝
func TestProcedureCreateRejectsBadFields(t *testing.T) {
	env := setupProcedureTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procedures", map[string]interface{}{
		"title": "坏字段类型",
		"fields": []map[string]interface{}{
			{"label": "x", "field_type": "hologram"},
		},
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid field type should 400, got %d", w.Code)
	}

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procedures", map[string]interface{}{
		"title": "坏选项",
		"fields": []map[string]interface{}{
			{"label": "x", "field_type": "select"},
		},
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("select without choices should 400, got %d", w.Code)
	}
}

// TestProcedureRenderAndValidate 渲染与校验端点
func TestProcedureRenderAndValidate(t *testing.T) {
	env := setupProcedureTest(t)
	token := testutil.DefaultTestToken()

	created := createTestProcedure(t, env, token)
	procID := created["id"].(string)
	inspectionID := created["fields"].([]interface{})[1].(map[string]interface{})["id"].(string)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procedures/"+procID+"/render",
		map[string]interface{}{"answers": map[string]interface{}{}}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("render: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	controls := resp["data"].(map[string]interface{})["controls"].([]interface{})
	if len(controls) != 3 {
		t.Fatalf("expected 3 controls, got %d", len(controls))
	}

	// fail 无备注 → 校验报错但接口本身 200
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procedures/"+procID+"/validate",
		map[string]interface{}{"answers": map[string]interface{}{
			inspectionID: "fail",
		}}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("validate: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["valid"].(bool) {
		t.Fatalf("expected invalid answers (missing required + missing comment)")
	}
}

// TestListFieldTypes 字段类型清单覆盖全部21种
func TestListFieldTypes(t *testing.T) {
	env := setupProcedureTest(t)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/procedures/field-types", nil, testutil.DefaultTestToken())
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	items := resp["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 21 {
		t.Fatalf("expected 21 field types, got %d", len(items))
	}
}
