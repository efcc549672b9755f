package handler

import (
	"net/http"
	"testing"

	"github.com/bitfantasy/nimo-cmms/internal/cmms/repository"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/service"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/testutil"
)

func setupWorkOrderTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	woRepo := repository.NewWorkOrderRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	woSvc := service.NewWorkOrderService(woRepo, assetRepo)
	assetSvc := service.NewAssetService(assetRepo)
	wh := NewWorkOrderHandler(woSvc)
	ah := NewAssetHandler(assetSvc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.POST("/assets", ah.CreateAsset)
	api.GET("/work-orders", wh.ListWorkOrders)
	api.POST("/work-orders", wh.CreateWorkOrder)
	api.GET("/work-orders/:id", wh.GetWorkOrder)
	api.PUT("/work-orders/:id", wh.UpdateWorkOrder)
	api.POST("/work-orders/:id/transition", wh.TransitionWorkOrder)
	api.DELETE("/work-orders/:id", wh.DeleteWorkOrder)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

// TestWorkOrderLifecycle 创建 → 开工 → 完工
func TestWorkOrderLifecycle(t *testing.T) {
	env := setupWorkOrderTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/assets",
		map[string]interface{}{"name": "3号空压机", "category": "compressor"}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create asset: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	assetID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/work-orders",
		map[string]interface{}{
			"title":    "空压机异响检修",
			"priority": "high",
			"asset_id": assetID,
		}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create work order: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	wo := testutil.ParseResponse(w)["data"].(map[string]interface{})
	woID := wo["id"].(string)
	if wo["status"] != "open" {
		t.Fatalf("new work order status = %v", wo["status"])
	}
	if code := wo["wo_code"].(string); len(code) == 0 {
		t.Fatalf("wo_code not generated")
	}

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/work-orders/"+woID+"/transition",
		map[string]interface{}{"status": "in_progress"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("transition to in_progress: got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["started_at"] == nil {
		t.Fatalf("started_at not stamped")
	}

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/work-orders/"+woID+"/transition",
		map[string]interface{}{"status": "completed"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("transition to completed: got %d: %s", w.Code, w.Body.String())
	}
	data = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["completed_at"] == nil {
		t.Fatalf("completed_at not stamped")
	}
}

// TestWorkOrderInvalidTransition open 不能直接完工
func TestWorkOrderInvalidTransition(t *testing.T) {
	env := setupWorkOrderTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/work-orders",
		map[string]interface{}{"title": "例行保养"}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: got %d: %s", w.Code, w.Body.String())
	}
	woID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/work-orders/"+woID+"/transition",
		map[string]interface{}{"status": "completed"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("open → completed should 400, got %d", w.Code)
	}
}

// TestWorkOrderRejectsForeignAsset 工单不能挂其他租户的资产
func TestWorkOrderRejectsForeignAsset(t *testing.T) {
	env := setupWorkOrderTest(t)

	other := testutil.TokenForTenant("tenant-002")
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/assets",
		map[string]interface{}{"name": "外部设备"}, other)
	if w.Code != http.StatusCreated {
		t.Fatalf("create asset: got %d", w.Code)
	}
	foreignAssetID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/work-orders",
		map[string]interface{}{"title": "越权工单", "asset_id": foreignAssetID}, testutil.DefaultTestToken())
	if w.Code == http.StatusCreated {
		t.Fatalf("work order on foreign asset must not be created")
	}
}
