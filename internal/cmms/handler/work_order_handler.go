package handler

import (
	"errors"

	"github.com/bitfantasy/nimo-cmms/internal/cmms/repository"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/service"
	"github.com/gin-gonic/gin"
)

// WorkOrderHandler 工单处理器
type WorkOrderHandler struct {
	svc *service.WorkOrderService
}

func NewWorkOrderHandler(svc *service.WorkOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{svc: svc}
}

// ListWorkOrders 工单列表
// GET /api/v1/work-orders?search=xxx&status=xxx&priority=xxx&asset_id=xxx&page=1&page_size=20
func (h *WorkOrderHandler) ListWorkOrders(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":      c.Query("search"),
		"status":      c.Query("status"),
		"priority":    c.Query("priority"),
		"asset_id":    c.Query("asset_id"),
		"assignee_id": c.Query("assignee_id"),
	}

	items, total, err := h.svc.List(c.Request.Context(), GetTenantID(c), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取工单列表失败: "+err.Error())
		return
	}
	SuccessList(c, items, page, pageSize, total)
}

// GetWorkOrder 工单详情
// GET /api/v1/work-orders/:id
func (h *WorkOrderHandler) GetWorkOrder(c *gin.Context) {
	wo, err := h.svc.Get(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		NotFound(c, "工单不存在")
		return
	}
	Success(c, wo)
}

// CreateWorkOrder 创建工单
// POST /api/v1/work-orders
func (h *WorkOrderHandler) CreateWorkOrder(c *gin.Context) {
	var req service.CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	wo, err := h.svc.Create(c.Request.Context(), GetTenantID(c), GetUserID(c), &req)
	if err != nil {
		InternalError(c, "创建工单失败: "+err.Error())
		return
	}
	Created(c, wo)
}

// UpdateWorkOrder 更新工单
// PUT /api/v1/work-orders/:id
func (h *WorkOrderHandler) UpdateWorkOrder(c *gin.Context) {
	var req service.UpdateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	wo, err := h.svc.Update(c.Request.Context(), GetTenantID(c), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "工单不存在")
			return
		}
		InternalError(c, "更新工单失败: "+err.Error())
		return
	}
	Success(c, wo)
}

// TransitionWorkOrder 工单状态流转
// POST /api/v1/work-orders/:id/transition
func (h *WorkOrderHandler) TransitionWorkOrder(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	wo, err := h.svc.Transition(c.Request.Context(), GetTenantID(c), c.Param("id"), req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "工单不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, wo)
}

// DeleteWorkOrder 删除工单
// DELETE /api/v1/work-orders/:id
func (h *WorkOrderHandler) DeleteWorkOrder(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetTenantID(c), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "工单不存在")
			return
		}
		InternalError(c, "删除工单失败: "+err.Error())
		return
	}
	Success(c, nil)
}
