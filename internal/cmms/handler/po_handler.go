package handler

import (
	"errors"

	"github.com/bitfantasy/nimo-cmms/internal/cmms/repository"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/service"
	"github.com/gin-gonic/gin"
)

// POHandler 采购订单处理器
type POHandler struct {
	svc *service.POService
}

func NewPOHandler(svc *service.POService) *POHandler {
	return &POHandler{svc: svc}
}

// ListPOs 采购订单列表
// GET /api/v1/purchase-orders?search=xxx&status=xxx&vendor_id=xxx&page=1&page_size=20
func (h *POHandler) ListPOs(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":    c.Query("search"),
		"status":    c.Query("status"),
		"vendor_id": c.Query("vendor_id"),
	}

	items, total, err := h.svc.List(c.Request.Context(), GetTenantID(c), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取采购订单列表失败: "+err.Error())
		return
	}
	SuccessList(c, items, page, pageSize, total)
}

// GetPO 采购订单详情
// GET /api/v1/purchase-orders/:id
func (h *POHandler) GetPO(c *gin.Context) {
	po, err := h.svc.Get(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		NotFound(c, "采购订单不存在")
		return
	}
	Success(c, po)
}

// CreatePO 创建采购订单
// POST /api/v1/purchase-orders
func (h *POHandler) CreatePO(c *gin.Context) {
	var req service.CreatePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	po, err := h.svc.Create(c.Request.Context(), GetTenantID(c), GetUserID(c), &req)
	if err != nil {
		InternalError(c, "创建采购订单失败: "+err.Error())
		return
	}
	Created(c, po)
}

// UpdatePO 更新采购订单
// PUT /api/v1/purchase-orders/:id
func (h *POHandler) UpdatePO(c *gin.Context) {
	var req service.UpdatePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	po, err := h.svc.Update(c.Request.Context(), GetTenantID(c), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "采购订单不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, po)
}

// OrderPO 下单
// POST /api/v1/purchase-orders/:id/order
func (h *POHandler) OrderPO(c *gin.Context) {
	po, err := h.svc.Order(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "采购订单不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, po)
}

// ReceivePOItem 行项收货
// POST /api/v1/purchase-orders/:id/items/:item_id/receive
func (h *POHandler) ReceivePOItem(c *gin.Context) {
	var req struct {
		Quantity float64 `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	po, err := h.svc.ReceiveItem(c.Request.Context(), GetTenantID(c), c.Param("id"), c.Param("item_id"), req.Quantity)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "采购订单不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, po)
}

// CancelPO 取消采购订单
// POST /api/v1/purchase-orders/:id/cancel
func (h *POHandler) CancelPO(c *gin.Context) {
	po, err := h.svc.Cancel(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "采购订单不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, po)
}

// DeletePO 删除采购订单
// DELETE /api/v1/purchase-orders/:id
func (h *POHandler) DeletePO(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetTenantID(c), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "采购订单不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, nil)
}
