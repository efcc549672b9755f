package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/nimo-cmms/internal/cmms/entity"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/repository"
	"github.com/google/uuid"
)

// POService 采购订单服务
type POService struct {
	repo       *repository.PORepository
	vendorRepo *repository.VendorRepository
}

func NewPOService(repo *repository.PORepository, vendorRepo *repository.VendorRepository) *POService {
	return &POService{repo: repo, vendorRepo: vendorRepo}
}

// POItemRequest 采购订单行项
type POItemRequest struct {
	Name      string  `json:"name" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required"`
	UnitPrice float64 `json:"unit_price"`
	Unit      string  `json:"unit"`
}

// CreatePORequest 创建采购订单请求
type CreatePORequest struct {
	Title    string          `json:"title"`
	VendorID *string         `json:"vendor_id"`
	Currency string          `json:"currency"`
	Notes    string          `json:"notes"`
	Items    []POItemRequest `json:"items"`
}

// UpdatePORequest 更新采购订单请求
type UpdatePORequest struct {
	Title    *string `json:"title"`
	VendorID *string `json:"vendor_id"`
	Currency *string `json:"currency"`
	Notes    *string `json:"notes"`
}

// List 获取采购订单列表
func (s *POService) List(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.PurchaseOrder, int64, error) {
	return s.repo.FindAll(ctx, tenantID, page, pageSize, filters)
}

// Get 获取采购订单详情
func (s *POService) Get(ctx context.Context, tenantID, id string) (*entity.PurchaseOrder, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

// Create 创建采购订单
func (s *POService) Create(ctx context.Context, tenantID, userID string, req *CreatePORequest) (*entity.PurchaseOrder, error) {
	if req.VendorID != nil {
		if _, err := s.vendorRepo.FindByID(ctx, tenantID, *req.VendorID); err != nil {
			return nil, fmt.Errorf("供应商不存在")
		}
	}

	code, err := s.repo.GenerateCode(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("生成PO编码失败: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	poID := uuid.New().String()[:32]
	var total float64
	items := make([]entity.POItem, 0, len(req.Items))
	for i, ir := range req.Items {
		unit := ir.Unit
		if unit == "" {
			unit = "pcs"
		}
		items = append(items, entity.POItem{
			ID:        uuid.New().String()[:32],
			POID:      poID,
			Name:      ir.Name,
			Quantity:  ir.Quantity,
			UnitPrice: ir.UnitPrice,
			Unit:      unit,
			Status:    entity.POItemStatusPending,
			SortOrder: i,
		})
		total += ir.Quantity * ir.UnitPrice
	}

	po := &entity.PurchaseOrder{
		ID:          poID,
		TenantID:    tenantID,
		POCode:      code,
		Title:       req.Title,
		VendorID:    req.VendorID,
		Status:      entity.POStatusDraft,
		TotalAmount: total,
		Currency:    currency,
		Notes:       req.Notes,
		CreatedBy:   userID,
		Items:       items,
	}

	if err := s.repo.Create(ctx, po); err != nil {
		return nil, fmt.Errorf("创建采购订单失败: %w", err)
	}
	return po, nil
}

// Update 更新采购订单基本信息
func (s *POService) Update(ctx context.Context, tenantID, id string, req *UpdatePORequest) (*entity.PurchaseOrder, error) {
	po, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if po.Status != entity.POStatusDraft {
		return nil, fmt.Errorf("只能修改草稿状态的采购订单")
	}

	if req.Title != nil {
		po.Title = *req.Title
	}
	if req.VendorID != nil {
		if _, err := s.vendorRepo.FindByID(ctx, tenantID, *req.VendorID); err != nil {
			return nil, fmt.Errorf("供应商不存在")
		}
		po.VendorID = req.VendorID
	}
	if req.Currency != nil {
		po.Currency = *req.Currency
	}
	if req.Notes != nil {
		po.Notes = *req.Notes
	}

	// Save不回写关联行项和供应商
	po.Items = nil
	po.Vendor = nil
	if err := s.repo.Update(ctx, po); err != nil {
		return nil, fmt.Errorf("更新采购订单失败: %w", err)
	}
	return s.repo.FindByID(ctx, tenantID, id)
}

// Order 下单（draft → ordered）
func (s *POService) Order(ctx context.Context, tenantID, id string) (*entity.PurchaseOrder, error) {
	po, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if po.Status != entity.POStatusDraft {
		return nil, fmt.Errorf("只能对草稿状态的采购订单下单")
	}
	if len(po.Items) == 0 {
		return nil, fmt.Errorf("采购订单没有行项")
	}

	now := time.Now()
	po.Status = entity.POStatusOrdered
	po.OrderedAt = &now

	po.Items = nil
	po.Vendor = nil
	if err := s.repo.Update(ctx, po); err != nil {
		return nil, fmt.Errorf("更新采购订单失败: %w", err)
	}
	return s.repo.FindByID(ctx, tenantID, id)
}

// ReceiveItem 行项收货，并按全部行项的收货情况联动PO状态
func (s *POService) ReceiveItem(ctx context.Context, tenantID, poID, itemID string, qty float64) (*entity.PurchaseOrder, error) {
	po, err := s.repo.FindByID(ctx, tenantID, poID)
	if err != nil {
		return nil, err
	}
	if po.Status != entity.POStatusOrdered && po.Status != entity.POStatusPartial {
		return nil, fmt.Errorf("当前状态 %s 不允许收货", po.Status)
	}
	if qty <= 0 {
		return nil, fmt.Errorf("收货数量必须大于0")
	}

	found := false
	for _, item := range po.Items {
		if item.ID == itemID {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("行项不属于该采购订单")
	}

	if _, err := s.repo.ReceiveItem(ctx, itemID, qty); err != nil {
		return nil, fmt.Errorf("收货失败: %w", err)
	}

	// 重新读取行项，推导PO状态
	po, err = s.repo.FindByID(ctx, tenantID, poID)
	if err != nil {
		return nil, err
	}
	allReceived := true
	anyReceived := false
	for _, item := range po.Items {
		if item.Status == entity.POItemStatusReceived {
			anyReceived = true
		} else {
			allReceived = false
			if item.ReceivedQty > 0 {
				anyReceived = true
			}
		}
	}
	status := po.Status
	if allReceived {
		status = entity.POStatusReceived
	} else if anyReceived {
		status = entity.POStatusPartial
	}
	if status != po.Status {
		po.Status = status
		items, vendor := po.Items, po.Vendor
		po.Items, po.Vendor = nil, nil
		if err := s.repo.Update(ctx, po); err != nil {
			return nil, fmt.Errorf("更新采购订单状态失败: %w", err)
		}
		po.Items, po.Vendor = items, vendor
	}
	return po, nil
}

// Cancel 取消采购订单
func (s *POService) Cancel(ctx context.Context, tenantID, id string) (*entity.PurchaseOrder, error) {
	po, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if po.Status == entity.POStatusReceived || po.Status == entity.POStatusCancelled {
		return nil, fmt.Errorf("当前状态 %s 不允许取消", po.Status)
	}

	po.Status = entity.POStatusCancelled
	items, vendor := po.Items, po.Vendor
	po.Items, po.Vendor = nil, nil
	if err := s.repo.Update(ctx, po); err != nil {
		return nil, fmt.Errorf("取消采购订单失败: %w", err)
	}
	po.Items, po.Vendor = items, vendor
	return po, nil
}

// Delete 删除采购订单
func (s *POService) Delete(ctx context.Context, tenantID, id string) error {
	po, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if po.Status != entity.POStatusDraft && po.Status != entity.POStatusCancelled {
		return fmt.Errorf("只能删除草稿或已取消的采购订单")
	}
	return s.repo.Delete(ctx, tenantID, id)
}
