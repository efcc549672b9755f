package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/nimo-cmms/internal/cmms/entity"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/repository"
	"github.com/google/uuid"
)

// WorkOrderService 工单服务
type WorkOrderService struct {
	repo      *repository.WorkOrderRepository
	assetRepo *repository.AssetRepository
}

func NewWorkOrderService(repo *repository.WorkOrderRepository, assetRepo *repository.AssetRepository) *WorkOrderService {
	return &WorkOrderService{repo: repo, assetRepo: assetRepo}
}

// CreateWorkOrderRequest 创建工单请求
type CreateWorkOrderRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	AssetID     *string    `json:"asset_id"`
	AssigneeID  *string    `json:"assignee_id"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateWorkOrderRequest 更新工单请求
type UpdateWorkOrderRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	AssetID     *string    `json:"asset_id"`
	AssigneeID  *string    `json:"assignee_id"`
	DueDate     *time.Time `json:"due_date"`
}

// List 获取工单列表
func (s *WorkOrderService) List(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.WorkOrder, int64, error) {
	return s.repo.FindAll(ctx, tenantID, page, pageSize, filters)
}

// Get 获取工单详情
func (s *WorkOrderService) Get(ctx context.Context, tenantID, id string) (*entity.WorkOrder, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

// Create 创建工单
func (s *WorkOrderService) Create(ctx context.Context, tenantID, userID string, req *CreateWorkOrderRequest) (*entity.WorkOrder, error) {
	// 资产必须属于当前租户
	if req.AssetID != nil {
		if _, err := s.assetRepo.FindByID(ctx, tenantID, *req.AssetID); err != nil {
			return nil, fmt.Errorf("资产不存在")
		}
	}

	code, err := s.repo.GenerateCode(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("生成工单编码失败: %w", err)
	}

	priority := req.Priority
	if priority == "" {
		priority = entity.WorkOrderPriorityMedium
	}

	wo := &entity.WorkOrder{
		ID:          uuid.New().String()[:32],
		TenantID:    tenantID,
		WOCode:      code,
		Title:       req.Title,
		Description: req.Description,
		Status:      entity.WorkOrderStatusOpen,
		Priority:    priority,
		AssetID:     req.AssetID,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
		CreatedBy:   userID,
	}

	if err := s.repo.Create(ctx, wo); err != nil {
		return nil, fmt.Errorf("创建工单失败: %w", err)
	}
	return wo, nil
}

// Update 更新工单基本信息（状态流转走 Transition）
func (s *WorkOrderService) Update(ctx context.Context, tenantID, id string, req *UpdateWorkOrderRequest) (*entity.WorkOrder, error) {
	wo, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		wo.Title = *req.Title
	}
	if req.Description != nil {
		wo.Description = *req.Description
	}
	if req.Priority != nil {
		wo.Priority = *req.Priority
	}
	if req.AssetID != nil {
		if _, err := s.assetRepo.FindByID(ctx, tenantID, *req.AssetID); err != nil {
			return nil, fmt.Errorf("资产不存在")
		}
		wo.AssetID = req.AssetID
	}
	if req.AssigneeID != nil {
		wo.AssigneeID = req.AssigneeID
	}
	if req.DueDate != nil {
		wo.DueDate = req.DueDate
	}

	// Save不回写关联资产
	asset := wo.Asset
	wo.Asset = nil
	if err := s.repo.Update(ctx, wo); err != nil {
		return nil, fmt.Errorf("更新工单失败: %w", err)
	}
	wo.Asset = asset
	return wo, nil
}

// Transition 工单状态流转
func (s *WorkOrderService) Transition(ctx context.Context, tenantID, id, toStatus string) (*entity.WorkOrder, error) {
	wo, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if !entity.CanTransitionWorkOrder(wo.Status, toStatus) {
		return nil, fmt.Errorf("不允许从 %s 流转到 %s", wo.Status, toStatus)
	}

	now := time.Now()
	wo.Status = toStatus
	switch toStatus {
	case entity.WorkOrderStatusInProgress:
		if wo.StartedAt == nil {
			wo.StartedAt = &now
		}
	case entity.WorkOrderStatusCompleted:
		wo.CompletedAt = &now
	}

	asset := wo.Asset
	wo.Asset = nil
	if err := s.repo.Update(ctx, wo); err != nil {
		return nil, fmt.Errorf("更新工单状态失败: %w", err)
	}
	wo.Asset = asset
	return wo, nil
}

// Delete 删除工单
func (s *WorkOrderService) Delete(ctx context.Context, tenantID, id string) error {
	return s.repo.Delete(ctx, tenantID, id)
}
