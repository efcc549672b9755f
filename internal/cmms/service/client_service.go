package service

import (
	"context"
	"fmt"

	"github.com/bitfantasy/nimo-cmms/internal/cmms/entity"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/repository"
	"github.com/google/uuid"
)

// ClientService 客户服务
type ClientService struct {
	repo *repository.ClientRepository
}

func NewClientService(repo *repository.ClientRepository) *ClientService {
	return &ClientService{repo: repo}
}

// CreateClientRequest 创建客户请求
type CreateClientRequest struct {
	Name         string `json:"name" binding:"required"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
	ContactEmail string `json:"contact_email"`
	Address      string `json:"address"`
	Notes        string `json:"notes"`
}

// UpdateClientRequest 更新客户请求
type UpdateClientRequest struct {
	Name         *string `json:"name"`
	Status       *string `json:"status"`
	ContactName  *string `json:"contact_name"`
	ContactPhone *string `json:"contact_phone"`
	ContactEmail *string `json:"contact_email"`
	Address      *string `json:"address"`
	Notes        *string `json:"notes"`
}

// List 获取客户列表
func (s *ClientService) List(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Client, int64, error) {
	return s.repo.FindAll(ctx, tenantID, page, pageSize, filters)
}

// Get 获取客户详情
func (s *ClientService) Get(ctx context.Context, tenantID, id string) (*entity.Client, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

// Create 创建客户
func (s *ClientService) Create(ctx context.Context, tenantID, userID string, req *CreateClientRequest) (*entity.Client, error) {
	client := &entity.Client{
		ID:           uuid.New().String()[:32],
		TenantID:     tenantID,
		Name:         req.Name,
		Status:       entity.ClientStatusActive,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
		Address:      req.Address,
		Notes:        req.Notes,
		CreatedBy:    userID,
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("创建客户失败: %w", err)
	}
	return client, nil
}

// Update 更新客户
func (s *ClientService) Update(ctx context.Context, tenantID, id string, req *UpdateClientRequest) (*entity.Client, error) {
	client, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Status != nil {
		client.Status = *req.Status
	}
	if req.ContactName != nil {
		client.ContactName = *req.ContactName
	}
	if req.ContactPhone != nil {
		client.ContactPhone = *req.ContactPhone
	}
	if req.ContactEmail != nil {
		client.ContactEmail = *req.ContactEmail
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("更新客户失败: %w", err)
	}
	return client, nil
}

// Delete 删除客户
func (s *ClientService) Delete(ctx context.Context, tenantID, id string) error {
	return s.repo.Delete(ctx, tenantID, id)
}
