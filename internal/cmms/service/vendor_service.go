package service

import (
	"context"
	"fmt"

	"github.com/bitfantasy/nimo-cmms/internal/cmms/entity"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/repository"
	"github.com/google/uuid"
)

// VendorService 供应商服务
type VendorService struct {
	repo *repository.VendorRepository
}

func NewVendorService(repo *repository.VendorRepository) *VendorService {
	return &VendorService{repo: repo}
}

// CreateVendorRequest 创建供应商请求
type CreateVendorRequest struct {
	Name         string `json:"name" binding:"required"`
	Category     string `json:"category"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
	ContactEmail string `json:"contact_email"`
	Address      string `json:"address"`
	Notes        string `json:"notes"`
}

// UpdateVendorRequest 更新供应商请求
type UpdateVendorRequest struct {
	Name         *string `json:"name"`
	Category     *string `json:"category"`
	Status       *string `json:"status"`
	ContactName  *string `json:"contact_name"`
	ContactPhone *string `json:"contact_phone"`
	ContactEmail *string `json:"contact_email"`
	Address      *string `json:"address"`
	Notes        *string `json:"notes"`
}

// List 获取供应商列表
func (s *VendorService) List(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Vendor, int64, error) {
	return s.repo.FindAll(ctx, tenantID, page, pageSize, filters)
}

// Get 获取供应商详情
func (s *VendorService) Get(ctx context.Context, tenantID, id string) (*entity.Vendor, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

// Create 创建供应商
func (s *VendorService) Create(ctx context.Context, tenantID, userID string, req *CreateVendorRequest) (*entity.Vendor, error) {
	vendor := &entity.Vendor{
		ID:           uuid.New().String()[:32],
		TenantID:     tenantID,
		Name:         req.Name,
		Category:     req.Category,
		Status:       entity.VendorStatusActive,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
		Address:      req.Address,
		Notes:        req.Notes,
		CreatedBy:    userID,
	}

	if err := s.repo.Create(ctx, vendor); err != nil {
		return nil, fmt.Errorf("创建供应商失败: %w", err)
	}
	return vendor, nil
}

// Update 更新供应商
func (s *VendorService) Update(ctx context.Context, tenantID, id string, req *UpdateVendorRequest) (*entity.Vendor, error) {
	vendor, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		vendor.Name = *req.Name
	}
	if req.Category != nil {
		vendor.Category = *req.Category
	}
	if req.Status != nil {
		vendor.Status = *req.Status
	}
	if req.ContactName != nil {
		vendor.ContactName = *req.ContactName
	}
	if req.ContactPhone != nil {
		vendor.ContactPhone = *req.ContactPhone
	}
	if req.ContactEmail != nil {
		vendor.ContactEmail = *req.ContactEmail
	}
	if req.Address != nil {
		vendor.Address = *req.Address
	}
	if req.Notes != nil {
		vendor.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, vendor); err != nil {
		return nil, fmt.Errorf("更新供应商失败: %w", err)
	}
	return vendor, nil
}

// Delete 删除供应商
func (s *VendorService) Delete(ctx context.Context, tenantID, id string) error {
	return s.repo.Delete(ctx, tenantID, id)
}
