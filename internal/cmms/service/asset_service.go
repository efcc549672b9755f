package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bitfantasy/nimo-cmms/internal/cmms/entity"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/repository"
	"github.com/google/uuid"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// AssetService 资产服务
type AssetService struct {
	repo *repository.AssetRepository
}

func NewAssetService(repo *repository.AssetRepository) *AssetService {
	return &AssetService{repo: repo}
}

// CreateAssetRequest 创建资产请求
type CreateAssetRequest struct {
	Name         string     `json:"name" binding:"required"`
	Category     string     `json:"category"`
	Location     string     `json:"location"`
	SerialNumber string     `json:"serial_number"`
	Manufacturer string     `json:"manufacturer"`
	Model        string     `json:"model"`
	VendorID     *string    `json:"vendor_id"`
	ClientID     *string    `json:"client_id"`
	PurchaseDate *time.Time `json:"purchase_date"`
	WarrantyEnd  *time.Time `json:"warranty_end"`
	Notes        string     `json:"notes"`
}

// UpdateAssetRequest 更新资产请求
type UpdateAssetRequest struct {
	Name         *string    `json:"name"`
	Category     *string    `json:"category"`
	Status       *string    `json:"status"`
	Location     *string    `json:"location"`
	SerialNumber *string    `json:"serial_number"`
	Manufacturer *string    `json:"manufacturer"`
	Model        *string    `json:"model"`
	VendorID     *string    `json:"vendor_id"`
	ClientID     *string    `json:"client_id"`
	PurchaseDate *time.Time `json:"purchase_date"`
	WarrantyEnd  *time.Time `json:"warranty_end"`
	Notes        *string    `json:"notes"`
}

// List 获取资产列表
func (s *AssetService) List(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Asset, int64, error) {
	return s.repo.FindAll(ctx, tenantID, page, pageSize, filters)
}

// Get 获取资产详情
func (s *AssetService) Get(ctx context.Context, tenantID, id string) (*entity.Asset, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

// Create 创建资产
func (s *AssetService) Create(ctx context.Context, tenantID, userID string, req *CreateAssetRequest) (*entity.Asset, error) {
	code, err := s.repo.GenerateCode(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("生成资产编码失败: %w", err)
	}

	asset := &entity.Asset{
		ID:           uuid.New().String()[:32],
		TenantID:     tenantID,
		AssetCode:    code,
		Name:         req.Name,
		Category:     req.Category,
		Status:       entity.AssetStatusOperational,
		Location:     req.Location,
		SerialNumber: req.SerialNumber,
		Manufacturer: req.Manufacturer,
		Model:        req.Model,
		VendorID:     req.VendorID,
		ClientID:     req.ClientID,
		PurchaseDate: req.PurchaseDate,
		WarrantyEnd:  req.WarrantyEnd,
		Notes:        req.Notes,
		CreatedBy:    userID,
	}

	if err := s.repo.Create(ctx, asset); err != nil {
		return nil, fmt.Errorf("创建资产失败: %w", err)
	}
	return asset, nil
}

// Update 更新资产
func (s *AssetService) Update(ctx context.Context, tenantID, id string, req *UpdateAssetRequest) (*entity.Asset, error) {
	asset, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		asset.Name = *req.Name
	}
	if req.Category != nil {
		asset.Category = *req.Category
	}
	if req.Status != nil {
		asset.Status = *req.Status
	}
	if req.Location != nil {
		asset.Location = *req.Location
	}
	if req.SerialNumber != nil {
		asset.SerialNumber = *req.SerialNumber
	}
	if req.Manufacturer != nil {
		asset.Manufacturer = *req.Manufacturer
	}
	if req.Model != nil {
		asset.Model = *req.Model
	}
	if req.VendorID != nil {
		asset.VendorID = req.VendorID
	}
	if req.ClientID != nil {
		asset.ClientID = req.ClientID
	}
	if req.PurchaseDate != nil {
		asset.PurchaseDate = req.PurchaseDate
	}
	if req.WarrantyEnd != nil {
		asset.WarrantyEnd = req.WarrantyEnd
	}
	if req.Notes != nil {
		asset.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, asset); err != nil {
		return nil, fmt.Errorf("更新资产失败: %w", err)
	}
	return asset, nil
}

// Delete 删除资产
func (s *AssetService) Delete(ctx context.Context, tenantID, id string) error {
	return s.repo.Delete(ctx, tenantID, id)
}

// ImportResult CSV导入结果
type ImportResult struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// ImportCSV 从CSV批量导入资产
// 列: name,category,location,serial_number,manufacturer,model,notes
// 非UTF-8内容按GBK解码（Excel导出的CSV常见）。
func (s *AssetService) ImportCSV(ctx context.Context, tenantID, userID string, reader io.Reader) (*ImportResult, error) {
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("读取文件失败: %w", err)
	}
	if !utf8.Valid(raw) {
		// GBK → UTF-8
		decoded, _, convErr := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), raw)
		if convErr != nil {
			return nil, fmt.Errorf("文件编码不支持: %w", convErr)
		}
		raw = decoded
	}

	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1

	result := &ImportResult{}
	lineNo := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("解析CSV失败: %w", err)
		}
		lineNo++
		// 第一行是表头，跳过
		if lineNo == 1 {
			continue
		}
		if len(record) < 1 || strings.TrimSpace(record[0]) == "" {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("第 %d 行: 名称为空", lineNo))
			continue
		}

		code, err := s.repo.GenerateCode(ctx, tenantID)
		if err != nil {
			return nil, fmt.Errorf("生成资产编码失败: %w", err)
		}

		asset := entity.Asset{
			ID:        uuid.New().String()[:32],
			TenantID:  tenantID,
			AssetCode: code,
			Name:      strings.TrimSpace(record[0]),
			Status:    entity.AssetStatusOperational,
			CreatedBy: userID,
		}
		if len(record) > 1 {
			asset.Category = strings.TrimSpace(record[1])
		}
		if len(record) > 2 {
			asset.Location = strings.TrimSpace(record[2])
		}
		if len(record) > 3 {
			asset.SerialNumber = strings.TrimSpace(record[3])
		}
		if len(record) > 4 {
			asset.Manufacturer = strings.TrimSpace(record[4])
		}
		if len(record) > 5 {
			asset.Model = strings.TrimSpace(record[5])
		}
		if len(record) > 6 {
			asset.Notes = strings.TrimSpace(record[6])
		}

		// 同一批内编码需要递增，逐条落库
		if err := s.repo.Create(ctx, &asset); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("第 %d 行: %v", lineNo, err))
			continue
		}
		result.Success++
	}

	return result, nil
}
