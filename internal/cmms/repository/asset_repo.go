package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/nimo-cmms/internal/cmms/entity"
	"gorm.io/gorm"
)

// AssetRepository 资产仓库
type AssetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// FindAll 查询资产列表
func (r *AssetRepository) FindAll(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Asset, int64, error) {
	var items []entity.Asset
	var total int64

	query := r.db.WithContext(ctx).
		Model(&entity.Asset{}).
		Where("tenant_id = ?", tenantID)

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if category := filters["category"]; category != "" {
		query = query.Where("category = ?", category)
	}
	if clientID := filters["client_id"]; clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR asset_code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找资产
func (r *AssetRepository) FindByID(ctx context.Context, tenantID, id string) (*entity.Asset, error) {
	var asset entity.Asset
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// Create 创建资产
func (r *AssetRepository) Create(ctx context.Context, asset *entity.Asset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

// Update 更新资产
func (r *AssetRepository) Update(ctx context.Context, asset *entity.Asset) error {
	return r.db.WithContext(ctx).Save(asset).Error
}

// Delete 删除资产
func (r *AssetRepository) Delete(ctx context.Context, tenantID, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&entity.Asset{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GenerateCode 生成资产编码 AST-{year}-{4位}
func (r *AssetRepository) GenerateCode(ctx context.Context, tenantID string) (string, error) {
	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("AST-%s-", year)

	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.Asset{}).
		Select("COALESCE(MAX(asset_code), '')").
		Where("tenant_id = ? AND asset_code LIKE ?", tenantID, prefix+"%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, "AST-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("AST-%s-%04d", year, seq), nil
}
