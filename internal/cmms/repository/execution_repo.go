package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/nimo-cmms/internal/cmms/entity"
	"gorm.io/gorm"
)

// ExecutionRepository 执行记录仓库
type ExecutionRepository struct {
	db *gorm.DB
}

func NewExecutionRepository(db *gorm.DB) *ExecutionRepository {
	return &ExecutionRepository{db: db}
}

// FindAll 查询执行记录列表
func (r *ExecutionRepository) FindAll(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.ProcedureExecution, int64, error) {
	var items []entity.ProcedureExecution
	var total int64

	query := r.db.WithContext(ctx).
		Model(&entity.ProcedureExecution{}).
		Where("tenant_id = ?", tenantID)

	if procedureID := filters["procedure_id"]; procedureID != "" {
		query = query.Where("procedure_id = ?", procedureID)
	}
	if workOrderID := filters["work_order_id"]; workOrderID != "" {
		query = query.Where("work_order_id = ?", workOrderID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("started_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找执行记录
func (r *ExecutionRepository) FindByID(ctx context.Context, tenantID, id string) (*entity.ProcedureExecution, error) {
	var exec entity.ProcedureExecution
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&exec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &exec, nil
}

// Create 创建执行记录
func (r *ExecutionRepository) Create(ctx context.Context, exec *entity.ProcedureExecution) error {
	return r.db.WithContext(ctx).Create(exec).Error
}

// Update 更新执行记录
func (r *ExecutionRepository) Update(ctx context.Context, exec *entity.ProcedureExecution) error {
	return r.db.WithContext(ctx).Save(exec).Error
}

// FindByProcedure 某程序的全部执行记录（导出用）
func (r *ExecutionRepository) FindByProcedure(ctx context.Context, tenantID, procedureID string) ([]entity.ProcedureExecution, error) {
	var items []entity.ProcedureExecution
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND procedure_id = ?", tenantID, procedureID).
		Order("started_at ASC").
		Find(&items).Error
	return items, err
}
