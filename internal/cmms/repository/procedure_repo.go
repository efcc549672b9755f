package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/nimo-cmms/internal/cmms/entity"
	"gorm.io/gorm"
)

// ProcedureRepository 作业程序仓库
// 所有查询都带租户过滤，跨租户读写在查询层面不可能发生；
// 全局程序（is_global）例外地对所有租户可读。
type ProcedureRepository struct {
	db *gorm.DB
}

func NewProcedureRepository(db *gorm.DB) *ProcedureRepository {
	return &ProcedureRepository{db: db}
}

// scoped 租户可见范围：本租户 + 全局
func (r *ProcedureRepository) scoped(ctx context.Context, tenantID string) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&entity.Procedure{}).
		Where("tenant_id = ? OR is_global = ?", tenantID, true)
}

// FindAll 查询作业程序列表
func (r *ProcedureRepository) FindAll(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Procedure, int64, error) {
	var items []entity.Procedure
	var total int64

	query := r.scoped(ctx, tenantID)

	if category := filters["category"]; category != "" {
		query = query.Where("category = ?", category)
	}
	if isGlobal := filters["is_global"]; isGlobal != "" {
		query = query.Where("is_global = ?", isGlobal == "true")
	}
	if search := filters["search"]; search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找作业程序（字段按 order_index 排序）
func (r *ProcedureRepository) FindByID(ctx context.Context, tenantID, id string) (*entity.Procedure, error) {
	var proc entity.Procedure
	err := r.db.WithContext(ctx).
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Where("id = ? AND (tenant_id = ? OR is_global = ?)", id, tenantID, true).
		First(&proc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &proc, nil
}

// CountExecutions 统计某程序的执行次数（executions_count 的权威来源）
func (r *ProcedureRepository) CountExecutions(ctx context.Context, procedureID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.ProcedureExecution{}).
		Where("procedure_id = ?", procedureID).
		Count(&count).Error
	return count, err
}

// Create 创建作业程序及其字段（同一事务）
func (r *ProcedureRepository) Create(ctx context.Context, proc *entity.Procedure) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := proc.Fields
		proc.Fields = nil
		if err := tx.Create(proc).Error; err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Create(&fields).Error; err != nil {
				return err
			}
		}
		proc.Fields = fields
		return nil
	})
}

// Update 更新作业程序
// replaceFields 为 true 时整组字段删除重建（全量替换，不做局部合并），
// 与程序本体的更新在同一事务内。
func (r *ProcedureRepository) Update(ctx context.Context, proc *entity.Procedure, replaceFields bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := proc.Fields
		proc.Fields = nil
		if err := tx.Save(proc).Error; err != nil {
			return err
		}
		if replaceFields {
			if err := tx.Where("procedure_id = ?", proc.ID).Delete(&entity.ProcedureField{}).Error; err != nil {
				return err
			}
			if len(fields) > 0 {
				if err := tx.Create(&fields).Error; err != nil {
					return err
				}
			}
		}
		proc.Fields = fields
		return nil
	})
}

// UpdateFieldOrders 原子地重排字段顺序
func (r *ProcedureRepository) UpdateFieldOrders(ctx context.Context, procedureID string, orders map[string]int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, idx := range orders {
			if err := tx.Model(&entity.ProcedureField{}).
				Where("id = ? AND procedure_id = ?", id, procedureID).
				Update("order_index", idx).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete 删除作业程序及其字段
// 执行记录不级联删除，历史答案保留。
func (r *ProcedureRepository) Delete(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND tenant_id = ?", id, tenantID).Delete(&entity.Procedure{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("procedure_id = ?", id).Delete(&entity.ProcedureField{}).Error
	})
}
