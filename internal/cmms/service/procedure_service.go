package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bitfantasy/nimo-cmms/internal/cmms/entity"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/form"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const procedureCacheTTL = 5 * time.Minute

// ProcedureService 作业程序服务
type ProcedureService struct {
	repo *repository.ProcedureRepository
	rdb  *redis.Client
}

func NewProcedureService(repo *repository.ProcedureRepository, rdb *redis.Client) *ProcedureService {
	return &ProcedureService{repo: repo, rdb: rdb}
}

// FieldRequest 字段定义（创建/更新共用）
type FieldRequest struct {
	Label      string       `json:"label" binding:"required"`
	FieldType  string       `json:"field_type" binding:"required"`
	IsRequired bool         `json:"is_required"`
	Options    form.Options `json:"options"`
}

// CreateProcedureRequest 创建作业程序请求
type CreateProcedureRequest struct {
	Title       string         `json:"title" binding:"required"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Tags        []string       `json:"tags"`
	IsGlobal    bool           `json:"is_global"`
	Fields      []FieldRequest `json:"fields"`
}

// UpdateProcedureRequest 更新作业程序请求
// Fields 非 nil 时整组替换；nil 表示不动字段。
type UpdateProcedureRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Category    *string        `json:"category"`
	Tags        []string       `json:"tags"`
	IsGlobal    *bool          `json:"is_global"`
	Fields      []FieldRequest `json:"fields"`
}

// buildFields 把字段请求转成实体，order_index 按请求顺序 0..N-1
func buildFields(procedureID string, reqs []FieldRequest) (entity.FieldSet, error) {
	fields := make(entity.FieldSet, 0, len(reqs))
	for i, fr := range reqs {
		t := form.FieldType(fr.FieldType)
		if !t.Valid() {
			return nil, fmt.Errorf("第 %d 个字段类型不合法: %s", i+1, fr.FieldType)
		}
		if err := fr.Options.Validate(t); err != nil {
			return nil, fmt.Errorf("第 %d 个字段配置不合法: %w", i+1, err)
		}
		fields = append(fields, entity.ProcedureField{
			ID:          uuid.New().String()[:32],
			ProcedureID: procedureID,
			Label:       fr.Label,
			FieldType:   fr.FieldType,
			IsRequired:  fr.IsRequired,
			Options:     fr.Options,
		})
	}
	fields.Normalize()
	return fields, nil
}

// List 获取作业程序列表（含执行次数统计）
func (s *ProcedureService) List(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.Procedure, int64, error) {
	items, total, err := s.repo.FindAll(ctx, tenantID, page, pageSize, filters)
	if err != nil {
		return nil, 0, err
	}
	for i := range items {
		count, err := s.repo.CountExecutions(ctx, items[i].ID)
		if err != nil {
			return nil, 0, err
		}
		items[i].ExecutionsCount = count
	}
	return items, total, nil
}

// Get 获取作业程序详情（redis 读穿缓存）
func (s *ProcedureService) Get(ctx context.Context, tenantID, id string) (*entity.Procedure, error) {
	key := s.cacheKey(tenantID, id)
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var proc entity.Procedure
			if json.Unmarshal([]byte(raw), &proc) == nil {
				return &proc, nil
			}
		}
	}

	proc, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountExecutions(ctx, proc.ID)
	if err != nil {
		return nil, err
	}
	proc.ExecutionsCount = count

	if s.rdb != nil {
		if raw, err := json.Marshal(proc); err == nil {
			s.rdb.Set(ctx, key, raw, procedureCacheTTL)
		}
	}
	return proc, nil
}

// Create 创建作业程序
func (s *ProcedureService) Create(ctx context.Context, tenantID, userID string, req *CreateProcedureRequest) (*entity.Procedure, error) {
	category := req.Category
	if category == "" {
		category = entity.ProcedureCategoryOther
	}
	if !entity.ValidProcedureCategory(category) {
		return nil, fmt.Errorf("分类不合法: %s", category)
	}

	procID := uuid.New().String()[:32]
	fields, err := buildFields(procID, req.Fields)
	if err != nil {
		return nil, err
	}

	proc := &entity.Procedure{
		ID:          procID,
		TenantID:    tenantID,
		Title:       req.Title,
		Description: req.Description,
		Category:    category,
		Tags:        req.Tags,
		IsGlobal:    req.IsGlobal,
		CreatedBy:   userID,
		Fields:      fields,
	}

	if err := s.repo.Create(ctx, proc); err != nil {
		return nil, fmt.Errorf("创建作业程序失败: %w", err)
	}
	return proc, nil
}

// Update 更新作业程序
// 本租户拥有的程序才可修改，全局程序对非属主只读。
func (s *ProcedureService) Update(ctx context.Context, tenantID, id string, req *UpdateProcedureRequest) (*entity.Procedure, error) {
	proc, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if proc.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}

	if req.Title != nil {
		proc.Title = *req.Title
	}
	if req.Description != nil {
		proc.Description = *req.Description
	}
	if req.Category != nil {
		if !entity.ValidProcedureCategory(*req.Category) {
			return nil, fmt.Errorf("分类不合法: %s", *req.Category)
		}
		proc.Category = *req.Category
	}
	if req.Tags != nil {
		proc.Tags = req.Tags
	}
	if req.IsGlobal != nil {
		proc.IsGlobal = *req.IsGlobal
	}

	replaceFields := req.Fields != nil
	if replaceFields {
		fields, err := buildFields(proc.ID, req.Fields)
		if err != nil {
			return nil, err
		}
		proc.Fields = fields
	}

	if err := s.repo.Update(ctx, proc, replaceFields); err != nil {
		return nil, fmt.Errorf("更新作业程序失败: %w", err)
	}

	s.clearCache(ctx, tenantID, id)
	return proc, nil
}

// Duplicate 复制作业程序
// 副本归属当前租户，永远不是全局程序，字段全部换新ID。
// title 为空时默认 "{原标题} (Copy)"。
func (s *ProcedureService) Duplicate(ctx context.Context, tenantID, userID, id, title string) (*entity.Procedure, error) {
	src, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = src.Title + " (Copy)"
	}

	copyID := uuid.New().String()[:32]
	fields := make(entity.FieldSet, 0, len(src.Fields))
	for _, f := range src.Fields {
		f.ID = uuid.New().String()[:32]
		f.ProcedureID = copyID
		fields = append(fields, f)
	}
	fields.Normalize()

	dup := &entity.Procedure{
		ID:          copyID,
		TenantID:    tenantID,
		Title:       title,
		Description: src.Description,
		Category:    src.Category,
		Tags:        src.Tags,
		IsGlobal:    false,
		CreatedBy:   userID,
		Fields:      fields,
	}

	if err := s.repo.Create(ctx, dup); err != nil {
		return nil, fmt.Errorf("复制作业程序失败: %w", err)
	}
	return dup, nil
}

// ReorderFields 重排字段顺序
// field_ids 必须恰好覆盖程序的全部字段，按给定顺序重编 0..N-1。
func (s *ProcedureService) ReorderFields(ctx context.Context, tenantID, id string, fieldIDs []string) (*entity.Procedure, error) {
	proc, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if proc.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}

	if len(fieldIDs) != len(proc.Fields) {
		return nil, fmt.Errorf("字段数量不匹配: 期望 %d 个, 收到 %d 个", len(proc.Fields), len(fieldIDs))
	}
	existing := make(map[string]bool, len(proc.Fields))
	for _, f := range proc.Fields {
		existing[f.ID] = true
	}
	orders := make(map[string]int, len(fieldIDs))
	for i, fid := range fieldIDs {
		if !existing[fid] {
			return nil, fmt.Errorf("字段不存在: %s", fid)
		}
		if _, dup := orders[fid]; dup {
			return nil, fmt.Errorf("字段重复: %s", fid)
		}
		orders[fid] = i
	}

	if err := s.repo.UpdateFieldOrders(ctx, proc.ID, orders); err != nil {
		return nil, fmt.Errorf("重排字段失败: %w", err)
	}

	s.clearCache(ctx, tenantID, id)
	return s.repo.FindByID(ctx, tenantID, id)
}

// Delete 删除作业程序
func (s *ProcedureService) Delete(ctx context.Context, tenantID, id string) error {
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.clearCache(ctx, tenantID, id)
	return nil
}

// RenderForm 渲染程序的表单控件列表
func (s *ProcedureService) RenderForm(ctx context.Context, tenantID, id string, answers map[string]interface{}, readOnly bool) ([]form.Control, error) {
	proc, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	controls := make([]form.Control, 0, len(proc.Fields))
	for _, f := range proc.Fields {
		controls = append(controls, form.Render(f.ToForm(), answers[f.ID], readOnly))
	}
	return controls, nil
}

// ValidateAnswers 按程序字段定义校验一组答案
func (s *ProcedureService) ValidateAnswers(ctx context.Context, tenantID, id string, answers map[string]interface{}) ([]*form.ValidationError, error) {
	proc, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return form.ValidateAnswers(entity.FormFields(proc.Fields), answers), nil
}

func (s *ProcedureService) cacheKey(tenantID, id string) string {
	return fmt.Sprintf("procedures:detail:%s:%s", tenantID, id)
}

// clearCache 清除程序详情缓存
func (s *ProcedureService) clearCache(ctx context.Context, tenantID, id string) {
	if s.rdb != nil {
		s.rdb.Del(ctx, s.cacheKey(tenantID, id))
	}
}
