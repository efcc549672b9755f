package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bitfantasy/nimo-cmms/internal/cmms/entity"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/form"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/repository"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ExecutionService 作业程序执行服务
type ExecutionService struct {
	repo     *repository.ExecutionRepository
	procRepo *repository.ProcedureRepository
}

func NewExecutionService(repo *repository.ExecutionRepository, procRepo *repository.ProcedureRepository) *ExecutionService {
	return &ExecutionService{repo: repo, procRepo: procRepo}
}

// StartExecutionRequest 发起执行请求
type StartExecutionRequest struct {
	ProcedureID string  `json:"procedure_id" binding:"required"`
	WorkOrderID *string `json:"work_order_id"`
}

// SubmitExecutionRequest 提交执行请求
type SubmitExecutionRequest struct {
	Answers map[string]interface{} `json:"answers"`
	Score   *float64               `json:"score"`
}

// List 获取执行记录列表
func (s *ExecutionService) List(ctx context.Context, tenantID string, page, pageSize int, filters map[string]string) ([]entity.ProcedureExecution, int64, error) {
	return s.repo.FindAll(ctx, tenantID, page, pageSize, filters)
}

// Get 获取执行记录详情
func (s *ExecutionService) Get(ctx context.Context, tenantID, id string) (*entity.ProcedureExecution, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

// Start 发起一次执行
// 程序必须对当前租户可见（本租户或全局）。
func (s *ExecutionService) Start(ctx context.Context, tenantID, userID string, req *StartExecutionRequest) (*entity.ProcedureExecution, error) {
	proc, err := s.procRepo.FindByID(ctx, tenantID, req.ProcedureID)
	if err != nil {
		return nil, err
	}

	exec := &entity.ProcedureExecution{
		ID:          uuid.New().String()[:32],
		ProcedureID: proc.ID,
		TenantID:    tenantID,
		WorkOrderID: req.WorkOrderID,
		UserID:      &userID,
		Answers:     entity.JSONB{},
		Status:      entity.ExecutionStatusInProgress,
		StartedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, exec); err != nil {
		return nil, fmt.Errorf("创建执行记录失败: %w", err)
	}
	return exec, nil
}

// SaveAnswers 暂存答案（不改变状态）
func (s *ExecutionService) SaveAnswers(ctx context.Context, tenantID, id string, answers map[string]interface{}) (*entity.ProcedureExecution, error) {
	exec, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if entity.ExecutionTerminal(exec.Status) {
		return nil, fmt.Errorf("执行已结束，当前状态 %s 不允许修改", exec.Status)
	}

	exec.Answers = answers
	if err := s.repo.Update(ctx, exec); err != nil {
		return nil, fmt.Errorf("保存答案失败: %w", err)
	}
	return exec, nil
}

// Submit 提交执行
// 提交永远成交：缺失必填项不阻塞提交，必填校验只在表单层做展示提示。
func (s *ExecutionService) Submit(ctx context.Context, tenantID, id string, req *SubmitExecutionRequest) (*entity.ProcedureExecution, error) {
	exec, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if entity.ExecutionTerminal(exec.Status) {
		return nil, fmt.Errorf("执行已结束，当前状态 %s 不允许提交", exec.Status)
	}

	if req.Answers != nil {
		exec.Answers = req.Answers
	}
	if req.Score != nil {
		exec.Score = *req.Score
	}

	now := time.Now()
	exec.Status = entity.ExecutionStatusCompleted
	exec.CompletedAt = &now

	if err := s.repo.Update(ctx, exec); err != nil {
		return nil, fmt.Errorf("提交执行失败: %w", err)
	}
	return exec, nil
}

// Cancel 取消执行
func (s *ExecutionService) Cancel(ctx context.Context, tenantID, id string) (*entity.ProcedureExecution, error) {
	exec, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if entity.ExecutionTerminal(exec.Status) {
		return nil, fmt.Errorf("执行已结束，当前状态 %s 不允许取消", exec.Status)
	}

	now := time.Now()
	exec.Status = entity.ExecutionStatusCancelled
	exec.CompletedAt = &now

	if err := s.repo.Update(ctx, exec); err != nil {
		return nil, fmt.Errorf("取消执行失败: %w", err)
	}
	return exec, nil
}

// ExportExcel 导出某程序的全部执行记录
// 列为程序字段（按 order_index），行为一次执行。
func (s *ExecutionService) ExportExcel(ctx context.Context, tenantID, procedureID string) (*bytes.Buffer, string, error) {
	proc, err := s.procRepo.FindByID(ctx, tenantID, procedureID)
	if err != nil {
		return nil, "", err
	}
	execs, err := s.repo.FindByProcedure(ctx, tenantID, procedureID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Executions"
	f.SetSheetName("Sheet1", sheet)

	// 表头：固定列 + 字段列（跳过纯展示字段）
	headers := []string{"执行ID", "状态", "得分", "开始时间", "完成时间"}
	var answerFields []entity.ProcedureField
	for _, pf := range proc.Fields {
		if form.FieldType(pf.FieldType).Presentational() {
			continue
		}
		answerFields = append(answerFields, pf)
		headers = append(headers, pf.Label)
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, exec := range execs {
		values := []interface{}{exec.ID, exec.Status, exec.Score, exec.StartedAt.Format("2006-01-02 15:04:05"), ""}
		if exec.CompletedAt != nil {
			values[4] = exec.CompletedAt.Format("2006-01-02 15:04:05")
		}
		for _, pf := range answerFields {
			values = append(values, formatAnswer(exec.Answers[pf.ID]))
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("生成Excel失败: %w", err)
	}

	filename := fmt.Sprintf("executions_%s_%s.xlsx", proc.ID[:8], time.Now().Format("20060102"))
	return buf, filename, nil
}

// formatAnswer 答案转成单元格文本
func formatAnswer(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return fmt.Sprintf("%g", val)
	case bool:
		if val {
			return "是"
		}
		return "否"
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(raw)
	}
}
