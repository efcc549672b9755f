package handler

import (
	"errors"
	"fmt"

	"github.com/bitfantasy/nimo-cmms/internal/cmms/repository"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/service"
	"github.com/gin-gonic/gin"
)

// ExecutionHandler 作业程序执行处理器
type ExecutionHandler struct {
	svc *service.ExecutionService
}

func NewExecutionHandler(svc *service.ExecutionService) *ExecutionHandler {
	return &ExecutionHandler{svc: svc}
}

// ListExecutions 执行记录列表
// GET /api/v1/executions?procedure_id=xxx&work_order_id=xxx&status=xxx&page=1&page_size=20
func (h *ExecutionHandler) ListExecutions(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"procedure_id":  c.Query("procedure_id"),
		"work_order_id": c.Query("work_order_id"),
		"status":        c.Query("status"),
	}

	items, total, err := h.svc.List(c.Request.Context(), GetTenantID(c), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取执行记录列表失败: "+err.Error())
		return
	}
	SuccessList(c, items, page, pageSize, total)
}

// GetExecution 执行记录详情
// GET /api/v1/executions/:id
func (h *ExecutionHandler) GetExecution(c *gin.Context) {
	exec, err := h.svc.Get(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		NotFound(c, "执行记录不存在")
		return
	}
	Success(c, exec)
}

// StartExecution 发起执行
// POST /api/v1/executions
func (h *ExecutionHandler) StartExecution(c *gin.Context) {
	var req service.StartExecutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	exec, err := h.svc.Start(c.Request.Context(), GetTenantID(c), GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "作业程序不存在")
			return
		}
		InternalError(c, "发起执行失败: "+err.Error())
		return
	}
	Created(c, exec)
}

// SaveExecutionAnswers 暂存答案
// PUT /api/v1/executions/:id/answers
func (h *ExecutionHandler) SaveExecutionAnswers(c *gin.Context) {
	var req struct {
		Answers map[string]interface{} `json:"answers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	exec, err := h.svc.SaveAnswers(c.Request.Context(), GetTenantID(c), c.Param("id"), req.Answers)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "执行记录不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, exec)
}

// SubmitExecution 提交执行
// POST /api/v1/executions/:id/submit
func (h *ExecutionHandler) SubmitExecution(c *gin.Context) {
	var req service.SubmitExecutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	exec, err := h.svc.Submit(c.Request.Context(), GetTenantID(c), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "执行记录不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, exec)
}

// CancelExecution 取消执行
// POST /api/v1/executions/:id/cancel
func (h *ExecutionHandler) CancelExecution(c *gin.Context) {
	exec, err := h.svc.Cancel(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "执行记录不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, exec)
}

// ExportExecutions 导出某程序的执行记录
// GET /api/v1/procedures/:id/executions/export
func (h *ExecutionHandler) ExportExecutions(c *gin.Context) {
	buf, filename, err := h.svc.ExportExcel(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "作业程序不存在")
			return
		}
		InternalError(c, "导出失败: "+err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
