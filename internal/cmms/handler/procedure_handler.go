package handler

import (
	"errors"

	"github.com/bitfantasy/nimo-cmms/internal/cmms/form"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/repository"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/service"
	"github.com/gin-gonic/gin"
)

// ProcedureHandler 作业程序处理器
type ProcedureHandler struct {
	svc *service.ProcedureService
}

func NewProcedureHandler(svc *service.ProcedureService) *ProcedureHandler {
	return &ProcedureHandler{svc: svc}
}

// ListProcedures 作业程序列表
// GET /api/v1/procedures?search=xxx&category=xxx&is_global=true&page=1&page_size=20
func (h *ProcedureHandler) ListProcedures(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":    c.Query("search"),
		"category":  c.Query("category"),
		"is_global": c.Query("is_global"),
	}

	items, total, err := h.svc.List(c.Request.Context(), GetTenantID(c), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取作业程序列表失败: "+err.Error())
		return
	}
	SuccessList(c, items, page, pageSize, total)
}

// GetProcedure 作业程序详情
// GET /api/v1/procedures/:id
func (h *ProcedureHandler) GetProcedure(c *gin.Context) {
	proc, err := h.svc.Get(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		NotFound(c, "作业程序不存在")
		return
	}
	Success(c, proc)
}

// CreateProcedure 创建作业程序
// POST /api/v1/procedures
func (h *ProcedureHandler) CreateProcedure(c *gin.Context) {
	var req service.CreateProcedureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	proc, err := h.svc.Create(c.Request.Context(), GetTenantID(c), GetUserID(c), &req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, proc)
}

// UpdateProcedure 更新作业程序（fields 非空时整组替换）
// PUT /api/v1/procedures/:id
func (h *ProcedureHandler) UpdateProcedure(c *gin.Context) {
	var req service.UpdateProcedureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	proc, err := h.svc.Update(c.Request.Context(), GetTenantID(c), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "作业程序不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, proc)
}

// DuplicateProcedure 复制作业程序
// POST /api/v1/procedures/:id/duplicate  body 可选 {title}
func (h *ProcedureHandler) DuplicateProcedure(c *gin.Context) {
	var req struct {
		Title string `json:"title"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, "参数错误: "+err.Error())
			return
		}
	}

	proc, err := h.svc.Duplicate(c.Request.Context(), GetTenantID(c), GetUserID(c), c.Param("id"), req.Title)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "作业程序不存在")
			return
		}
		InternalError(c, "复制作业程序失败: "+err.Error())
		return
	}
	Created(c, proc)
}

// ReorderProcedureFields 重排字段
// POST /api/v1/procedures/:id/reorder
func (h *ProcedureHandler) ReorderProcedureFields(c *gin.Context) {
	var req struct {
		FieldIDs []string `json:"field_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	proc, err := h.svc.ReorderFields(c.Request.Context(), GetTenantID(c), c.Param("id"), req.FieldIDs)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "作业程序不存在")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, proc)
}

// DeleteProcedure 删除作业程序
// DELETE /api/v1/procedures/:id
func (h *ProcedureHandler) DeleteProcedure(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetTenantID(c), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "作业程序不存在")
			return
		}
		InternalError(c, "删除作业程序失败: "+err.Error())
		return
	}
	Success(c, nil)
}

// ListFieldTypes 字段类型清单（含每种类型的配置项编辑器定义）
// GET /api/v1/procedures/field-types
func (h *ProcedureHandler) ListFieldTypes(c *gin.Context) {
	type fieldTypeInfo struct {
		Type           form.FieldType     `json:"type"`
		Label          string             `json:"label"`
		Presentational bool               `json:"presentational"`
		Editor         []form.EditorField `json:"editor"`
	}

	items := make([]fieldTypeInfo, 0, len(form.AllFieldTypes))
	for _, t := range form.AllFieldTypes {
		items = append(items, fieldTypeInfo{
			Type:           t,
			Label:          t.Label(),
			Presentational: t.Presentational(),
			Editor:         form.OptionsEditor(t),
		})
	}
	Success(c, gin.H{"items": items})
}

// RenderProcedureForm 渲染程序表单
// POST /api/v1/procedures/:id/render
func (h *ProcedureHandler) RenderProcedureForm(c *gin.Context) {
	var req struct {
		Answers  map[string]interface{} `json:"answers"`
		ReadOnly bool                   `json:"read_only"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	controls, err := h.svc.RenderForm(c.Request.Context(), GetTenantID(c), c.Param("id"), req.Answers, req.ReadOnly)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "作业程序不存在")
			return
		}
		InternalError(c, "渲染表单失败: "+err.Error())
		return
	}
	Success(c, gin.H{"controls": controls})
}

// ValidateProcedureAnswers 校验一组答案
// POST /api/v1/procedures/:id/validate
func (h *ProcedureHandler) ValidateProcedureAnswers(c *gin.Context) {
	var req struct {
		Answers map[string]interface{} `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	verrs, err := h.svc.ValidateAnswers(c.Request.Context(), GetTenantID(c), c.Param("id"), req.Answers)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "作业程序不存在")
			return
		}
		InternalError(c, "校验答案失败: "+err.Error())
		return
	}
	Success(c, gin.H{
		"valid":  len(verrs) == 0,
		"errors": verrs,
	})
}
