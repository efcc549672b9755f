package handler

import (
	"errors"

	"github.com/bitfantasy/nimo-cmms/internal/cmms/repository"
	"github.com/bitfantasy/nimo-cmms/internal/cmms/service"
	"github.com/gin-gonic/gin"
)

// AssetHandler 资产处理器
type AssetHandler struct {
	svc *service.AssetService
}

func NewAssetHandler(svc *service.AssetService) *AssetHandler {
	return &AssetHandler{svc: svc}
}

// ListAssets 资产列表
// GET /api/v1/assets?search=xxx&status=xxx&category=xxx&client_id=xxx&page=1&page_size=20
func (h *AssetHandler) ListAssets(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":    c.Query("search"),
		"status":    c.Query("status"),
		"category":  c.Query("category"),
		"client_id": c.Query("client_id"),
	}

	items, total, err := h.svc.List(c.Request.Context(), GetTenantID(c), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取资产列表失败: "+err.Error())
		return
	}
	SuccessList(c, items, page, pageSize, total)
}

// GetAsset 资产详情
// GET /api/v1/assets/:id
func (h *AssetHandler) GetAsset(c *gin.Context) {
	asset, err := h.svc.Get(c.Request.Context(), GetTenantID(c), c.Param("id"))
	if err != nil {
		NotFound(c, "资产不存在")
		return
	}
	Success(c, asset)
}

// CreateAsset 创建资产
// POST /api/v1/assets
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req service.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	asset, err := h.svc.Create(c.Request.Context(), GetTenantID(c), GetUserID(c), &req)
	if err != nil {
		InternalError(c, "创建资产失败: "+err.Error())
		return
	}
	Created(c, asset)
}

// UpdateAsset 更新资产
// PUT /api/v1/assets/:id
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	var req service.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	asset, err := h.svc.Update(c.Request.Context(), GetTenantID(c), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "资产不存在")
			return
		}
		InternalError(c, "更新资产失败: "+err.Error())
		return
	}
	Success(c, asset)
}

// DeleteAsset 删除资产
// DELETE /api/v1/assets/:id
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetTenantID(c), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "资产不存在")
			return
		}
		InternalError(c, "删除资产失败: "+err.Error())
		return
	}
	Success(c, nil)
}

// ImportAssets CSV导入资产
// POST /api/v1/assets/import (multipart form, file字段)
func (h *AssetHandler) ImportAssets(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "请上传文件")
		return
	}

	f, err := file.Open()
	if err != nil {
		BadRequest(c, "打开文件失败: "+err.Error())
		return
	}
	defer f.Close()

	result, err := h.svc.ImportCSV(c.Request.Context(), GetTenantID(c), GetUserID(c), f)
	if err != nil {
		InternalError(c, "导入失败: "+err.Error())
		return
	}
	Success(c, result)
}
