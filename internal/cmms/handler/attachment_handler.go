package handler

import (
	"io"
	"path/filepath"
	"time"

	"github.com/bitfantasy/nimo-cmms/internal/cmms/service"
	"github.com/gin-gonic/gin"
)

// AttachmentHandler 附件处理器
type AttachmentHandler struct {
	svc *service.AttachmentService
}

func NewAttachmentHandler(svc *service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{svc: svc}
}

// UploadAttachment 上传附件（执行表单的 file/image 字段用）
// POST /api/v1/attachments (multipart form, file字段)
func (h *AttachmentHandler) UploadAttachment(c *gin.Context) {
	if !h.svc.Available() {
		InternalError(c, "对象存储未配置")
		return
	}

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

	contentType := file.Header.Get("Content-Type")
	answer, err := h.svc.Upload(c.Request.Context(), GetTenantID(c), f, file.Filename, file.Size, contentType)
	if err != nil {
		InternalError(c, "上传附件失败: "+err.Error())
		return
	}
	Created(c, answer)
}

// DownloadAttachment 直接下载附件（走服务端流式转发）
// GET /api/v1/attachments/download?object=xxx
func (h *AttachmentHandler) DownloadAttachment(c *gin.Context) {
	objectName := c.Query("object")
	if objectName == "" {
		BadRequest(c, "缺少 object 参数")
		return
	}

	reader, err := h.svc.Download(c.Request.Context(), objectName)
	if err != nil {
		InternalError(c, "下载附件失败: "+err.Error())
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", "attachment; filename="+filepath.Base(objectName))
	c.Header("Content-Type", "application/octet-stream")
	if _, err := io.Copy(c.Writer, reader); err != nil {
		// 响应已开始写出，只能中断
		c.Abort()
	}
}

// GetAttachmentURL 生成附件临时下载链接
// GET /api/v1/attachments/url?object=xxx
func (h *AttachmentHandler) GetAttachmentURL(c *gin.Context) {
	objectName := c.Query("object")
	if objectName == "" {
		BadRequest(c, "缺少 object 参数")
		return
	}

	url, err := h.svc.PresignedURL(c.Request.Context(), objectName, 15*time.Minute)
	if err != nil {
		InternalError(c, "生成下载链接失败: "+err.Error())
		return
	}
	Success(c, gin.H{"url": url})
}
