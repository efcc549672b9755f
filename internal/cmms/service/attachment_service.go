package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/bitfantasy/nimo-cmms/internal/cmms/form"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// AttachmentService 附件服务
// 执行过程中 file/image 字段的文件先经这里入对象存储，
// 答案里只存 FileAnswer 元数据。
type AttachmentService struct {
	minioClient *minio.Client
	bucketName  string
}

func NewAttachmentService(minioClient *minio.Client, bucketName string) *AttachmentService {
	return &AttachmentService{
		minioClient: minioClient,
		bucketName:  bucketName,
	}
}

// Available 对象存储是否可用
func (s *AttachmentService) Available() bool {
	return s.minioClient != nil
}

// Upload 上传附件，返回可写入答案的文件元数据
func (s *AttachmentService) Upload(ctx context.Context, tenantID string, reader io.Reader, fileName string, fileSize int64, contentType string) (*form.FileAnswer, error) {
	if s.minioClient == nil {
		return nil, fmt.Errorf("对象存储未配置")
	}

	objectName := fmt.Sprintf("attachments/%s/%s/%s%s",
		tenantID,
		time.Now().Format("2006/01/02"),
		uuid.New().String()[:8],
		filepath.Ext(fileName))

	_, err := s.minioClient.PutObject(ctx, s.bucketName, objectName, reader, fileSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("上传附件失败: %w", err)
	}

	return &form.FileAnswer{
		Name:        fileName,
		URL:         objectName,
		Size:        fileSize,
		ContentType: contentType,
	}, nil
}

// Download 按存储路径读取附件
func (s *AttachmentService) Download(ctx context.Context, objectName string) (io.ReadCloser, error) {
	if s.minioClient == nil {
		return nil, fmt.Errorf("对象存储未配置")
	}
	object, err := s.minioClient.GetObject(ctx, s.bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("读取附件失败: %w", err)
	}
	return object, nil
}

// PresignedURL 生成临时下载链接
func (s *AttachmentService) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if s.minioClient == nil {
		return "", fmt.Errorf("对象存储未配置")
	}
	u, err := s.minioClient.PresignedGetObject(ctx, s.bucketName, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("生成下载链接失败: %w", err)
	}
	return u.String(), nil
}
