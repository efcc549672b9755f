package service

import (
	"github.com/bitfantasy/nimo-cmms/internal/cmms/repository"
	"github.com/bitfantasy/nimo-cmms/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
)

// Services 服务集合
type Services struct {
	Asset      *AssetService
	WorkOrder  *WorkOrderService
	Vendor     *VendorService
	Client     *ClientService
	PO         *POService
	Procedure  *ProcedureService
	Execution  *ExecutionService
	Attachment *AttachmentService
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config) *Services {
	// 初始化MinIO客户端
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			// MinIO不可用时附件功能退化为仅记录元数据
			minioClient = nil
		}
	}

	attachmentSvc := NewAttachmentService(minioClient, cfg.MinIO.Bucket)
	procedureSvc := NewProcedureService(repos.Procedure, rdb)

	return &Services{
		Asset:      NewAssetService(repos.Asset),
		WorkOrder:  NewWorkOrderService(repos.WorkOrder, repos.Asset),
		Vendor:     NewVendorService(repos.Vendor),
		Client:     NewClientService(repos.Client),
		PO:         NewPOService(repos.PO, repos.Vendor),
		Procedure:  procedureSvc,
		Execution:  NewExecutionService(repos.Execution, repos.Procedure),
		Attachment: attachmentSvc,
	}
}
