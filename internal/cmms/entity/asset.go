package entity

import "time"

// 资产状态
const (
	AssetStatusOperational = "operational"
	AssetStatusMaintenance = "maintenance"
	AssetStatusDown        = "down"
	AssetStatusRetired     = "retired"
)

// Asset 资产/设备
type Asset struct {
	ID        string `json:"id" gorm:"primaryKey;size:32"`
	TenantID  string `json:"tenant_id" gorm:"size:32;not null;uniqueIndex:idx_assets_tenant_code"`
	AssetCode string `json:"asset_code" gorm:"size:50;not null;uniqueIndex:idx_assets_tenant_code"`
	Name      string `json:"name" gorm:"size:200;not null"`
	Category  string `json:"category" gorm:"size:50"`
	Status    string `json:"status" gorm:"size:20;default:operational"`

	// 位置与标识
	Location     string `json:"location" gorm:"size:200"`
	SerialNumber string `json:"serial_number" gorm:"size:100"`
	Manufacturer string `json:"manufacturer" gorm:"size:100"`
	Model        string `json:"model" gorm:"size:100"`

	// 关联方
	VendorID *string `json:"vendor_id" gorm:"size:32"`
	ClientID *string `json:"client_id" gorm:"size:32"`

	PurchaseDate *time.Time `json:"purchase_date"`
	WarrantyEnd  *time.Time `json:"warranty_end"`
	Notes        string     `json:"notes" gorm:"type:text"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Asset) TableName() string {
	return "cmms_assets"
}
