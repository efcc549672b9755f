package entity

import "time"

// 供应商状态
const (
	VendorStatusActive   = "active"
	VendorStatusInactive = "inactive"
)

// Vendor 供应商
type Vendor struct {
	ID       string `json:"id" gorm:"primaryKey;size:32"`
	TenantID string `json:"tenant_id" gorm:"size:32;not null;index"`
	Name     string `json:"name" gorm:"size:200;not null"`
	Category string `json:"category" gorm:"size:50"`
	Status   string `json:"status" gorm:"size:20;default:active"`

	ContactName  string `json:"contact_name" gorm:"size:100"`
	ContactPhone string `json:"contact_phone" gorm:"size:50"`
	ContactEmail string `json:"contact_email" gorm:"size:200"`
	Address      string `json:"address" gorm:"size:500"`
	Website      string `json:"website" gorm:"size:200"`
	Notes        string `json:"notes" gorm:"type:text"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Vendor) TableName() string {
	return "cmms_vendors"
}
