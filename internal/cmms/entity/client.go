package entity

import "time"

// 客户状态
const (
	ClientStatusActive   = "active"
	ClientStatusInactive = "inactive"
)

// Client 客户（资产归属方）
type Client struct {
	ID       string `json:"id" gorm:"primaryKey;size:32"`
	TenantID string `json:"tenant_id" gorm:"size:32;not null;index"`
	Name     string `json:"name" gorm:"size:200;not null"`
	Status   string `json:"status" gorm:"size:20;default:active"`

	ContactName  string `json:"contact_name" gorm:"size:100"`
	ContactPhone string `json:"contact_phone" gorm:"size:50"`
	ContactEmail string `json:"contact_email" gorm:"size:200"`
	Address      string `json:"address" gorm:"size:500"`
	Notes        string `json:"notes" gorm:"type:text"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Client) TableName() string {
	return "cmms_clients"
}
