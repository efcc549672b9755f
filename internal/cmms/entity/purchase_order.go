package entity

import "time"

// 采购订单状态
const (
	POStatusDraft     = "draft"
	POStatusOrdered   = "ordered"
	POStatusPartial   = "partial"
	POStatusReceived  = "received"
	POStatusCancelled = "cancelled"
)

// 采购订单行项状态
const (
	POItemStatusPending  = "pending"
	POItemStatusPartial  = "partial"
	POItemStatusReceived = "received"
)

// PurchaseOrder 采购订单
type PurchaseOrder struct {
	ID       string  `json:"id" gorm:"primaryKey;size:32"`
	TenantID string  `json:"tenant_id" gorm:"size:32;not null;uniqueIndex:idx_pos_tenant_code"`
	POCode   string  `json:"po_code" gorm:"size:50;not null;uniqueIndex:idx_pos_tenant_code"`
	Title    string  `json:"title" gorm:"size:200"`
	VendorID *string `json:"vendor_id" gorm:"size:32;index"`
	Status   string  `json:"status" gorm:"size:20;not null;default:draft"`

	TotalAmount float64    `json:"total_amount" gorm:"type:decimal(15,2);default:0"`
	Currency    string     `json:"currency" gorm:"size:10;default:USD"`
	OrderedAt   *time.Time `json:"ordered_at"`
	Notes       string     `json:"notes" gorm:"type:text"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Vendor *Vendor  `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
	Items  []POItem `json:"items,omitempty" gorm:"foreignKey:POID"`
}

func (PurchaseOrder) TableName() string {
	return "cmms_purchase_orders"
}

// POItem 采购订单行项
type POItem struct {
	ID          string  `json:"id" gorm:"primaryKey;size:32"`
	POID        string  `json:"po_id" gorm:"size:32;not null;index"`
	Name        string  `json:"name" gorm:"size:200;not null"`
	Quantity    float64 `json:"quantity" gorm:"type:decimal(12,4);not null"`
	ReceivedQty float64 `json:"received_qty" gorm:"type:decimal(12,4);default:0"`
	UnitPrice   float64 `json:"unit_price" gorm:"type:decimal(12,4);default:0"`
	Unit        string  `json:"unit" gorm:"size:16;default:pcs"`
	Status      string  `json:"status" gorm:"size:20;default:pending"`
	SortOrder   int     `json:"sort_order" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (POItem) TableName() string {
	return "cmms_po_items"
}
