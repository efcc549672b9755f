package entity

import "time"

// 工单状态
const (
	WorkOrderStatusOpen       = "open"
	WorkOrderStatusInProgress = "in_progress"
	WorkOrderStatusOnHold     = "on_hold"
	WorkOrderStatusCompleted  = "completed"
	WorkOrderStatusCancelled  = "cancelled"
)

// 工单优先级
const (
	WorkOrderPriorityLow    = "low"
	WorkOrderPriorityMedium = "medium"
	WorkOrderPriorityHigh   = "high"
	WorkOrderPriorityUrgent = "urgent"
)

// ValidWorkOrderTransitions 合法的工单状态流转
var ValidWorkOrderTransitions = map[string][]string{
	WorkOrderStatusOpen:       {WorkOrderStatusInProgress, WorkOrderStatusCancelled},
	WorkOrderStatusInProgress: {WorkOrderStatusOnHold, WorkOrderStatusCompleted, WorkOrderStatusCancelled},
	WorkOrderStatusOnHold:     {WorkOrderStatusInProgress, WorkOrderStatusCancelled},
}

// CanTransitionWorkOrder 工单状态是否允许流转
func CanTransitionWorkOrder(from, to string) bool {
	for _, s := range ValidWorkOrderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// WorkOrder 维修/保养工单
type WorkOrder struct {
	ID          string `json:"id" gorm:"primaryKey;size:32"`
	TenantID    string `json:"tenant_id" gorm:"size:32;not null;uniqueIndex:idx_work_orders_tenant_code"`
	WOCode      string `json:"wo_code" gorm:"size:50;not null;uniqueIndex:idx_work_orders_tenant_code"`
	Title       string `json:"title" gorm:"size:200;not null"`
	Description string `json:"description" gorm:"type:text"`
	Status      string `json:"status" gorm:"size:20;not null;default:open"`
	Priority    string `json:"priority" gorm:"size:20;default:medium"`

	AssetID    *string    `json:"asset_id" gorm:"size:32;index"`
	AssigneeID *string    `json:"assignee_id" gorm:"size:32"`
	DueDate    *time.Time `json:"due_date"`

	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Asset *Asset `json:"asset,omitempty" gorm:"foreignKey:AssetID"`
}

func (WorkOrder) TableName() string {
	return "cmms_work_orders"
}
