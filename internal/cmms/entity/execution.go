package entity

import "time"

// 执行状态
const (
	ExecutionStatusInProgress = "in_progress"
	ExecutionStatusCompleted  = "completed"
	ExecutionStatusCancelled  = "cancelled"
)

// ExecutionTerminal 是否终态，终态不允许再变更
func ExecutionTerminal(status string) bool {
	return status == ExecutionStatusCompleted || status == ExecutionStatusCancelled
}

// ProcedureExecution 作业程序执行记录
// 一次执行产生一份答案和得分，可选挂在工单上。
type ProcedureExecution struct {
	ID          string  `json:"id" gorm:"primaryKey;size:32"`
	ProcedureID string  `json:"procedure_id" gorm:"size:32;not null;index"`
	TenantID    string  `json:"tenant_id" gorm:"size:32;not null;index"`
	WorkOrderID *string `json:"work_order_id" gorm:"size:32;index"`
	UserID      *string `json:"user_id" gorm:"size:32"`

	Answers JSONB   `json:"answers" gorm:"type:jsonb;not null;default:'{}'"`
	Score   float64 `json:"score" gorm:"type:decimal(5,2);default:0"`
	Status  string  `json:"status" gorm:"size:20;not null;default:in_progress"`

	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (ProcedureExecution) TableName() string {
	return "cmms_procedure_executions"
}
