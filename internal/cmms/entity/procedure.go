package entity

import (
	"time"

	"github.com/bitfantasy/nimo-cmms/internal/cmms/form"
)

// 作业程序分类
const (
	ProcedureCategoryInspection  = "inspection"
	ProcedureCategorySafety      = "safety"
	ProcedureCategoryCalibration = "calibration"
	ProcedureCategoryReactive    = "reactive_maintenance"
	ProcedureCategoryPreventive  = "preventive_maintenance"
	ProcedureCategoryQuality     = "quality_control"
	ProcedureCategoryTraining    = "training"
	ProcedureCategoryOther       = "other"
)

// ProcedureCategories 全部合法分类
var ProcedureCategories = []string{
	ProcedureCategoryInspection,
	ProcedureCategorySafety,
	ProcedureCategoryCalibration,
	ProcedureCategoryReactive,
	ProcedureCategoryPreventive,
	ProcedureCategoryQuality,
	ProcedureCategoryTraining,
	ProcedureCategoryOther,
}

// ValidProcedureCategory 分类是否合法
func ValidProcedureCategory(c string) bool {
	for _, v := range ProcedureCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Procedure 作业程序：一组有序字段组成的检查/维保模板
type Procedure struct {
	ID          string      `json:"id" gorm:"primaryKey;size:32"`
	TenantID    string      `json:"tenant_id" gorm:"size:32;not null;index"`
	Title       string      `json:"title" gorm:"size:200;not null"`
	Description string      `json:"description" gorm:"type:text"`
	Category    string      `json:"category" gorm:"size:32;not null;default:other"`
	Tags        StringArray `json:"tags" gorm:"type:jsonb"`
	IsGlobal    bool        `json:"is_global" gorm:"default:false;index"`
	CreatedBy   string      `json:"created_by" gorm:"size:32"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	// 关联
	Fields []ProcedureField `json:"fields" gorm:"foreignKey:ProcedureID"`

	// 派生值，读取时按执行记录重新统计，不落库
	ExecutionsCount int64 `json:"executions_count" gorm:"-"`
}

func (Procedure) TableName() string {
	return "cmms_procedures"
}

// ProcedureField 作业程序字段
type ProcedureField struct {
	ID          string       `json:"id" gorm:"primaryKey;size:32"`
	ProcedureID string       `json:"procedure_id" gorm:"size:32;not null;index"`
	Label       string       `json:"label" gorm:"size:200;not null"`
	FieldType   string       `json:"field_type" gorm:"size:20;not null"`
	IsRequired  bool         `json:"is_required" gorm:"default:false"`
	OrderIndex  int          `json:"order_index" gorm:"not null;default:0"`
	Options     form.Options `json:"options" gorm:"type:jsonb"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (ProcedureField) TableName() string {
	return "cmms_procedure_fields"
}

// ToForm 转成渲染/校验层的字段视图
func (f ProcedureField) ToForm() form.Field {
	return form.Field{
		ID:       f.ID,
		Label:    f.Label,
		Type:     form.FieldType(f.FieldType),
		Required: f.IsRequired,
		Options:  f.Options,
	}
}

// FormFields 批量转换
func FormFields(fields []ProcedureField) []form.Field {
	out := make([]form.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.ToForm())
	}
	return out
}

// FieldSet 程序字段的有序集合
// 所有位置变更都经过这里统一重排，order_index 始终保持 0..N-1 连续。
type FieldSet []ProcedureField

// Normalize 按当前顺序重排 order_index 为 0..N-1
func (s FieldSet) Normalize() {
	for i := range s {
		s[i].OrderIndex = i
	}
}

// Move 把 from 位置的字段移动到 to 位置并重排
func (s FieldSet) Move(from, to int) bool {
	if from < 0 || from >= len(s) || to < 0 || to >= len(s) {
		return false
	}
	f := s[from]
	tmp := append(FieldSet{}, s[:from]...)
	tmp = append(tmp, s[from+1:]...)
	tmp = append(tmp[:to], append(FieldSet{f}, tmp[to:]...)...)
	copy(s, tmp)
	s.Normalize()
	return true
}

// Remove 删除 i 位置的字段，返回新集合
func (s FieldSet) Remove(i int) FieldSet {
	if i < 0 || i >= len(s) {
		return s
	}
	out := append(append(FieldSet{}, s[:i]...), s[i+1:]...)
	out.Normalize()
	return out
}

// Insert 在 i 位置插入字段，返回新集合
func (s FieldSet) Insert(i int, f ProcedureField) FieldSet {
	if i < 0 {
		i = 0
	}
	if i > len(s) {
		i = len(s)
	}
	out := append(append(FieldSet{}, s[:i]...), f)
	out = append(out, s[i:]...)
	out.Normalize()
	return out
}
