package form

import "fmt"

// Field 渲染与校验使用的字段视图
type Field struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Type     FieldType `json:"field_type"`
	Required bool      `json:"is_required"`
	Options  Options   `json:"options"`
}

// Control 渲染结果：前端按 component 选择控件，props 提供类型相关配置
type Control struct {
	FieldID   string                 `json:"field_id"`
	Component string                 `json:"component"`
	Label     string                 `json:"label"`
	Required  bool                   `json:"is_required,omitempty"`
	Value     interface{}            `json:"value,omitempty"`
	Props     map[string]interface{} `json:"props,omitempty"`
	ReadOnly  bool                   `json:"read_only,omitempty"`
	Warning   string                 `json:"warning,omitempty"`
}

// Render 按字段类型分发出对应控件
// 未知类型降级为文本控件并带警告，不会失败。
func Render(f Field, value interface{}, readOnly bool) Control {
	ctrl := Control{
		FieldID:   f.ID,
		Component: string(f.Type),
		Label:     f.Label,
		Required:  f.Required,
		Value:     value,
		ReadOnly:  readOnly,
		Props:     map[string]interface{}{},
	}
	o := f.Options

	switch f.Type {
	case FieldText, FieldTextarea, FieldEmail, FieldURL, FieldPhone:
		if o.Placeholder != "" {
			ctrl.Props["placeholder"] = o.Placeholder
		}
		if o.HelpText != "" {
			ctrl.Props["help_text"] = o.HelpText
		}

	case FieldNumber:
		numberProps(&ctrl, o)

	case FieldSlider:
		numberProps(&ctrl, o)
		// 滑块额外渲染 最小/当前/最大 标签
		min, max := 0.0, 0.0
		if o.MinValue != nil {
			min = *o.MinValue
		}
		if o.MaxValue != nil {
			max = *o.MaxValue
		}
		current := min
		if v, ok := value.(float64); ok {
			current = v
		}
		ctrl.Props["labels"] = []string{
			fmt.Sprintf("%g", min), fmt.Sprintf("%g", current), fmt.Sprintf("%g", max),
		}

	case FieldCheckbox:
		// 无额外配置

	case FieldSelect, FieldRadio:
		ctrl.Props["choices"] = o.Choices

	case FieldMultiselect:
		ctrl.Props["choices"] = o.Choices
		if o.AllowOther {
			ctrl.Props["allow_other"] = true
		}

	case FieldDate:
		if o.MinDate != "" {
			ctrl.Props["min"] = o.MinDate
		}
		if o.MaxDate != "" {
			ctrl.Props["max"] = o.MaxDate
		}
		if o.DefaultToday {
			ctrl.Props["default_today"] = true
		}

	case FieldTime, FieldDatetime:
		// ISO输入格式由组件自身约束

	case FieldFile, FieldImage:
		ctrl.Props["multiple"] = o.AllowMultipleFiles
		if types := o.FileTypes(f.Type); types != nil {
			ctrl.Props["accept"] = types
		}
		if o.MaxFileSize > 0 {
			ctrl.Props["max_file_size"] = o.MaxFileSize
		}

	case FieldRating:
		ctrl.Props["max"] = o.RatingMax()
		if o.AllowHalfStars {
			ctrl.Props["half"] = true
		}

	case FieldInspection:
		ctrl.Props["choices"] = []string{InspectionPass, InspectionFail, InspectionFlag}
		if o.AllowComments {
			ctrl.Props["allow_comments"] = true
		}
		if o.RequireCommentOnFail {
			ctrl.Props["require_comment_on_fail"] = true
		}

	case FieldSection:
		ctrl.Value = nil
		ctrl.Required = false

	case FieldDivider:
		ctrl.Value = nil
		ctrl.Required = false

	case FieldInfo:
		ctrl.Value = nil
		ctrl.Required = false
		ctrl.Props["text"] = o.InfoText

	default:
		// 未知类型：降级为文本控件，可见告警，绝不静默失败
		ctrl.Component = string(FieldText)
		ctrl.Warning = fmt.Sprintf("未知字段类型: %s", f.Type)
	}

	if len(ctrl.Props) == 0 {
		ctrl.Props = nil
	}
	return ctrl
}

func numberProps(ctrl *Control, o Options) {
	if o.MinValue != nil {
		ctrl.Props["min"] = *o.MinValue
	}
	if o.MaxValue != nil {
		ctrl.Props["max"] = *o.MaxValue
	}
	if o.Step != nil {
		ctrl.Props["step"] = *o.Step
	}
}

// EditorField 构建器里某字段类型的配置编辑项
type EditorField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Input string `json:"input"` // text/number/toggle/choices/date
}

// OptionsEditor 返回构建器配置某类型字段时需要的编辑项
func OptionsEditor(t FieldType) []EditorField {
	switch {
	case t.HasChoices():
		editors := []EditorField{{Key: "choices", Label: "选项列表", Input: "choices"}}
		if t == FieldMultiselect {
			editors = append(editors, EditorField{Key: "allow_other", Label: "允许其他", Input: "toggle"})
		}
		return editors
	case t == FieldNumber || t == FieldSlider:
		return []EditorField{
			{Key: "min_value", Label: "最小值", Input: "number"},
			{Key: "max_value", Label: "最大值", Input: "number"},
			{Key: "step", Label: "步长", Input: "number"},
		}
	case t == FieldDate:
		return []EditorField{
			{Key: "min_date", Label: "最早日期", Input: "date"},
			{Key: "max_date", Label: "最晚日期", Input: "date"},
			{Key: "default_today", Label: "默认今天", Input: "toggle"},
		}
	case t == FieldFile || t == FieldImage:
		return []EditorField{
			{Key: "max_file_size", Label: "文件大小上限", Input: "number"},
			{Key: "allow_multiple_files", Label: "允许多个文件", Input: "toggle"},
			{Key: "allowed_types", Label: "允许的类型", Input: "choices"},
		}
	case t == FieldRating:
		return []EditorField{
			{Key: "max_rating", Label: "最高分", Input: "number"},
			{Key: "allow_half_stars", Label: "允许半星", Input: "toggle"},
		}
	case t == FieldInspection:
		return []EditorField{
			{Key: "allow_comments", Label: "允许备注", Input: "toggle"},
			{Key: "require_comment_on_fail", Label: "不合格必须备注", Input: "toggle"},
		}
	case t == FieldInfo:
		return []EditorField{{Key: "info_text", Label: "说明内容", Input: "text"}}
	case t.TextLike():
		return []EditorField{
			{Key: "placeholder", Label: "占位提示", Input: "text"},
			{Key: "help_text", Label: "帮助文字", Input: "text"},
		}
	}
	return nil
}
