package form

// FieldType 表单字段类型
// 这是字段类型的唯一权威定义，构建器、渲染器、校验器都基于它分发。
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldTextarea    FieldType = "textarea"
	FieldNumber      FieldType = "number"
	FieldEmail       FieldType = "email"
	FieldURL         FieldType = "url"
	FieldPhone       FieldType = "phone"
	FieldCheckbox    FieldType = "checkbox"
	FieldSelect      FieldType = "select"
	FieldMultiselect FieldType = "multiselect"
	FieldRadio       FieldType = "radio"
	FieldDate        FieldType = "date"
	FieldTime        FieldType = "time"
	FieldDatetime    FieldType = "datetime"
	FieldFile        FieldType = "file"
	FieldImage       FieldType = "image"
	FieldRating      FieldType = "rating"
	FieldSlider      FieldType = "slider"
	FieldInspection  FieldType = "inspection"
	FieldSection     FieldType = "section"
	FieldDivider     FieldType = "divider"
	FieldInfo        FieldType = "info"
)

// AllFieldTypes 按构建器展示顺序排列的全部字段类型
var AllFieldTypes = []FieldType{
	FieldText, FieldTextarea, FieldNumber, FieldEmail, FieldURL, FieldPhone,
	FieldCheckbox, FieldSelect, FieldMultiselect, FieldRadio,
	FieldDate, FieldTime, FieldDatetime,
	FieldFile, FieldImage, FieldRating, FieldSlider, FieldInspection,
	FieldSection, FieldDivider, FieldInfo,
}

// fieldTypeLabels 字段类型显示名
var fieldTypeLabels = map[FieldType]string{
	FieldText:        "单行文本",
	FieldTextarea:    "多行文本",
	FieldNumber:      "数字",
	FieldEmail:       "邮箱",
	FieldURL:         "链接",
	FieldPhone:       "电话",
	FieldCheckbox:    "勾选框",
	FieldSelect:      "下拉选择",
	FieldMultiselect: "多选",
	FieldRadio:       "单选",
	FieldDate:        "日期",
	FieldTime:        "时间",
	FieldDatetime:    "日期时间",
	FieldFile:        "文件",
	FieldImage:       "图片",
	FieldRating:      "评分",
	FieldSlider:      "滑块",
	FieldInspection:  "检查项",
	FieldSection:     "分组标题",
	FieldDivider:     "分隔线",
	FieldInfo:        "说明文字",
}

// Valid 是否是已知字段类型
func (t FieldType) Valid() bool {
	_, ok := fieldTypeLabels[t]
	return ok
}

// Label 字段类型显示名，未知类型原样返回
func (t FieldType) Label() string {
	if l, ok := fieldTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// Presentational 纯展示类型，不携带答案值
func (t FieldType) Presentational() bool {
	return t == FieldSection || t == FieldDivider || t == FieldInfo
}

// HasChoices 是否依赖选项列表
func (t FieldType) HasChoices() bool {
	return t == FieldSelect || t == FieldMultiselect || t == FieldRadio
}

// TextLike 文本输入类，支持 placeholder/help_text
func (t FieldType) TextLike() bool {
	switch t {
	case FieldText, FieldTextarea, FieldEmail, FieldURL, FieldPhone:
		return true
	}
	return false
}
