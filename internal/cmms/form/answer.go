package form

import (
	"fmt"
	"math"
	"net/mail"
	"net/url"
	"strings"
	"time"
)

// 检查项答案
const (
	InspectionPass = "pass"
	InspectionFail = "fail"
	InspectionFlag = "flag"
)

// ValidationError 单个字段的校验错误
type ValidationError struct {
	FieldID string `json:"field_id"`
	Label   string `json:"label"`
	Reason  string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Label, e.Reason)
}

// InspectionAnswer 检查项答案：三态结果 + 可选备注
type InspectionAnswer struct {
	Value   string `json:"value"`
	Comment string `json:"comment,omitempty"`
}

// FileAnswer 文件类答案：已上传附件的元信息
type FileAnswer struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// ValidateAnswers 按字段定义校验整份答案
// 答案键必须是字段ID的子集；必填字段缺失记为错误。
// 这是必填校验的唯一执行层：执行提交接口不做拦截。
func ValidateAnswers(fields []Field, answers map[string]interface{}) []*ValidationError {
	var errs []*ValidationError

	byID := make(map[string]Field, len(fields))
	for _, f := range fields {
		byID[f.ID] = f
	}

	// 答案键必须落在字段集合内
	for id := range answers {
		if _, ok := byID[id]; !ok {
			errs = append(errs, &ValidationError{FieldID: id, Reason: "答案对应的字段不存在"})
		}
	}

	for _, f := range fields {
		value, present := answers[f.ID]
		if f.Type.Presentational() {
			if present {
				errs = append(errs, &ValidationError{FieldID: f.ID, Label: f.Label, Reason: "展示字段不能携带答案"})
			}
			continue
		}
		if !present || value == nil || value == "" {
			if f.Required {
				errs = append(errs, &ValidationError{FieldID: f.ID, Label: f.Label, Reason: "必填字段未填写"})
			}
			continue
		}
		if err := ValidateAnswer(f, value); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

// ValidateAnswer 校验单个字段的答案值
// JSON 解码后的值：数字是 float64，数组是 []interface{}，对象是 map[string]interface{}。
func ValidateAnswer(f Field, value interface{}) *ValidationError {
	fail := func(reason string) *ValidationError {
		return &ValidationError{FieldID: f.ID, Label: f.Label, Reason: reason}
	}
	o := f.Options

	switch f.Type {
	case FieldText, FieldTextarea, FieldPhone:
		if _, ok := value.(string); !ok {
			return fail("答案必须是文本")
		}

	case FieldEmail:
		s, ok := value.(string)
		if !ok {
			return fail("答案必须是文本")
		}
		if _, err := mail.ParseAddress(s); err != nil {
			return fail("邮箱格式不正确")
		}

	case FieldURL:
		s, ok := value.(string)
		if !ok {
			return fail("答案必须是文本")
		}
		u, err := url.Parse(s)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fail("链接格式不正确")
		}

	case FieldCheckbox:
		if _, ok := value.(bool); !ok {
			return fail("答案必须是布尔值")
		}

	case FieldNumber, FieldSlider:
		n, ok := value.(float64)
		if !ok {
			return fail("答案必须是数字")
		}
		if o.MinValue != nil && n < *o.MinValue {
			return fail(fmt.Sprintf("不能小于 %g", *o.MinValue))
		}
		if o.MaxValue != nil && n > *o.MaxValue {
			return fail(fmt.Sprintf("不能大于 %g", *o.MaxValue))
		}
		if o.Step != nil && *o.Step > 0 {
			base := 0.0
			if o.MinValue != nil {
				base = *o.MinValue
			}
			steps := (n - base) / *o.Step
			if math.Abs(steps-math.Round(steps)) > 1e-9 {
				return fail(fmt.Sprintf("必须按步长 %g 取值", *o.Step))
			}
		}

	case FieldSelect, FieldRadio:
		s, ok := value.(string)
		if !ok {
			return fail("答案必须是文本")
		}
		if !containsChoice(o.Choices, s) {
			return fail("答案不在选项范围内")
		}

	case FieldMultiselect:
		items, ok := value.([]interface{})
		if !ok {
			return fail("答案必须是数组")
		}
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return fail("答案必须是文本数组")
			}
			if !containsChoice(o.Choices, s) && !o.AllowOther {
				return fail(fmt.Sprintf("答案不在选项范围内: %s", s))
			}
		}

	case FieldDate:
		s, ok := value.(string)
		if !ok {
			return fail("答案必须是文本")
		}
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return fail("日期格式必须是 YYYY-MM-DD")
		}
		if o.MinDate != "" {
			if min, err := time.Parse(dateLayout, o.MinDate); err == nil && d.Before(min) {
				return fail(fmt.Sprintf("不能早于 %s", o.MinDate))
			}
		}
		if o.MaxDate != "" {
			if max, err := time.Parse(dateLayout, o.MaxDate); err == nil && d.After(max) {
				return fail(fmt.Sprintf("不能晚于 %s", o.MaxDate))
			}
		}

	case FieldTime:
		s, ok := value.(string)
		if !ok {
			return fail("答案必须是文本")
		}
		if _, err := time.Parse("15:04", s); err != nil {
			return fail("时间格式必须是 HH:MM")
		}

	case FieldDatetime:
		s, ok := value.(string)
		if !ok {
			return fail("答案必须是文本")
		}
		if _, err := time.Parse("2006-01-02T15:04", s); err != nil {
			return fail("格式必须是 YYYY-MM-DDTHH:MM")
		}

	case FieldRating:
		n, ok := value.(float64)
		if !ok {
			return fail("答案必须是数字")
		}
		max := float64(o.RatingMax())
		if n < 0.5 || n > max {
			return fail(fmt.Sprintf("评分必须在 0.5 到 %g 之间", max))
		}
		unit := 1.0
		if o.AllowHalfStars {
			unit = 0.5
		}
		steps := n / unit
		if math.Abs(steps-math.Round(steps)) > 1e-9 {
			return fail("评分增量不合法")
		}

	case FieldFile, FieldImage:
		files, err := decodeFileAnswers(value)
		if err != nil {
			return fail(err.Error())
		}
		if len(files) == 0 {
			return fail("没有文件")
		}
		if !o.AllowMultipleFiles && len(files) > 1 {
			return fail("该字段只允许一个文件")
		}
		allowed := o.FileTypes(f.Type)
		for _, fa := range files {
			if o.MaxFileSize > 0 && fa.Size > o.MaxFileSize {
				return fail(fmt.Sprintf("文件 %s 超过大小上限", fa.Name))
			}
			if allowed != nil && fa.ContentType != "" && !mimeAllowed(allowed, fa.ContentType) {
				return fail(fmt.Sprintf("文件类型不允许: %s", fa.ContentType))
			}
		}

	case FieldInspection:
		ans, err := decodeInspectionAnswer(value)
		if err != nil {
			return fail(err.Error())
		}
		switch ans.Value {
		case InspectionPass, InspectionFail, InspectionFlag:
		default:
			return fail("检查结果必须是 pass/fail/flag")
		}
		// fail/flag 且配置了强制备注时，备注不能为空
		if o.AllowComments && o.RequireCommentOnFail &&
			(ans.Value == InspectionFail || ans.Value == InspectionFlag) &&
			strings.TrimSpace(ans.Comment) == "" {
			return fail("不合格项必须填写备注")
		}

	default:
		// 未知类型按文本宽松处理，与渲染端的降级行为一致
		if _, ok := value.(string); !ok {
			return fail("答案必须是文本")
		}
	}

	return nil
}

func containsChoice(choices []string, v string) bool {
	for _, c := range choices {
		if c == v {
			return true
		}
	}
	return false
}

func mimeAllowed(allowed []string, contentType string) bool {
	for _, a := range allowed {
		if a == contentType {
			return true
		}
		// 通配形式 image/*
		if strings.HasSuffix(a, "/*") && strings.HasPrefix(contentType, strings.TrimSuffix(a, "*")) {
			return true
		}
	}
	return false
}

func decodeInspectionAnswer(value interface{}) (*InspectionAnswer, error) {
	switch v := value.(type) {
	case string:
		return &InspectionAnswer{Value: v}, nil
	case map[string]interface{}:
		ans := &InspectionAnswer{}
		if s, ok := v["value"].(string); ok {
			ans.Value = s
		}
		if s, ok := v["comment"].(string); ok {
			ans.Comment = s
		}
		return ans, nil
	}
	return nil, fmt.Errorf("检查项答案必须是 {value, comment} 或文本")
}

func decodeFileAnswers(value interface{}) ([]FileAnswer, error) {
	single := func(v interface{}) (FileAnswer, bool) {
		switch f := v.(type) {
		case string:
			return FileAnswer{URL: f, Name: f}, true
		case map[string]interface{}:
			fa := FileAnswer{}
			if s, ok := f["name"].(string); ok {
				fa.Name = s
			}
			if s, ok := f["url"].(string); ok {
				fa.URL = s
			}
			if n, ok := f["size"].(float64); ok {
				fa.Size = int64(n)
			}
			if s, ok := f["content_type"].(string); ok {
				fa.ContentType = s
			}
			return fa, true
		}
		return FileAnswer{}, false
	}

	if fa, ok := single(value); ok {
		return []FileAnswer{fa}, nil
	}
	if items, ok := value.([]interface{}); ok {
		files := make([]FileAnswer, 0, len(items))
		for _, item := range items {
			fa, ok := single(item)
			if !ok {
				return nil, fmt.Errorf("文件答案格式不正确")
			}
			files = append(files, fa)
		}
		return files, nil
	}
	return nil, fmt.Errorf("文件答案格式不正确")
}
