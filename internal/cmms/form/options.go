package form

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Options 字段类型相关的配置载荷
// 一张结构体覆盖所有类型，序列化时省略零值，保证存量数据的 JSON 结构可回读。
type Options struct {
	// select/multiselect/radio
	Choices    []string `json:"choices,omitempty"`
	AllowOther bool     `json:"allow_other,omitempty"`

	// number/slider
	MinValue *float64 `json:"min_value,omitempty"`
	MaxValue *float64 `json:"max_value,omitempty"`
	Step     *float64 `json:"step,omitempty"`

	// date
	MinDate      string `json:"min_date,omitempty"`
	MaxDate      string `json:"max_date,omitempty"`
	DefaultToday bool   `json:"default_today,omitempty"`

	// file/image
	MaxFileSize        int64    `json:"max_file_size,omitempty"`
	AllowMultipleFiles bool     `json:"allow_multiple_files,omitempty"`
	AllowedTypes       []string `json:"allowed_types,omitempty"`

	// rating
	MaxRating      int  `json:"max_rating,omitempty"`
	AllowHalfStars bool `json:"allow_half_stars,omitempty"`

	// 文本输入类
	Placeholder string `json:"placeholder,omitempty"`
	HelpText    string `json:"help_text,omitempty"`

	// info
	InfoText string `json:"info_text,omitempty"`

	// inspection
	AllowComments        bool `json:"allow_comments,omitempty"`
	RequireCommentOnFail bool `json:"require_comment_on_fail,omitempty"`
}

func (o Options) Value() (driver.Value, error) {
	return json.Marshal(o)
}

func (o *Options) Scan(value interface{}) error {
	if value == nil {
		*o = Options{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan Options: %v", value)
	}
	return json.Unmarshal(bytes, o)
}

const dateLayout = "2006-01-02"

// Validate 校验配置对给定字段类型是否合法
func (o Options) Validate(t FieldType) error {
	switch {
	case t.HasChoices():
		if len(o.Choices) == 0 {
			return fmt.Errorf("%s 字段至少需要一个选项", t)
		}
		seen := make(map[string]bool, len(o.Choices))
		for _, c := range o.Choices {
			if c == "" {
				return fmt.Errorf("%s 字段选项不能为空", t)
			}
			if seen[c] {
				return fmt.Errorf("%s 字段选项重复: %s", t, c)
			}
			seen[c] = true
		}
	case t == FieldNumber || t == FieldSlider:
		if o.MinValue != nil && o.MaxValue != nil && *o.MinValue > *o.MaxValue {
			return fmt.Errorf("min_value 不能大于 max_value")
		}
		if o.Step != nil && *o.Step <= 0 {
			return fmt.Errorf("step 必须大于 0")
		}
		// slider 两端必须有界，否则无法渲染刻度
		if t == FieldSlider && (o.MinValue == nil || o.MaxValue == nil) {
			return fmt.Errorf("slider 字段需要 min_value 和 max_value")
		}
	case t == FieldDate:
		var min, max time.Time
		var err error
		if o.MinDate != "" {
			if min, err = time.Parse(dateLayout, o.MinDate); err != nil {
				return fmt.Errorf("min_date 格式错误: %s", o.MinDate)
			}
		}
		if o.MaxDate != "" {
			if max, err = time.Parse(dateLayout, o.MaxDate); err != nil {
				return fmt.Errorf("max_date 格式错误: %s", o.MaxDate)
			}
		}
		if o.MinDate != "" && o.MaxDate != "" && min.After(max) {
			return fmt.Errorf("min_date 不能晚于 max_date")
		}
	case t == FieldFile || t == FieldImage:
		if o.MaxFileSize < 0 {
			return fmt.Errorf("max_file_size 不能为负数")
		}
	case t == FieldRating:
		if o.MaxRating < 0 {
			return fmt.Errorf("max_rating 不能为负数")
		}
	case t == FieldInfo:
		if o.InfoText == "" {
			return fmt.Errorf("info 字段需要 info_text")
		}
	}
	return nil
}

// RatingMax 评分上限，未配置时默认5
func (o Options) RatingMax() int {
	if o.MaxRating > 0 {
		return o.MaxRating
	}
	return 5
}

// FileTypes 允许的文件MIME类型，image 默认仅图片
func (o Options) FileTypes(t FieldType) []string {
	if len(o.AllowedTypes) > 0 {
		return o.AllowedTypes
	}
	if t == FieldImage {
		return []string{"image/*"}
	}
	return nil
}
