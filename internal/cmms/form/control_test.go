package form

import (
	"strings"
	"testing"
)

func f64(v float64) *float64 { return &v }

// TestRenderDispatch 每种字段类型都能渲染出对应控件
func TestRenderDispatch(t *testing.T) {
	for _, ft := range AllFieldTypes {
		ctrl := Render(Field{ID: "f1", Label: "测试", Type: ft}, nil, false)
		if ctrl.Warning != "" {
			t.Fatalf("type %s: unexpected warning %q", ft, ctrl.Warning)
		}
		if ctrl.Component != string(ft) {
			t.Fatalf("type %s: component = %q", ft, ctrl.Component)
		}
	}
}

// TestRenderUnknownTypeFallsBackToText 未知类型降级为文本控件并带警告
func TestRenderUnknownTypeFallsBackToText(t *testing.T) {
	ctrl := Render(Field{ID: "f1", Label: "神秘字段", Type: "hologram"}, "v", false)
	if ctrl.Component != string(FieldText) {
		t.Fatalf("expected text fallback, got %q", ctrl.Component)
	}
	if !strings.Contains(ctrl.Warning, "hologram") {
		t.Fatalf("warning should name the unknown type, got %q", ctrl.Warning)
	}
	if ctrl.Value != "v" {
		t.Fatalf("value should be preserved, got %v", ctrl.Value)
	}
}

// TestRenderSliderLabels 滑块渲染 最小/当前/最大 标签
func TestRenderSliderLabels(t *testing.T) {
	field := Field{
		ID:   "f1",
		Type: FieldSlider,
		Options: Options{
			MinValue: f64(0),
			MaxValue: f64(100),
			Step:     f64(5),
		},
	}
	ctrl := Render(field, 40.0, false)
	labels, ok := ctrl.Props["labels"].([]string)
	if !ok {
		t.Fatalf("expected labels prop, got %v", ctrl.Props)
	}
	want := []string{"0", "40", "100"}
	for i, l := range want {
		if labels[i] != l {
			t.Fatalf("labels = %v, want %v", labels, want)
		}
	}
}

// TestRenderInspectionChoices 检查项固定渲染 pass/fail/flag 三态
func TestRenderInspectionChoices(t *testing.T) {
	ctrl := Render(Field{ID: "f1", Type: FieldInspection, Options: Options{
		AllowComments:        true,
		RequireCommentOnFail: true,
	}}, nil, false)

	choices, ok := ctrl.Props["choices"].([]string)
	if !ok || len(choices) != 3 {
		t.Fatalf("expected 3 inspection choices, got %v", ctrl.Props["choices"])
	}
	if choices[0] != InspectionPass || choices[1] != InspectionFail || choices[2] != InspectionFlag {
		t.Fatalf("choices = %v", choices)
	}
	if ctrl.Props["require_comment_on_fail"] != true {
		t.Fatalf("expected require_comment_on_fail prop")
	}
}

// TestRenderPresentationalDropsValue 展示字段不携带值和必填标记
func TestRenderPresentationalDropsValue(t *testing.T) {
	for _, ft := range []FieldType{FieldSection, FieldDivider, FieldInfo} {
		ctrl := Render(Field{ID: "f1", Type: ft, Required: true}, "stray", true)
		if ctrl.Value != nil {
			t.Fatalf("type %s: value should be dropped, got %v", ft, ctrl.Value)
		}
		if ctrl.Required {
			t.Fatalf("type %s: required should be cleared", ft)
		}
	}
}

// TestRenderReadOnly 只读标记透传
func TestRenderReadOnly(t *testing.T) {
	ctrl := Render(Field{ID: "f1", Type: FieldText}, "v", true)
	if !ctrl.ReadOnly {
		t.Fatalf("expected read_only control")
	}
}

// TestOptionsEditorCoversConfigurableTypes 可配置类型都有编辑器定义
func TestOptionsEditorCoversConfigurableTypes(t *testing.T) {
	cases := map[FieldType]string{
		FieldSelect:     "choices",
		FieldNumber:     "min_value",
		FieldDate:       "min_date",
		FieldFile:       "max_file_size",
		FieldRating:     "max_rating",
		FieldInspection: "allow_comments",
		FieldInfo:       "info_text",
		FieldText:       "placeholder",
	}
	for ft, wantKey := range cases {
		editors := OptionsEditor(ft)
		if len(editors) == 0 {
			t.Fatalf("type %s: no editor fields", ft)
		}
		found := false
		for _, e := range editors {
			if e.Key == wantKey {
				found = true
			}
		}
		if !found {
			t.Fatalf("type %s: editor missing key %q, got %+v", ft, wantKey, editors)
		}
	}
	// 分隔线没有可配置项
	if editors := OptionsEditor(FieldDivider); editors != nil {
		t.Fatalf("divider should have no editor fields, got %+v", editors)
	}
}
