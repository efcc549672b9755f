package form

import (
	"strings"
	"testing"
)

func requireNoErr(t *testing.T, f Field, value interface{}) {
	t.Helper()
	if err := ValidateAnswer(f, value); err != nil {
		t.Fatalf("type %s value %v: unexpected error %v", f.Type, value, err)
	}
}

func requireErr(t *testing.T, f Field, value interface{}, wantReason string) {
	t.Helper()
	err := ValidateAnswer(f, value)
	if err == nil {
		t.Fatalf("type %s value %v: expected error", f.Type, value)
	}
	if wantReason != "" && !strings.Contains(err.Reason, wantReason) {
		t.Fatalf("type %s: reason = %q, want contains %q", f.Type, err.Reason, wantReason)
	}
}

func TestValidateAnswerTextTypes(t *testing.T) {
	requireNoErr(t, Field{Type: FieldText}, "hello")
	requireErr(t, Field{Type: FieldText}, 42.0, "文本")

	requireNoErr(t, Field{Type: FieldEmail}, "ops@example.com")
	requireErr(t, Field{Type: FieldEmail}, "not-an-email", "邮箱")

	requireNoErr(t, Field{Type: FieldURL}, "https://example.com/docs")
	requireErr(t, Field{Type: FieldURL}, "example.com", "链接")
}

func TestValidateAnswerNumberBounds(t *testing.T) {
	f := Field{Type: FieldNumber, Options: Options{MinValue: f64(10), MaxValue: f64(20), Step: f64(2)}}

	requireNoErr(t, f, 14.0)
	requireErr(t, f, 8.0, "不能小于")
	requireErr(t, f, 22.0, "不能大于")
	requireErr(t, f, 13.0, "步长")
	requireErr(t, f, "14", "数字")
}

func TestValidateAnswerChoices(t *testing.T) {
	sel := Field{Type: FieldSelect, Options: Options{Choices: []string{"正常", "异常"}}}
	requireNoErr(t, sel, "正常")
	requireErr(t, sel, "未知", "选项")

	multi := Field{Type: FieldMultiselect, Options: Options{Choices: []string{"a", "b"}}}
	requireNoErr(t, multi, []interface{}{"a", "b"})
	requireErr(t, multi, []interface{}{"a", "c"}, "选项")

	// allow_other 放开选项约束
	multi.Options.AllowOther = true
	requireNoErr(t, multi, []interface{}{"a", "c"})
}

func TestValidateAnswerDateTime(t *testing.T) {
	date := Field{Type: FieldDate, Options: Options{MinDate: "2026-01-01", MaxDate: "2026-12-31"}}
	requireNoErr(t, date, "2026-06-15")
	requireErr(t, date, "2025-12-31", "不能早于")
	requireErr(t, date, "2027-01-01", "不能晚于")
	requireErr(t, date, "15/06/2026", "YYYY-MM-DD")

	requireNoErr(t, Field{Type: FieldTime}, "08:30")
	requireErr(t, Field{Type: FieldTime}, "8:30pm", "HH:MM")

	requireNoErr(t, Field{Type: FieldDatetime}, "2026-06-15T08:30")
	requireErr(t, Field{Type: FieldDatetime}, "2026-06-15 08:30", "YYYY-MM-DDTHH:MM")
}

func TestValidateAnswerRating(t *testing.T) {
	f := Field{Type: FieldRating, Options: Options{}}
	requireNoErr(t, f, 3.0)
	requireErr(t, f, 6.0, "0.5 到 5")
	requireErr(t, f, 3.5, "增量")

	f.Options.AllowHalfStars = true
	requireNoErr(t, f, 3.5)

	f.Options.MaxRating = 10
	requireNoErr(t, f, 9.5)
}

func TestValidateAnswerFiles(t *testing.T) {
	f := Field{Type: FieldFile, Options: Options{MaxFileSize: 1024}}
	requireNoErr(t, f, map[string]interface{}{"name": "report.pdf", "url": "attachments/x", "size": 512.0})
	requireErr(t, f, map[string]interface{}{"name": "big.pdf", "size": 4096.0}, "大小上限")
	requireErr(t, f, []interface{}{
		map[string]interface{}{"name": "a.pdf"},
		map[string]interface{}{"name": "b.pdf"},
	}, "一个文件")

	// image 默认只收 image/*
	img := Field{Type: FieldImage}
	requireNoErr(t, img, map[string]interface{}{"name": "x.png", "content_type": "image/png"})
	requireErr(t, img, map[string]interface{}{"name": "x.pdf", "content_type": "application/pdf"}, "类型不允许")
}

func TestValidateAnswerInspection(t *testing.T) {
	plain := Field{Type: FieldInspection}
	requireNoErr(t, plain, "pass")
	requireNoErr(t, plain, map[string]interface{}{"value": "fail", "comment": "螺丝松动"})
	requireErr(t, plain, "maybe", "pass/fail/flag")

	strict := Field{Type: FieldInspection, Options: Options{AllowComments: true, RequireCommentOnFail: true}}
	requireNoErr(t, strict, "pass")
	requireNoErr(t, strict, map[string]interface{}{"value": "fail", "comment": "有裂纹"})
	requireErr(t, strict, "fail", "备注")
	requireErr(t, strict, map[string]interface{}{"value": "flag", "comment": "  "}, "备注")
}

func TestValidateAnswersRequiredAndUnknown(t *testing.T) {
	fields := []Field{
		{ID: "f1", Label: "名称", Type: FieldText, Required: true},
		{ID: "f2", Label: "备注", Type: FieldTextarea},
		{ID: "f3", Label: "说明", Type: FieldInfo},
	}

	// 必填缺失
	errs := ValidateAnswers(fields, map[string]interface{}{})
	if len(errs) != 1 || errs[0].FieldID != "f1" {
		t.Fatalf("expected one required error on f1, got %+v", errs)
	}

	// 未知键
	errs = ValidateAnswers(fields, map[string]interface{}{"f1": "x", "ghost": "y"})
	if len(errs) != 1 || errs[0].FieldID != "ghost" {
		t.Fatalf("expected unknown-key error, got %+v", errs)
	}

	// 展示字段不能携带答案
	errs = ValidateAnswers(fields, map[string]interface{}{"f1": "x", "f3": "stray"})
	if len(errs) != 1 || errs[0].FieldID != "f3" {
		t.Fatalf("expected presentational error on f3, got %+v", errs)
	}

	// 全部合法
	errs = ValidateAnswers(fields, map[string]interface{}{"f1": "x", "f2": "ok"})
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %+v", errs)
	}
}
