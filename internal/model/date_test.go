package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-10")
	if err != nil {
		t.Fatalf("ParseDate 失败: %v", err)
	}
	if d.String() != "2024-06-10" {
		t.Errorf("期望 2024-06-10，实际=%s", d.String())
	}

	for _, bad := range []string{"", "2024/06/10", "10-06-2024", "2024-13-01", "2024-06-10T00:00:00Z"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("期望 %q 解析失败", bad)
		}
	}
}

func TestDate_Arithmetic(t *testing.T) {
	today := NewDate(2024, 6, 10)

	if got := today.AddDays(3).String(); got != "2024-06-13" {
		t.Errorf("AddDays(3) 期望 2024-06-13，实际=%s", got)
	}
	if got := today.AddDays(-3).String(); got != "2024-06-07" {
		t.Errorf("AddDays(-3) 期望 2024-06-07，实际=%s", got)
	}
	if got := today.DaysSince(NewDate(2024, 5, 9)); got != 32 {
		t.Errorf("DaysSince 期望 32，实际=%d", got)
	}
	if got := NewDate(2024, 3, 1).DaysSince(NewDate(2024, 2, 28)); got != 2 {
		t.Errorf("闰年 DaysSince 期望 2，实际=%d", got)
	}
	if got := NewDate(9999, 12, 31).DaysSince(today); got != 2913012 {
		t.Errorf("远期 DaysSince 期望 2913012，实际=%d", got)
	}
	if got := today.DaysSince(NewDate(1, 1, 1)); got != 739046 {
		t.Errorf("远古 DaysSince 期望 739046，实际=%d", got)
	}
	if !today.Between(today, today) {
		t.Error("闭区间应包含端点")
	}
	if today.Between(today.AddDays(1), today.AddDays(2)) {
		t.Error("today 不应在 [today+1, today+2] 内")
	}
}

func TestDateOf_UsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	// UTC 2024-06-09 20:00 在 UTC+8 已是 6 月 10 日
	ts := time.Date(2024, 6, 9, 20, 0, 0, 0, time.UTC).In(loc)
	if got := DateOf(ts).String(); got != "2024-06-10" {
		t.Errorf("期望 2024-06-10，实际=%s", got)
	}
}

func TestDate_Scan(t *testing.T) {
	cases := []struct {
		name string
		src  interface{}
		want string
	}{
		{"time", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), "2024-06-10"},
		{"string", "2024-06-10", "2024-06-10"},
		{"bytes", []byte("2024-06-10"), "2024-06-10"},
		{"timestamp text", "2024-06-10 00:00:00+00:00", "2024-06-10"},
		{"nil", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var d Date
			if err := d.Scan(tc.src); err != nil {
				t.Fatalf("Scan 失败: %v", err)
			}
			if d.String() != tc.want {
				t.Errorf("期望 %q，实际=%q", tc.want, d.String())
			}
		})
	}

	var d Date
	if err := d.Scan(42); err == nil {
		t.Error("不支持的类型应返回错误")
	}
}

func TestDate_Value(t *testing.T) {
	v, err := NewDate(2024, 6, 10).Value()
	if err != nil || v != "2024-06-10" {
		t.Errorf("期望 2024-06-10，实际=%v err=%v", v, err)
	}
	v, _ = Date{}.Value()
	if v != nil {
		t.Errorf("零值应序列化为 NULL，实际=%v", v)
	}
}

func TestDate_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		D Date `json:"d"`
	}{D: NewDate(2024, 6, 10)})
	if err != nil {
		t.Fatalf("Marshal 失败: %v", err)
	}
	if string(b) != `{"d":"2024-06-10"}` {
		t.Errorf("JSON 不符: %s", b)
	}

	var out struct {
		D Date `json:"d"`
	}
	if err := json.Unmarshal([]byte(`{"d":"2024-02-29"}`), &out); err != nil {
		t.Fatalf("Unmarshal 失败: %v", err)
	}
	if out.D.String() != "2024-02-29" {
		t.Errorf("期望 2024-02-29，实际=%s", out.D.String())
	}
	if err := json.Unmarshal([]byte(`{"d":"06/10/2024"}`), &out); err == nil {
		t.Error("非法日期应返回错误")
	}
}
