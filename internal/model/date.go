package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout 日期统一使用 ISO-8601 日历日格式
const DateLayout = "2006-01-02"

// Date 日历日（无时分秒），内部固定为 UTC 零点，天数差因此总是整数
// 实现 GORM Scanner/Valuer，存储为 YYYY-MM-DD 文本 / DATE 类型
type Date struct {
	t time.Time
}

// NewDate 按年月日构造日期
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf 取 t 在其所在时区下的日历日
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate 解析 YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("日期格式应为 YYYY-MM-DD: %q", s)
	}
	return Date{t: t}, nil
}

// MustParseDate 解析失败时 panic，仅用于常量与测试
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// Time 返回 UTC 零点时间
func (d Date) Time() time.Time { return d.t }

// IsZero 是否未设置
func (d Date) IsZero() bool { return d.t.IsZero() }

// AddDays 加减天数
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// DaysSince 返回 d 与 other 相差的天数（d - other）
func (d Date) DaysSince(other Date) int {
	return int((d.t.Unix() - other.t.Unix()) / 86400)
}

// Before d 早于 other
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// After d 晚于 other
func (d Date) After(other Date) bool { return d.t.After(other.t) }

// Equal 同一天
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// Between from ≤ d ≤ to
func (d Date) Between(from, to Date) bool {
	return !d.Before(from) && !d.After(to)
}

// ── GORM Scanner/Valuer ──

// Value 序列化为 YYYY-MM-DD，SQLite 中可直接按字符串比较大小
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan 兼容驱动返回的 time.Time（DATE 列）与文本两种形式
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("Date.Scan: unsupported type %T", src)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("Date.Scan: %w", err)
	}
	*d = parsed
	return nil
}

// ── JSON ──

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
