// Package status 根据"今天"和会员数据推导会员状态。
//
// 这里只有纯函数：不访问存储，不依赖会话，同样的输入总是得到同样的结果。
// 三个到期时间窗口彼此重叠但各不相同，分别命名、分别测试，不要合并：
//
//	IsExpiring          end_date ≤ today+3            （无下界）
//	ExpiringSoonWindow  today ≤ end_date ≤ today+3
//	ExpiryAlertWindow   today-3 ≤ end_date ≤ today+2
package status

import "aj-fitness/internal/model"

const (
	// ExpiringWithinDays 到期标记的前瞻天数（含当天）
	ExpiringWithinDays = 3
	// OverdueAfterDays 距最近一次缴费超过该天数即为欠费（恰好 30 天不算）
	OverdueAfterDays = 30

	alertDaysBefore = 3
	alertDaysAfter  = 2
)

// Window 闭区间日期窗口 [From, To]
type Window struct {
	From model.Date
	To   model.Date
}

// Contains d 是否落在窗口内（含两端）
func (w Window) Contains(d model.Date) bool {
	return d.Between(w.From, w.To)
}

// IsExpiring 会员到期日不晚于 today+3 天。已过期的会员同样为 true。
func IsExpiring(today, endDate model.Date) bool {
	return !endDate.After(today.AddDays(ExpiringWithinDays))
}

// IsOverdue 从未缴费，或最近一次缴费距今超过 30 天
func IsOverdue(today model.Date, latestFee *model.Date) bool {
	if latestFee == nil {
		return true
	}
	return today.DaysSince(*latestFee) > OverdueAfterDays
}

// ExpiringSoonWindow 看板"即将到期"计数窗口：[today, today+3]
func ExpiringSoonWindow(today model.Date) Window {
	return Window{From: today, To: today.AddDays(ExpiringWithinDays)}
}

// InExpiringSoonWindow 到期日是否计入"即将到期"
func InExpiringSoonWindow(today, endDate model.Date) bool {
	return ExpiringSoonWindow(today).Contains(endDate)
}

// ExpiryAlertWindow 到期提醒列表窗口：[today-3, today+2]
func ExpiryAlertWindow(today model.Date) Window {
	return Window{From: today.AddDays(-alertDaysBefore), To: today.AddDays(alertDaysAfter)}
}

// InExpiryAlertWindow 到期日是否出现在提醒列表中
func InExpiryAlertWindow(today, endDate model.Date) bool {
	return ExpiryAlertWindow(today).Contains(endDate)
}

// Flags 单个会员的派生状态
type Flags struct {
	Expiring     bool `json:"expiring"`
	Overdue      bool `json:"overdue"`
	ExpiringSoon bool `json:"expiring_soon"`
	ExpiryAlert  bool `json:"expiry_alert"`
	// DaysUntilExpiry 为负表示已过期的天数
	DaysUntilExpiry int `json:"days_until_expiry"`
	// DaysSinceLastFee 从未缴费时为 nil
	DaysSinceLastFee *int `json:"days_since_last_fee,omitempty"`
}

// Evaluate 计算会员在 today 的全部派生状态
func Evaluate(today model.Date, m *model.Member, latestFee *model.Date) Flags {
	f := Flags{
		Expiring:        IsExpiring(today, m.EndDate),
		Overdue:         IsOverdue(today, latestFee),
		ExpiringSoon:    InExpiringSoonWindow(today, m.EndDate),
		ExpiryAlert:     InExpiryAlertWindow(today, m.EndDate),
		DaysUntilExpiry: m.EndDate.DaysSince(today),
	}
	if latestFee != nil {
		days := today.DaysSince(*latestFee)
		f.DaysSinceLastFee = &days
	}
	return f
}
