package model

import "github.com/shopspring/decimal"

// FeePayment 缴费记录表，对应 fees
// 创建后不再修改，仅随所属会员一起删除
type FeePayment struct {
	ID       int64           `gorm:"primaryKey;autoIncrement"     json:"id"`
	MemberID int64           `gorm:"not null;index"               json:"member_id"`
	Amount   decimal.Decimal `gorm:"type:decimal(10,2);not null"  json:"amount"`
	Date     Date            `gorm:"type:date;not null;index"     json:"date"`
	BaseModel
}

// TableName 指定表名
func (FeePayment) TableName() string { return "fees" }
