package model

// Member 会员表，对应 members
// 会员独占其缴费记录，删除会员时先删除缴费再删除会员
type Member struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name      string  `gorm:"type:varchar(100);not null" json:"name"`
	Phone     string  `gorm:"type:varchar(30)"           json:"phone"`
	Photo     *string `gorm:"type:varchar(255)"          json:"photo,omitempty"`
	StartDate Date    `gorm:"type:date;not null;index"   json:"start_date"`
	EndDate   Date    `gorm:"type:date;not null;index"   json:"end_date"`
	BaseModel

	Fees []FeePayment `gorm:"foreignKey:MemberID" json:"fees,omitempty"`
}

// TableName 指定表名
func (Member) TableName() string { return "members" }
