package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Member MemberRepository
	Fee    FeeRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Member: NewMemberRepo(db),
		Fee:    NewFeeRepo(db),
	}
}
