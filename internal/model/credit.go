package model

import "time"

// CreditAccount 用户积分账户
// temp_credit 每日登录补充，perm_credit 来自购买和邀请奖励
// 两个池都不允许为负
type CreditAccount struct {
	UserID        string    `gorm:"primaryKey;size:36" json:"user_id"`
	TempCredit    int       `gorm:"not null;default:0" json:"temp_credit"`
	PermCredit    int       `gorm:"not null;default:0" json:"perm_credit"`
	LastAwardTime time.Time `json:"last_award_time"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (CreditAccount) TableName() string {
	return "credits"
}
