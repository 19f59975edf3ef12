package model

import "time"

// UserProfile 用户档案
// is_rewarded 标记该账号是否已兑换过邀请奖励，is_premium 用户不计费
type UserProfile struct {
	UserID     string    `gorm:"primaryKey;size:36" json:"user_id"`
	Email      string    `gorm:"size:255" json:"user_email"`
	IsRewarded bool      `gorm:"default:false" json:"is_rewarded"`
	IsPremium  bool      `gorm:"default:false" json:"is_premium"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (UserProfile) TableName() string {
	return "user_profile"
}
