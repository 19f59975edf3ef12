package model

import "time"

// Invitation 邀请令牌
// 每个用户最多持有一个有效令牌，过期的令牌在下次读取时被删除并重建
type Invitation struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     string    `gorm:"index;size:36;not null" json:"user_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	ValidUntil time.Time `json:"valid_until"`
}

// TableName 指定表名
func (Invitation) TableName() string {
	return "invitation"
}

// IsExpired 令牌是否已过期
func (i *Invitation) IsExpired(now time.Time) bool {
	return now.After(i.ValidUntil)
}

// RefereeRecord 被邀请人记录
// 每个 (referrer, guest) 组合最多创建一次
type RefereeRecord struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	ReferrerID string    `gorm:"index;size:36;not null" json:"referrer_id"`
	GuestEmail string    `gorm:"size:255;not null" json:"guest_email"`
	JoinDate   time.Time `json:"join_date"`
	Bonus      int       `gorm:"not null;default:0" json:"bonus"`
	IsNotify   bool      `gorm:"column:is_notify;default:false" json:"isNotify"`
}

// TableName 指定表名
func (RefereeRecord) TableName() string {
	return "referee_list"
}
