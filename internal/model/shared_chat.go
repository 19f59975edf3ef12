package model

import "time"

// SharedChat 公开分享的聊天快照
// (chat_id, updated_at) 组合最多存在一条记录，重复分享未变化的聊天复用旧记录
// 非永久快照超过过期时间后在读取时被惰性删除
type SharedChat struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	ChatID      string    `gorm:"index;size:36;not null" json:"chat_id"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false" json:"updated_at"` // 源聊天分享时的版本戳，不自动更新
	Payload     Payload   `gorm:"type:jsonb" json:"payload"`
	IsPermanent bool      `gorm:"default:false" json:"is_permanent"`
	CreatedAt   time.Time `json:"created_at"` // 用于过期判断，复用时会被刷新
}

// TableName 指定表名
func (SharedChat) TableName() string {
	return "shared_chats"
}
