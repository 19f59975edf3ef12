package model

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"
)

// Message 对话消息
type Message struct {
	Role    string `json:"role"` // user, assistant, system
	Content string `json:"content"`
}

// Payload 对话记录（按顺序追加）
type Payload struct {
	Messages []Message `json:"messages"`
}

// Value 实现 driver.Valuer 接口
func (p Payload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan 实现 sql.Scanner 接口
func (p *Payload) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(b, p)
}

// WolframImage 求解器图片缓存（内部 URL 与可公开访问的图片数据）
type WolframImage struct {
	URL   string `json:"url"`
	Image string `json:"image"`
}

// Value 实现 driver.Valuer 接口
func (w WolframImage) Value() (driver.Value, error) {
	return json.Marshal(w)
}

// Scan 实现 sql.Scanner 接口
func (w *WolframImage) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(b, w)
}

// Chat 聊天记录
// question 为空表示刚创建的空聊天，解析问题成功后被填充
type Chat struct {
	ID            string       `gorm:"primaryKey;size:36" json:"id"`
	UserID        string       `gorm:"index;size:36" json:"user_id"`
	CreatedAt     time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
	Question      string       `gorm:"type:text" json:"question"`
	TextPrompt    string       `gorm:"type:text" json:"text_prompt"`
	ImageStr      string       `gorm:"type:text" json:"image_str"`
	ThumbnailStr  string       `gorm:"type:text" json:"thumbnail_str"`
	ImageContent  string       `gorm:"type:text" json:"image_content"`
	LearnerMode   bool         `gorm:"default:false" json:"learner_mode"`
	Payload       Payload      `gorm:"type:jsonb" json:"payload"`
	WolframQuery  string       `gorm:"type:text" json:"wolfram_query"`
	WolframAnswer string       `gorm:"type:text" json:"wolfram_answer"`
	WolframImage  WolframImage `gorm:"type:jsonb" json:"wolfram_image"`
}

// TableName 指定表名
func (Chat) TableName() string {
	return "chats"
}

// IsEmpty 是否为未填充问题的空聊天
func (c *Chat) IsEmpty() bool {
	return c.Question == ""
}

// ReplaceWolframURL 把助手消息里的内部求解器 URL 替换为可公开访问的图片数据
// 学习模式的聊天不包含求解器资源，原样保留
func (c *Chat) ReplaceWolframURL() {
	if c.LearnerMode || c.WolframImage.URL == "" {
		return
	}
	for i, msg := range c.Payload.Messages {
		if msg.Role == "assistant" {
			c.Payload.Messages[i].Content = strings.ReplaceAll(
				msg.Content, c.WolframImage.URL, c.WolframImage.Image)
		}
	}
}
