// Package types 定义各服务共享的错误类别与业务常量
// HTTP 层按错误类别翻译状态码，服务内部只返回带类别的错误值
package types

import (
	"errors"
	"time"
)

// ========== 错误类别 ==========

var (
	// ErrAuthorization 认证缺失或无效
	ErrAuthorization = errors.New("authorization missing or invalid")
	// ErrInsufficientCredit 积分不足
	ErrInsufficientCredit = errors.New("not enough credits")
	// ErrChatOwnership 请求者不是聊天的所有者
	ErrChatOwnership = errors.New("user does not have access to this chat")
	// ErrNewChat 创建新聊天流程中解析问题失败
	ErrNewChat = errors.New("new chat creation failed")
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("record not found")
)

// ========== 业务常量 ==========

const (
	// CostPerQuestion 每次提问消耗的积分
	CostPerQuestion = 1
	// DefaultCredit 新账户两个积分池的初始值
	DefaultCredit = 0
	// DailyCreditIncrement 每日登录奖励
	DailyCreditIncrement = 5
	// InvitationBonus 邀请双方各获得的永久积分
	InvitationBonus = 20
	// MaxMessageSize 单个聊天允许的最大消息数，达到后不再接受追问
	MaxMessageSize = 15
	// InvitationTokenTTL 邀请令牌有效期
	InvitationTokenTTL = 36500 * 24 * time.Hour
	// SharedChatExpire 非永久分享快照的有效期
	SharedChatExpire = 30 * 24 * time.Hour
)

// ChatAgain 判断对话是否还允许追问
func ChatAgain(messageCount int) bool {
	return messageCount < MaxMessageSize
}
