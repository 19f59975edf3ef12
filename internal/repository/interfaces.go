// Package repository 定义数据访问接口
// 接口抽象使依赖注入和单元测试成为可能
package repository

import (
	"time"

	"github.com/mathsolver/mathchat/internal/model"
)

// ========== ChatRepository 接口 ==========

// ChatRepository 聊天数据访问接口
// 接口定义使 Service 层可以轻松 mock 进行单元测试
type ChatRepository interface {
	Create(chat *model.Chat) error
	GetByID(id string) (*model.Chat, error)
	ListFulfilledByUser(userID string) ([]*model.Chat, error)
	UpdateColumns(id string, cols map[string]interface{}) error
	UpdatePayload(id string, payload model.Payload) error
	Delete(id string) error
	UserHasAccess(chatID, userID string) (bool, error)
}

// ========== CreditRepository 接口 ==========

// CreditRepository 积分数据访问接口
// 扣减和每日奖励都是带条件的单语句更新，返回是否命中
type CreditRepository interface {
	Create(account *model.CreditAccount) error
	GetByUserID(userID string) (*model.CreditAccount, error)
	SetTempCredit(userID string, amount int) error
	SetPermCredit(userID string, amount int) error
	DecrementTemp(userID string, cost int) (bool, error)
	DecrementPerm(userID string, cost int) (bool, error)
	GrantLoginAward(userID string, increment int, dayStart, now time.Time) (bool, error)
	Delete(userID string) error
}

// ========== InvitationRepository 接口 ==========

// InvitationRepository 邀请数据访问接口
type InvitationRepository interface {
	GetByUserID(userID string) (*model.Invitation, error)
	GetByID(token string) (*model.Invitation, error)
	Create(inv *model.Invitation) error
	DeleteByUserID(userID string) error
	// RedeemReward 在单个事务内完成：以 is_rewarded 标志为闸门标记账号已兑换、
	// 追加被邀请人记录、给双方永久积分加上奖励；闸门未命中时返回 false 且无任何变更
	RedeemReward(userID, referrerID, guestEmail string, bonus int, now time.Time) (bool, error)
	ListReferees(referrerID string) ([]*model.RefereeRecord, error)
	SetNotified(referrerID, guestEmail string) error
}

// ========== ProfileRepository 接口 ==========

// ProfileRepository 用户档案数据访问接口
type ProfileRepository interface {
	GetByUserID(userID string) (*model.UserProfile, error)
}

// ========== SharedChatRepository 接口 ==========

// SharedChatRepository 分享快照数据访问接口
type SharedChatRepository interface {
	Create(sc *model.SharedChat) error
	GetByID(id string) (*model.SharedChat, error)
	GetByChatIDAndStamp(chatID string, stamp time.Time) (*model.SharedChat, error)
	TouchCreatedAt(id string, now time.Time) error
	DeleteByID(id string) error
	DeleteByChatID(chatID string) error
}
