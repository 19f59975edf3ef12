package repository

import (
	"errors"
	"time"

	"github.com/mathsolver/mathchat/internal/model"
	"gorm.io/gorm"
)

// sharedChatRepositoryImpl 分享快照数据访问
type sharedChatRepositoryImpl struct {
	db *gorm.DB
}

// NewSharedChatRepository 创建分享快照仓库
func NewSharedChatRepository(db *gorm.DB) SharedChatRepository {
	return &sharedChatRepositoryImpl{db: db}
}

// Create 创建分享快照
func (r *sharedChatRepositoryImpl) Create(sc *model.SharedChat) error {
	return r.db.Create(sc).Error
}

// GetByID 获取分享快照，不存在时返回 nil
func (r *sharedChatRepositoryImpl) GetByID(id string) (*model.SharedChat, error) {
	var sc model.SharedChat
	err := r.db.Where("id = ?", id).First(&sc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sc, nil
}

// GetByChatIDAndStamp 按源聊天和版本戳查找已有快照，不存在时返回 nil
func (r *sharedChatRepositoryImpl) GetByChatIDAndStamp(chatID string, stamp time.Time) (*model.SharedChat, error) {
	var sc model.SharedChat
	err := r.db.Where("chat_id = ? AND updated_at = ?", chatID, stamp).First(&sc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sc, nil
}

// TouchCreatedAt 刷新快照的创建时间，延长过期窗口
func (r *sharedChatRepositoryImpl) TouchCreatedAt(id string, now time.Time) error {
	return r.db.Model(&model.SharedChat{}).
		Where("id = ?", id).
		Update("created_at", now).Error
}

// DeleteByID 删除分享快照
func (r *sharedChatRepositoryImpl) DeleteByID(id string) error {
	return r.db.Delete(&model.SharedChat{}, "id = ?", id).Error
}

// DeleteByChatID 删除某聊天名下的全部分享快照
func (r *sharedChatRepositoryImpl) DeleteByChatID(chatID string) error {
	return r.db.Delete(&model.SharedChat{}, "chat_id = ?", chatID).Error
}

// 确保 sharedChatRepositoryImpl 实现了接口
var _ SharedChatRepository = (*sharedChatRepositoryImpl)(nil)
