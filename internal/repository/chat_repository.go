package repository

import (
	"errors"

	"github.com/mathsolver/mathchat/internal/model"
	"github.com/mathsolver/mathchat/internal/service/types"
	"gorm.io/gorm"
)

// chatRepositoryImpl 聊天数据访问
type chatRepositoryImpl struct {
	db *gorm.DB
}

// NewChatRepository 创建聊天仓库
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepositoryImpl{db: db}
}

// Create 创建聊天
func (r *chatRepositoryImpl) Create(chat *model.Chat) error {
	return r.db.Create(chat).Error
}

// GetByID 获取聊天
func (r *chatRepositoryImpl) GetByID(id string) (*model.Chat, error) {
	var chat model.Chat
	err := r.db.Where("id = ?", id).First(&chat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	return &chat, nil
}

// ListFulfilledByUser 列出用户所有已填充问题的聊天
// 空聊天（question 为空）被过滤掉
func (r *chatRepositoryImpl) ListFulfilledByUser(userID string) ([]*model.Chat, error) {
	var chats []*model.Chat
	err := r.db.Where("user_id = ? AND question <> ''", userID).
		Order("created_at DESC").
		Find(&chats).Error
	return chats, err
}

// UpdateColumns 更新指定列
func (r *chatRepositoryImpl) UpdateColumns(id string, cols map[string]interface{}) error {
	return r.db.Model(&model.Chat{}).Where("id = ?", id).Updates(cols).Error
}

// UpdatePayload 更新对话记录
func (r *chatRepositoryImpl) UpdatePayload(id string, payload model.Payload) error {
	return r.db.Model(&model.Chat{}).Where("id = ?", id).
		Update("payload", payload).Error
}

// Delete 删除聊天，不存在时不报错
func (r *chatRepositoryImpl) Delete(id string) error {
	return r.db.Delete(&model.Chat{}, "id = ?", id).Error
}

// UserHasAccess 检查用户是否拥有该聊天
func (r *chatRepositoryImpl) UserHasAccess(chatID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Chat{}).
		Where("id = ? AND user_id = ?", chatID, userID).
		Count(&count).Error
	return count > 0, err
}

// 确保 chatRepositoryImpl 实现了接口
var _ ChatRepository = (*chatRepositoryImpl)(nil)
