// Package sharedchat 实现聊天分享快照
// 同一聊天的同一版本最多产生一条快照，非永久快照在读取时惰性过期
package sharedchat

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mathsolver/mathchat/internal/model"
	"github.com/mathsolver/mathchat/internal/repository"
	"github.com/mathsolver/mathchat/internal/service/types"
)

const (
	cacheKeyPrefix = "shared_chat:"
	cacheTTL       = 1 * time.Hour
)

// Service 分享快照服务
type Service struct {
	repo  repository.SharedChatRepository
	chats repository.ChatRepository
	redis *redis.Client
	now   func() time.Time
}

// NewService 创建分享快照服务，redis 可为 nil（不启用缓存）
func NewService(repo repository.SharedChatRepository, chats repository.ChatRepository, rdb *redis.Client) *Service {
	return &Service{repo: repo, chats: chats, redis: rdb, now: time.Now}
}

// Share 为聊天创建分享快照，返回快照 ID
// 聊天自上次分享后未变化时复用旧快照并刷新其过期窗口
func (s *Service) Share(ctx context.Context, chatID string, isPermanent bool) (string, error) {
	chat, err := s.chats.GetByID(chatID)
	if err != nil {
		return "", fmt.Errorf("failed to get chat %s: %w", chatID, err)
	}

	existing, err := s.repo.GetByChatIDAndStamp(chatID, chat.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to look up shared chat for chat %s: %w", chatID, err)
	}
	if existing != nil {
		if err := s.repo.TouchCreatedAt(existing.ID, s.now().UTC()); err != nil {
			return "", fmt.Errorf("failed to refresh shared chat %s: %w", existing.ID, err)
		}
		s.invalidate(ctx, existing.ID)
		return existing.ID, nil
	}

	sc := &model.SharedChat{
		ID:          uuid.New().String(),
		ChatID:      chatID,
		UpdatedAt:   chat.UpdatedAt,
		Payload:     chat.Payload,
		IsPermanent: isPermanent,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(sc); err != nil {
		return "", fmt.Errorf("failed to create shared chat for chat %s: %w", chatID, err)
	}
	return sc.ID, nil
}

// Get 按快照 ID 读取分享的聊天内容
// 非永久快照超过过期窗口时被删除并按不存在处理，返回 (nil, nil)
// 返回的聊天以快照当时的对话内容为准，助手消息里的内部图片 URL 已被替换
func (s *Service) Get(ctx context.Context, id string) (*model.Chat, error) {
	if cached := s.fromCache(ctx, id); cached != nil {
		return cached, nil
	}

	sc, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get shared chat %s: %w", id, err)
	}
	if sc == nil {
		return nil, nil
	}

	if !sc.IsPermanent && s.now().UTC().Sub(sc.CreatedAt) >= types.SharedChatExpire {
		if err := s.repo.DeleteByID(id); err != nil {
			log.Printf("Warning: failed to delete expired shared chat %s: %v", id, err)
		}
		s.invalidate(ctx, id)
		return nil, nil
	}

	chat, err := s.chats.GetByID(sc.ChatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get source chat %s for shared chat %s: %w", sc.ChatID, id, err)
	}

	// 对话内容取快照版本而不是源聊天的当前版本
	chat.Payload = sc.Payload
	chat.ReplaceWolframURL()

	s.toCache(ctx, id, chat)
	return chat, nil
}

// DeleteBySharedChatID 删除单条分享快照
func (s *Service) DeleteBySharedChatID(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(id); err != nil {
		return fmt.Errorf("failed to delete shared chat %s: %w", id, err)
	}
	s.invalidate(ctx, id)
	return nil
}

// DeleteByChatID 删除某聊天名下的全部分享快照，随聊天删除级联触发
func (s *Service) DeleteByChatID(ctx context.Context, chatID string) error {
	if err := s.repo.DeleteByChatID(chatID); err != nil {
		return fmt.Errorf("failed to delete shared chats for chat %s: %w", chatID, err)
	}
	return nil
}

// ========== Redis 缓存（尽力而为，失败只记日志） ==========

func (s *Service) fromCache(ctx context.Context, id string) *model.Chat {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(ctx, cacheKeyPrefix+id).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Warning: failed to read shared chat %s from cache: %v", id, err)
		}
		return nil
	}
	var chat model.Chat
	if err := json.Unmarshal(data, &chat); err != nil {
		log.Printf("Warning: failed to decode cached shared chat %s: %v", id, err)
		return nil
	}
	return &chat
}

func (s *Service) toCache(ctx context.Context, id string, chat *model.Chat) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(chat)
	if err != nil {
		log.Printf("Warning: failed to encode shared chat %s for cache: %v", id, err)
		return
	}
	if err := s.redis.Set(ctx, cacheKeyPrefix+id, data, cacheTTL).Err(); err != nil {
		log.Printf("Warning: failed to cache shared chat %s: %v", id, err)
	}
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, cacheKeyPrefix+id).Err(); err != nil {
		log.Printf("Warning: failed to invalidate cached shared chat %s: %v", id, err)
	}
}
