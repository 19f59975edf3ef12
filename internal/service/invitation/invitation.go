// Package invitation 实现邀请令牌与推荐奖励账本
package invitation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mathsolver/mathchat/internal/model"
	"github.com/mathsolver/mathchat/internal/repository"
	"github.com/mathsolver/mathchat/internal/service/types"
)

// Service 邀请服务
type Service struct {
	repo     repository.InvitationRepository
	profiles repository.ProfileRepository
	now      func() time.Time
}

// NewService 创建邀请服务
func NewService(repo repository.InvitationRepository, profiles repository.ProfileRepository) *Service {
	return &Service{repo: repo, profiles: profiles, now: time.Now}
}

// GetOrCreateToken 返回用户当前有效的邀请令牌
// 令牌不存在或已过期时，删除旧令牌并签发带新有效期的令牌
func (s *Service) GetOrCreateToken(ctx context.Context, userID string) (string, error) {
	inv, err := s.repo.GetByUserID(userID)
	if err != nil {
		return "", fmt.Errorf("failed to get invitation for user %s: %w", userID, err)
	}

	now := s.now().UTC()
	if inv != nil && !inv.IsExpired(now) {
		return inv.ID, nil
	}

	if inv != nil {
		if err := s.repo.DeleteByUserID(userID); err != nil {
			return "", fmt.Errorf("failed to delete expired invitation for user %s: %w", userID, err)
		}
	}

	fresh := &model.Invitation{
		ID:         uuid.New().String(),
		UserID:     userID,
		CreatedAt:  now,
		ValidUntil: now.Add(types.InvitationTokenTTL),
	}
	if err := s.repo.Create(fresh); err != nil {
		return "", fmt.Errorf("failed to create invitation for user %s: %w", userID, err)
	}
	return fresh.ID, nil
}

// Redeem 兑换邀请令牌
// 防滥用规则全部闭合失败（返回 false 且无任何变更）：
// 令牌无法解析、令牌过期、自我推荐、账号已兑换过、令牌晚于账号创建
// 兑换成功时在一个事务内标记账号已兑换、追加被邀请人记录、双方永久积分各加固定奖励
// 同一 (token, user) 重复调用后续都返回 false
func (s *Service) Redeem(ctx context.Context, token, userID string) (bool, error) {
	if token == "" {
		return false, nil
	}

	inv, err := s.repo.GetByID(token)
	if err != nil {
		return false, fmt.Errorf("failed to resolve invitation token: %w", err)
	}
	if inv == nil || inv.IsExpired(s.now().UTC()) {
		return false, nil
	}
	if inv.UserID == userID {
		// 自我推荐
		return false, nil
	}

	profile, err := s.profiles.GetByUserID(userID)
	if err != nil {
		return false, fmt.Errorf("failed to get profile for user %s: %w", userID, err)
	}
	if profile == nil || profile.IsRewarded {
		return false, nil
	}
	// 真实的推荐要求邀请链接先于账号注册存在
	if inv.CreatedAt.After(profile.CreatedAt) {
		return false, nil
	}

	granted, err := s.repo.RedeemReward(userID, inv.UserID, profile.Email, types.InvitationBonus, s.now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to redeem invitation for user %s: %w", userID, err)
	}
	return granted, nil
}

// ListReferees 列出邀请人名下的被邀请人记录
func (s *Service) ListReferees(ctx context.Context, referrerID string) ([]*model.RefereeRecord, error) {
	records, err := s.repo.ListReferees(referrerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list referees for user %s: %w", referrerID, err)
	}
	return records, nil
}

// UpdateNotification 批量标记被邀请人已通知
// 单条失败只记录日志，不中断其余邮箱的处理
func (s *Service) UpdateNotification(ctx context.Context, referrerID string, emails []string) error {
	for _, email := range emails {
		if err := s.repo.SetNotified(referrerID, email); err != nil {
			log.Printf("Warning: failed to mark referee %s notified for user %s: %v", email, referrerID, err)
		}
	}
	return nil
}
