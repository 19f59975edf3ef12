// Package credit 实现积分账本
// 临时积分优先消耗，永久积分兜底；每日登录奖励按 UTC 自然日幂等发放
package credit

import (
	"context"
	"fmt"
	"time"

	"github.com/mathsolver/mathchat/internal/model"
	"github.com/mathsolver/mathchat/internal/repository"
	"github.com/mathsolver/mathchat/internal/service/types"
)

// Service 积分服务
type Service struct {
	repo repository.CreditRepository
	now  func() time.Time
}

// NewService 创建积分服务
func NewService(repo repository.CreditRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Get 获取两个积分池的余额
// 也是付费操作前的授权检查入口：temp+perm <= 0 时调用方必须拒绝
func (s *Service) Get(ctx context.Context, userID string) (temp, perm int, err error) {
	account, err := s.repo.GetByUserID(userID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get credit for user %s: %w", userID, err)
	}
	return account.TempCredit, account.PermCredit, nil
}

// Decrement 扣减一次提问的积分
// 临时积分优先，不足时回退到永久积分；两个池都不够则返回 ErrInsufficientCredit 且无任何变更
func (s *Service) Decrement(ctx context.Context, userID string) error {
	ok, err := s.repo.DecrementTemp(userID, types.CostPerQuestion)
	if err != nil {
		return fmt.Errorf("failed to decrement temp credit for user %s: %w", userID, err)
	}
	if ok {
		return nil
	}

	ok, err = s.repo.DecrementPerm(userID, types.CostPerQuestion)
	if err != nil {
		return fmt.Errorf("failed to decrement perm credit for user %s: %w", userID, err)
	}
	if ok {
		return nil
	}

	return fmt.Errorf("user %s: %w", userID, types.ErrInsufficientCredit)
}

// SetTemp 绝对值设置临时积分
func (s *Service) SetTemp(ctx context.Context, userID string, amount int) error {
	if amount < 0 {
		return fmt.Errorf("user %s: credit can't be negative", userID)
	}
	return s.repo.SetTempCredit(userID, amount)
}

// SetPerm 绝对值设置永久积分
func (s *Service) SetPerm(ctx context.Context, userID string, amount int) error {
	if amount < 0 {
		return fmt.Errorf("user %s: credit can't be negative", userID)
	}
	return s.repo.SetPermCredit(userID, amount)
}

// GrantLoginAward 发放每日登录奖励
// 由列出聊天的读取路径惰性触发，同一 UTC 自然日内重复调用只发放一次
func (s *Service) GrantLoginAward(ctx context.Context, userID string) error {
	now := s.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	_, err := s.repo.GrantLoginAward(userID, types.DailyCreditIncrement, dayStart, now)
	if err != nil {
		return fmt.Errorf("failed to grant login award for user %s: %w", userID, err)
	}
	return nil
}

// Create 创建积分账户
func (s *Service) Create(ctx context.Context, userID string) error {
	account := &model.CreditAccount{
		UserID:        userID,
		TempCredit:    types.DefaultCredit,
		PermCredit:    types.DefaultCredit,
		LastAwardTime: s.now().UTC(),
	}
	if err := s.repo.Create(account); err != nil {
		return fmt.Errorf("failed to create credit for user %s: %w", userID, err)
	}
	return nil
}

// Delete 删除积分账户
func (s *Service) Delete(ctx context.Context, userID string) error {
	if err := s.repo.Delete(userID); err != nil {
		return fmt.Errorf("failed to delete credit for user %s: %w", userID, err)
	}
	return nil
}
