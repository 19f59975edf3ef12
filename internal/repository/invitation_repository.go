package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mathsolver/mathchat/internal/model"
	"gorm.io/gorm"
)

// invitationRepositoryImpl 邀请数据访问
type invitationRepositoryImpl struct {
	db *gorm.DB
}

// NewInvitationRepository 创建邀请仓库
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &invitationRepositoryImpl{db: db}
}

// GetByUserID 获取用户当前的邀请令牌，不存在时返回 nil
func (r *invitationRepositoryImpl) GetByUserID(userID string) (*model.Invitation, error) {
	var inv model.Invitation
	err := r.db.Where("user_id = ?", userID).First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

// GetByID 按令牌查找邀请，不存在时返回 nil
func (r *invitationRepositoryImpl) GetByID(token string) (*model.Invitation, error) {
	var inv model.Invitation
	err := r.db.Where("id = ?", token).First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

// Create 创建邀请令牌
func (r *invitationRepositoryImpl) Create(inv *model.Invitation) error {
	return r.db.Create(inv).Error
}

// DeleteByUserID 删除用户的邀请令牌
func (r *invitationRepositoryImpl) DeleteByUserID(userID string) error {
	return r.db.Delete(&model.Invitation{}, "user_id = ?", userID).Error
}

// RedeemReward 事务内兑换邀请奖励
// is_rewarded 标志是并发双重兑换的闸门：条件更新未命中则整个事务不产生任何写入
func (r *invitationRepositoryImpl) RedeemReward(userID, referrerID, guestEmail string, bonus int, now time.Time) (bool, error) {
	granted := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.UserProfile{}).
			Where("user_id = ? AND is_rewarded = ?", userID, false).
			Update("is_rewarded", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		record := &model.RefereeRecord{
			ID:         uuid.New().String(),
			ReferrerID: referrerID,
			GuestEmail: guestEmail,
			JoinDate:   now,
			Bonus:      bonus,
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		// 双方都获得永久积分奖励
		for _, id := range []string{referrerID, userID} {
			if err := tx.Model(&model.CreditAccount{}).
				Where("user_id = ?", id).
				Update("perm_credit", gorm.Expr("perm_credit + ?", bonus)).Error; err != nil {
				return err
			}
		}

		granted = true
		return nil
	})
	return granted, err
}

// ListReferees 列出邀请人名下的被邀请人记录
func (r *invitationRepositoryImpl) ListReferees(referrerID string) ([]*model.RefereeRecord, error) {
	var records []*model.RefereeRecord
	err := r.db.Where("referrer_id = ?", referrerID).
		Order("join_date DESC").
		Find(&records).Error
	return records, err
}

// SetNotified 标记被邀请人已通知
func (r *invitationRepositoryImpl) SetNotified(referrerID, guestEmail string) error {
	return r.db.Model(&model.RefereeRecord{}).
		Where("referrer_id = ? AND guest_email = ?", referrerID, guestEmail).
		Update("is_notify", true).Error
}

// 确保 invitationRepositoryImpl 实现了接口
var _ InvitationRepository = (*invitationRepositoryImpl)(nil)
