package repository

import (
	"errors"
	"time"

	"github.com/mathsolver/mathchat/internal/model"
	"github.com/mathsolver/mathchat/internal/service/types"
	"gorm.io/gorm"
)

// creditRepositoryImpl 积分数据访问
// 读改写两步扣减在并发下不安全，这里全部用带条件的单语句更新实现
type creditRepositoryImpl struct {
	db *gorm.DB
}

// NewCreditRepository 创建积分仓库
func NewCreditRepository(db *gorm.DB) CreditRepository {
	return &creditRepositoryImpl{db: db}
}

// Create 创建积分账户
func (r *creditRepositoryImpl) Create(account *model.CreditAccount) error {
	return r.db.Create(account).Error
}

// GetByUserID 获取积分账户
func (r *creditRepositoryImpl) GetByUserID(userID string) (*model.CreditAccount, error) {
	var account model.CreditAccount
	err := r.db.Where("user_id = ?", userID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// SetTempCredit 绝对值设置临时积分
func (r *creditRepositoryImpl) SetTempCredit(userID string, amount int) error {
	return r.db.Model(&model.CreditAccount{}).
		Where("user_id = ?", userID).
		Update("temp_credit", amount).Error
}

// SetPermCredit 绝对值设置永久积分
func (r *creditRepositoryImpl) SetPermCredit(userID string, amount int) error {
	return r.db.Model(&model.CreditAccount{}).
		Where("user_id = ?", userID).
		Update("perm_credit", amount).Error
}

// DecrementTemp 条件扣减临时积分，余额不足时不做任何变更并返回 false
func (r *creditRepositoryImpl) DecrementTemp(userID string, cost int) (bool, error) {
	result := r.db.Model(&model.CreditAccount{}).
		Where("user_id = ? AND temp_credit >= ?", userID, cost).
		Update("temp_credit", gorm.Expr("temp_credit - ?", cost))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DecrementPerm 条件扣减永久积分
func (r *creditRepositoryImpl) DecrementPerm(userID string, cost int) (bool, error) {
	result := r.db.Model(&model.CreditAccount{}).
		Where("user_id = ? AND perm_credit >= ?", userID, cost).
		Update("perm_credit", gorm.Expr("perm_credit - ?", cost))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GrantLoginAward 发放每日登录奖励
// last_award_time 早于当天零点（UTC）才命中，保证每个自然日幂等
func (r *creditRepositoryImpl) GrantLoginAward(userID string, increment int, dayStart, now time.Time) (bool, error) {
	result := r.db.Model(&model.CreditAccount{}).
		Where("user_id = ? AND last_award_time < ?", userID, dayStart).
		Updates(map[string]interface{}{
			"temp_credit":     gorm.Expr("temp_credit + ?", increment),
			"last_award_time": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete 删除积分账户
func (r *creditRepositoryImpl) Delete(userID string) error {
	return r.db.Delete(&model.CreditAccount{}, "user_id = ?", userID).Error
}

// 确保 creditRepositoryImpl 实现了接口
var _ CreditRepository = (*creditRepositoryImpl)(nil)
