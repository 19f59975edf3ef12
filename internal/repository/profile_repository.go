package repository

import (
	"errors"

	"github.com/mathsolver/mathchat/internal/model"
	"gorm.io/gorm"
)

// profileRepositoryImpl 用户档案数据访问
type profileRepositoryImpl struct {
	db *gorm.DB
}

// NewProfileRepository 创建用户档案仓库
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepositoryImpl{db: db}
}

// GetByUserID 获取用户档案，不存在时返回 nil
func (r *profileRepositoryImpl) GetByUserID(userID string) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// 确保 profileRepositoryImpl 实现了接口
var _ ProfileRepository = (*profileRepositoryImpl)(nil)
