// Package service 聚合业务服务
package service

import (
	"github.com/redis/go-redis/v9"

	"github.com/mathsolver/mathchat/internal/config"
	"github.com/mathsolver/mathchat/internal/repository"
	"github.com/mathsolver/mathchat/internal/service/auth"
	"github.com/mathsolver/mathchat/internal/service/chat"
	"github.com/mathsolver/mathchat/internal/service/credit"
	"github.com/mathsolver/mathchat/internal/service/invitation"
	"github.com/mathsolver/mathchat/internal/service/sharedchat"
)

// Services 服务集合
type Services struct {
	Auth       *auth.Service
	Chat       *chat.Service
	Credit     *credit.Service
	Invitation *invitation.Service
	SharedChat *sharedchat.Service
	Profile    repository.ProfileRepository
}

// NewServices 创建所有服务
func NewServices(repos *repository.Repositories, cfg *config.Config, rdb *redis.Client, agent chat.AnswerAgent) *Services {
	creditSvc := credit.NewService(repos.Credit)
	sharedSvc := sharedchat.NewService(repos.SharedChat, repos.Chat, rdb)

	return &Services{
		Auth:       auth.NewService(cfg.Auth.JWTSecret),
		Chat:       chat.NewService(repos.Chat, creditSvc, sharedSvc, agent),
		Credit:     creditSvc,
		Invitation: invitation.NewService(repos.Invitation, repos.Profile),
		SharedChat: sharedSvc,
		Profile:    repos.Profile,
	}
}
