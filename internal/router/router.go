// Package router 路由注册
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/mathsolver/mathchat/internal/handler"
	"github.com/mathsolver/mathchat/internal/middleware"
	"github.com/mathsolver/mathchat/internal/service/auth"
)

// SetupRouter 设置路由
func SetupRouter(h *handler.Handlers, authSvc *auth.Service) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.CORSMiddleware())

	requireAuth := middleware.RequireAuth(authSvc)

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Chat 聊天
	r.POST("/new_chat", requireAuth, h.Chat.NewChat)
	r.POST("/chat", requireAuth, h.Chat.Chat)
	r.GET("/chat/:chat_id", h.Chat.GetChat)
	r.DELETE("/chat/:chat_id", requireAuth, h.Chat.DeleteChat)
	r.GET("/all_chats", requireAuth, h.Chat.ListChats)

	// Credit 积分
	credit := r.Group("/credit")
	{
		credit.GET("", requireAuth, h.Credit.Get)
		credit.PUT("", h.Credit.Decrement)
		credit.PUT("/temp", h.Credit.SetTemp)
		credit.PUT("/perm", h.Credit.SetPerm)
		credit.POST("/:user_id", h.Credit.Create)
		credit.DELETE("/:user_id", h.Credit.Delete)
	}

	// Invitation 邀请
	invitation := r.Group("/invitation")
	{
		invitation.GET("/list/:user_id", h.Invitation.ListReferees)
		invitation.GET("/:user_id", h.Invitation.GetToken)
		invitation.POST("/verify_user", h.Invitation.VerifyUser)
		invitation.PUT("/notification", h.Invitation.UpdateNotification)
	}

	// SharedChat 分享
	sharedChat := r.Group("/shared_chat")
	{
		sharedChat.POST("/create", requireAuth, h.SharedChat.Create)
		sharedChat.GET("/:id", h.SharedChat.Get)
		sharedChat.DELETE("/by_chat_id/:id", h.SharedChat.DeleteByChatID)
		sharedChat.DELETE("/by_shared_chat_id/:id", h.SharedChat.DeleteBySharedChatID)
	}

	return r
}
