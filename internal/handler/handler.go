// Package handler HTTP 处理器
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mathsolver/mathchat/internal/service"
	"github.com/mathsolver/mathchat/internal/service/types"
)

// Handlers 处理器集合
type Handlers struct {
	Chat       *ChatHandler
	Credit     *CreditHandler
	Invitation *InvitationHandler
	SharedChat *SharedChatHandler
}

// NewHandlers 创建所有处理器
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Chat:       NewChatHandler(svc),
		Credit:     NewCreditHandler(svc),
		Invitation: NewInvitationHandler(svc),
		SharedChat: NewSharedChatHandler(svc),
	}
}

// Response 统一响应
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// success 成功响应
func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

// statusNewChatFailed 创建聊天失败的专用状态码
const statusNewChatFailed = 441

// errorResponse 错误响应，按错误类别映射状态码
func errorResponse(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrAuthorization):
		status = http.StatusUnauthorized
	case errors.Is(err, types.ErrInsufficientCredit), errors.Is(err, types.ErrChatOwnership):
		status = http.StatusMethodNotAllowed
	case errors.Is(err, types.ErrNewChat):
		status = statusNewChatFailed
	}
	c.JSON(status, Response{Code: -1, Message: err.Error()})
}

// getUserID 获取当前用户ID
func getUserID(c *gin.Context) string {
	if id, exists := c.Get("user_id"); exists {
		if userID, ok := id.(string); ok {
			return userID
		}
	}
	return ""
}
