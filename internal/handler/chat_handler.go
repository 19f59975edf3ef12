package handler

import (
	"context"
	"encoding/base64"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mathsolver/mathchat/internal/service"
	"github.com/mathsolver/mathchat/internal/service/chat"
)

// ChatHandler 聊天处理器
type ChatHandler struct {
	svc *service.Services
}

// NewChatHandler 创建聊天处理器
func NewChatHandler(svc *service.Services) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// chatRequest 追问请求体
type chatRequest struct {
	ChatID   string `json:"chat_id" binding:"required"`
	Query    string `json:"query" binding:"required"`
	Language string `json:"language"`
}

// NewChat 创建聊天并流式解答
// multipart 表单：mode、prompt、image_file、language，至少提供 prompt 或 image_file 之一
func (h *ChatHandler) NewChat(c *gin.Context) {
	userID := getUserID(c)
	learnerMode := c.PostForm("mode") == "learner"

	req := &chat.NewChatRequest{
		UserID:      userID,
		Prompt:      c.PostForm("prompt"),
		LearnerMode: learnerMode,
		Language:    c.PostForm("language"),
	}

	if file, err := c.FormFile("image_file"); err == nil {
		f, err := file.Open()
		if err != nil {
			errorResponse(c, err)
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			errorResponse(c, err)
			return
		}
		req.ImageB64 = base64.StdEncoding.EncodeToString(data)
		req.ThumbnailB64 = req.ImageB64
	}

	eventCh, err := h.svc.Chat.NewChat(c.Request.Context(), req, h.debitCallback(userID, learnerMode))
	if err != nil {
		errorResponse(c, err)
		return
	}

	streamEvents(c, eventCh)
}

// Chat 追问
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Code: -1, Message: err.Error()})
		return
	}

	userID := getUserID(c)
	eventCh, err := h.svc.Chat.Chat(c.Request.Context(), &chat.ChatRequest{
		ChatID:   req.ChatID,
		UserID:   userID,
		Query:    req.Query,
		Language: req.Language,
	}, h.debitCallback(userID, false))
	if err != nil {
		errorResponse(c, err)
		return
	}

	streamEvents(c, eventCh)
}

// GetChat 读取聊天详情
func (h *ChatHandler) GetChat(c *gin.Context) {
	chatID := c.Param("chat_id")
	userID := c.Query("user_id")
	if userID == "" {
		userID = getUserID(c)
	}

	resp, err := h.svc.Chat.GetChat(c.Request.Context(), chatID, userID)
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, resp)
}

// ListChats 列出用户的聊天
func (h *ChatHandler) ListChats(c *gin.Context) {
	chats, err := h.svc.Chat.ListChats(c.Request.Context(), getUserID(c))
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, chats)
}

// DeleteChat 删除聊天
func (h *ChatHandler) DeleteChat(c *gin.Context) {
	if err := h.svc.Chat.DeleteChat(c.Request.Context(), c.Param("chat_id")); err != nil {
		errorResponse(c, err)
		return
	}
	success(c, nil)
}

// debitCallback 构造流结束后的扣费回调
// 学习模式和付费会员不扣费；扣费不依赖请求上下文，客户端断开也会执行
func (h *ChatHandler) debitCallback(userID string, learnerMode bool) func() {
	return func() {
		if learnerMode {
			return
		}
		profile, err := h.svc.Profile.GetByUserID(userID)
		if err != nil {
			log.Printf("Warning: failed to get profile for user %s: %v", userID, err)
		}
		if profile != nil && profile.IsPremium {
			return
		}
		if err := h.svc.Credit.Decrement(context.Background(), userID); err != nil {
			log.Printf("Error: failed to decrement credit for user %s: %v", userID, err)
		}
	}
}

// streamEvents 把事件通道写成 SSE 响应
func streamEvents(c *gin.Context, eventCh <-chan chat.StreamEvent) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("Transfer-Encoding", "chunked")

	for event := range eventCh {
		select {
		case <-c.Request.Context().Done():
			return
		default:
			c.SSEvent(event.Name, event.Data)
			c.Writer.Flush()
		}
	}
}
