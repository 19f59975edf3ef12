package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mathsolver/mathchat/internal/service"
)

// SharedChatHandler 分享快照处理器
type SharedChatHandler struct {
	svc *service.Services
}

// NewSharedChatHandler 创建分享快照处理器
func NewSharedChatHandler(svc *service.Services) *SharedChatHandler {
	return &SharedChatHandler{svc: svc}
}

// createSharedChatRequest 创建分享请求体
type createSharedChatRequest struct {
	ChatID      string `json:"chat_id" binding:"required"`
	IsPermanent bool   `json:"is_permanent"`
}

// Create 创建分享快照
func (h *SharedChatHandler) Create(c *gin.Context) {
	var req createSharedChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Code: -1, Message: err.Error()})
		return
	}

	id, err := h.svc.SharedChat.Share(c.Request.Context(), req.ChatID, req.IsPermanent)
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, gin.H{"shared_chat_id": id})
}

// Get 读取分享快照，不存在或已过期返回 404
func (h *SharedChatHandler) Get(c *gin.Context) {
	chat, err := h.svc.SharedChat.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	if chat == nil {
		c.JSON(http.StatusNotFound, Response{Code: -1, Message: "shared chat not found"})
		return
	}
	success(c, chat)
}

// DeleteBySharedChatID 删除单条分享快照
func (h *SharedChatHandler) DeleteBySharedChatID(c *gin.Context) {
	if err := h.svc.SharedChat.DeleteBySharedChatID(c.Request.Context(), c.Param("id")); err != nil {
		errorResponse(c, err)
		return
	}
	success(c, nil)
}

// DeleteByChatID 删除某聊天名下的全部分享快照
func (h *SharedChatHandler) DeleteByChatID(c *gin.Context) {
	if err := h.svc.SharedChat.DeleteByChatID(c.Request.Context(), c.Param("id")); err != nil {
		errorResponse(c, err)
		return
	}
	success(c, nil)
}
