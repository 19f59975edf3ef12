package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mathsolver/mathchat/internal/service"
)

// InvitationHandler 邀请处理器
type InvitationHandler struct {
	svc *service.Services
}

// NewInvitationHandler 创建邀请处理器
func NewInvitationHandler(svc *service.Services) *InvitationHandler {
	return &InvitationHandler{svc: svc}
}

// verifyUserRequest 兑换邀请令牌请求体
type verifyUserRequest struct {
	Token  string `json:"token"`
	UserID string `json:"user_id" binding:"required"`
}

// notificationRequest 标记已通知请求体
type notificationRequest struct {
	UserID string   `json:"user_id" binding:"required"`
	Emails []string `json:"emails" binding:"required"`
}

// GetToken 获取用户的邀请令牌
func (h *InvitationHandler) GetToken(c *gin.Context) {
	token, err := h.svc.Invitation.GetOrCreateToken(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, gin.H{"token": token})
}

// VerifyUser 兑换邀请令牌
func (h *InvitationHandler) VerifyUser(c *gin.Context) {
	var req verifyUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Code: -1, Message: err.Error()})
		return
	}

	granted, err := h.svc.Invitation.Redeem(c.Request.Context(), req.Token, req.UserID)
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, gin.H{"verified": granted})
}

// ListReferees 列出被邀请人记录
func (h *InvitationHandler) ListReferees(c *gin.Context) {
	records, err := h.svc.Invitation.ListReferees(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, records)
}

// UpdateNotification 批量标记被邀请人已通知
func (h *InvitationHandler) UpdateNotification(c *gin.Context) {
	var req notificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Code: -1, Message: err.Error()})
		return
	}

	if err := h.svc.Invitation.UpdateNotification(c.Request.Context(), req.UserID, req.Emails); err != nil {
		errorResponse(c, err)
		return
	}
	success(c, nil)
}
