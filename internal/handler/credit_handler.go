package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mathsolver/mathchat/internal/service"
)

// CreditHandler 积分处理器
type CreditHandler struct {
	svc *service.Services
}

// NewCreditHandler 创建积分处理器
func NewCreditHandler(svc *service.Services) *CreditHandler {
	return &CreditHandler{svc: svc}
}

// setCreditRequest 设置积分请求体
type setCreditRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Amount int    `json:"amount"`
}

// decrementRequest 扣减积分请求体
type decrementRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// Get 获取当前用户的积分余额
func (h *CreditHandler) Get(c *gin.Context) {
	temp, perm, err := h.svc.Credit.Get(c.Request.Context(), getUserID(c))
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, gin.H{"temp_credit": temp, "perm_credit": perm})
}

// SetTemp 设置临时积分
func (h *CreditHandler) SetTemp(c *gin.Context) {
	var req setCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Code: -1, Message: err.Error()})
		return
	}
	if err := h.svc.Credit.SetTemp(c.Request.Context(), req.UserID, req.Amount); err != nil {
		errorResponse(c, err)
		return
	}
	success(c, nil)
}

// SetPerm 设置永久积分
func (h *CreditHandler) SetPerm(c *gin.Context) {
	var req setCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Code: -1, Message: err.Error()})
		return
	}
	if err := h.svc.Credit.SetPerm(c.Request.Context(), req.UserID, req.Amount); err != nil {
		errorResponse(c, err)
		return
	}
	success(c, nil)
}

// Decrement 扣减一次提问的积分
func (h *CreditHandler) Decrement(c *gin.Context) {
	var req decrementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Code: -1, Message: err.Error()})
		return
	}
	if err := h.svc.Credit.Decrement(c.Request.Context(), req.UserID); err != nil {
		errorResponse(c, err)
		return
	}
	success(c, nil)
}

// Create 创建积分账户
func (h *CreditHandler) Create(c *gin.Context) {
	if err := h.svc.Credit.Create(c.Request.Context(), c.Param("user_id")); err != nil {
		errorResponse(c, err)
		return
	}
	success(c, nil)
}

// Delete 删除积分账户
func (h *CreditHandler) Delete(c *gin.Context) {
	if err := h.svc.Credit.Delete(c.Request.Context(), c.Param("user_id")); err != nil {
		errorResponse(c, err)
		return
	}
	success(c, nil)
}
