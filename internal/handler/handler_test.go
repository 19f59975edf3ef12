// Package handler 处理器单元测试
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mathsolver/mathchat/internal/model"
	"github.com/mathsolver/mathchat/internal/service"
	"github.com/mathsolver/mathchat/internal/service/credit"
	"github.com/mathsolver/mathchat/internal/service/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorResponseStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "authorization", err: types.ErrAuthorization, wantStatus: http.StatusUnauthorized},
		{name: "insufficient credit", err: types.ErrInsufficientCredit, wantStatus: http.StatusMethodNotAllowed},
		{name: "chat ownership", err: types.ErrChatOwnership, wantStatus: http.StatusMethodNotAllowed},
		{name: "new chat failed", err: types.ErrNewChat, wantStatus: statusNewChatFailed},
		{name: "wrapped error keeps kind", err: fmt.Errorf("user u1: %w", types.ErrInsufficientCredit), wantStatus: http.StatusMethodNotAllowed},
		{name: "unknown error", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			errorResponse(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

// ========== 扣费回调 ==========

// mockCreditRepository 只统计扣减次数
type mockCreditRepository struct {
	decrements int
}

func (m *mockCreditRepository) Create(account *model.CreditAccount) error { return nil }
func (m *mockCreditRepository) GetByUserID(userID string) (*model.CreditAccount, error) {
	return &model.CreditAccount{UserID: userID, TempCredit: 5}, nil
}
func (m *mockCreditRepository) SetTempCredit(userID string, amount int) error { return nil }
func (m *mockCreditRepository) SetPermCredit(userID string, amount int) error { return nil }
func (m *mockCreditRepository) DecrementTemp(userID string, cost int) (bool, error) {
	m.decrements++
	return true, nil
}
func (m *mockCreditRepository) DecrementPerm(userID string, cost int) (bool, error) {
	return false, nil
}
func (m *mockCreditRepository) GrantLoginAward(userID string, increment int, dayStart, now time.Time) (bool, error) {
	return false, nil
}
func (m *mockCreditRepository) Delete(userID string) error { return nil }

// mockProfileRepository 固定档案
type mockProfileRepository struct {
	premium bool
}

func (m *mockProfileRepository) GetByUserID(userID string) (*model.UserProfile, error) {
	return &model.UserProfile{UserID: userID, IsPremium: m.premium}, nil
}

func TestDebitCallbackSkipsLearnerAndPremium(t *testing.T) {
	tests := []struct {
		name        string
		learnerMode bool
		premium     bool
		wantDebits  int
	}{
		{name: "normal question charges", wantDebits: 1},
		{name: "learner mode skips", learnerMode: true, wantDebits: 0},
		{name: "premium user skips", premium: true, wantDebits: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creditRepo := &mockCreditRepository{}
			svc := &service.Services{
				Credit:  credit.NewService(creditRepo),
				Profile: &mockProfileRepository{premium: tt.premium},
			}
			h := NewChatHandler(svc)

			h.debitCallback("u1", tt.learnerMode)()

			if creditRepo.decrements != tt.wantDebits {
				t.Errorf("decrements = %d, want %d", creditRepo.decrements, tt.wantDebits)
			}
		})
	}
}
