// Package sharedchat 分享快照服务单元测试
package sharedchat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mathsolver/mathchat/internal/model"
	"github.com/mathsolver/mathchat/internal/service/types"
)

// mockSharedChatRepository Mock 分享快照仓库
type mockSharedChatRepository struct {
	snapshots map[string]*model.SharedChat
}

func newMockSharedChatRepo() *mockSharedChatRepository {
	return &mockSharedChatRepository{snapshots: make(map[string]*model.SharedChat)}
}

func (m *mockSharedChatRepository) Create(sc *model.SharedChat) error {
	m.snapshots[sc.ID] = sc
	return nil
}

func (m *mockSharedChatRepository) GetByID(id string) (*model.SharedChat, error) {
	if sc, ok := m.snapshots[id]; ok {
		return sc, nil
	}
	return nil, nil
}

func (m *mockSharedChatRepository) GetByChatIDAndStamp(chatID string, stamp time.Time) (*model.SharedChat, error) {
	for _, sc := range m.snapshots {
		if sc.ChatID == chatID && sc.UpdatedAt.Equal(stamp) {
			return sc, nil
		}
	}
	return nil, nil
}

func (m *mockSharedChatRepository) TouchCreatedAt(id string, now time.Time) error {
	if sc, ok := m.snapshots[id]; ok {
		sc.CreatedAt = now
	}
	return nil
}

func (m *mockSharedChatRepository) DeleteByID(id string) error {
	delete(m.snapshots, id)
	return nil
}

func (m *mockSharedChatRepository) DeleteByChatID(chatID string) error {
	for id, sc := range m.snapshots {
		if sc.ChatID == chatID {
			delete(m.snapshots, id)
		}
	}
	return nil
}

// mockChatRepository Mock 聊天仓库，只有 GetByID 参与分享流程
type mockChatRepository struct {
	chats map[string]*model.Chat
}

func newMockChatRepo() *mockChatRepository {
	return &mockChatRepository{chats: make(map[string]*model.Chat)}
}

func (m *mockChatRepository) Create(chat *model.Chat) error {
	m.chats[chat.ID] = chat
	return nil
}

func (m *mockChatRepository) GetByID(id string) (*model.Chat, error) {
	if chat, ok := m.chats[id]; ok {
		copied := *chat
		return &copied, nil
	}
	return nil, types.ErrNotFound
}

func (m *mockChatRepository) ListFulfilledByUser(userID string) ([]*model.Chat, error) {
	return nil, nil
}

func (m *mockChatRepository) UpdateColumns(id string, cols map[string]interface{}) error {
	return nil
}

func (m *mockChatRepository) UpdatePayload(id string, payload model.Payload) error {
	return nil
}

func (m *mockChatRepository) Delete(id string) error {
	delete(m.chats, id)
	return nil
}

func (m *mockChatRepository) UserHasAccess(chatID, userID string) (bool, error) {
	return true, nil
}

var testNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func newTestService(repo *mockSharedChatRepository, chats *mockChatRepository) *Service {
	svc := NewService(repo, chats, nil)
	svc.now = func() time.Time { return testNow }
	return svc
}

func testChat(id string, updatedAt time.Time) *model.Chat {
	return &model.Chat{
		ID:        id,
		UserID:    "u1",
		UpdatedAt: updatedAt,
		Question:  "1+1",
		Payload: model.Payload{Messages: []model.Message{
			{Role: "assistant", Content: "the answer is 2"},
		}},
	}
}

func TestShareDedup(t *testing.T) {
	repo := newMockSharedChatRepo()
	chats := newMockChatRepo()
	stamp := testNow.Add(-time.Hour)
	chats.chats["c1"] = testChat("c1", stamp)
	svc := newTestService(repo, chats)

	first, err := svc.Share(context.Background(), "c1", false)
	if err != nil {
		t.Fatalf("Share() unexpected error: %v", err)
	}

	// 聊天未变化，复用旧快照并刷新过期窗口
	repo.snapshots[first].CreatedAt = testNow.Add(-10 * 24 * time.Hour)
	second, err := svc.Share(context.Background(), "c1", false)
	if err != nil {
		t.Fatalf("Share() unexpected error: %v", err)
	}
	if second != first {
		t.Errorf("shared chat id = %s, want reused %s", second, first)
	}
	if len(repo.snapshots) != 1 {
		t.Errorf("snapshots = %d, want 1", len(repo.snapshots))
	}
	if !repo.snapshots[first].CreatedAt.Equal(testNow) {
		t.Errorf("CreatedAt = %v, want refreshed to %v", repo.snapshots[first].CreatedAt, testNow)
	}

	// 聊天有新版本时产生新快照
	chats.chats["c1"].UpdatedAt = testNow
	third, err := svc.Share(context.Background(), "c1", false)
	if err != nil {
		t.Fatalf("Share() unexpected error: %v", err)
	}
	if third == first {
		t.Error("new chat version reused old snapshot")
	}
	if len(repo.snapshots) != 2 {
		t.Errorf("snapshots = %d, want 2", len(repo.snapshots))
	}
}

func TestGetLazyExpiry(t *testing.T) {
	repo := newMockSharedChatRepo()
	chats := newMockChatRepo()
	chats.chats["c1"] = testChat("c1", testNow.Add(-time.Hour))
	svc := newTestService(repo, chats)

	repo.snapshots["s1"] = &model.SharedChat{
		ID:        "s1",
		ChatID:    "c1",
		CreatedAt: testNow.Add(-types.SharedChatExpire - time.Minute),
	}

	chat, err := svc.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if chat != nil {
		t.Error("expired snapshot returned, want nil")
	}
	if _, ok := repo.snapshots["s1"]; ok {
		t.Error("expired snapshot not deleted on read")
	}
}

func TestGetPermanentNeverExpires(t *testing.T) {
	repo := newMockSharedChatRepo()
	chats := newMockChatRepo()
	chats.chats["c1"] = testChat("c1", testNow.Add(-time.Hour))
	svc := newTestService(repo, chats)

	repo.snapshots["s1"] = &model.SharedChat{
		ID:          "s1",
		ChatID:      "c1",
		IsPermanent: true,
		CreatedAt:   testNow.Add(-365 * 24 * time.Hour),
		Payload: model.Payload{Messages: []model.Message{
			{Role: "assistant", Content: "snapshot answer"},
		}},
	}

	chat, err := svc.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if chat == nil {
		t.Fatal("permanent snapshot reported absent")
	}
	// 对话内容取快照版本
	if chat.Payload.Messages[0].Content != "snapshot answer" {
		t.Errorf("payload = %q, want snapshot version", chat.Payload.Messages[0].Content)
	}
}

func TestGetRewritesWolframURL(t *testing.T) {
	repo := newMockSharedChatRepo()
	chats := newMockChatRepo()

	chat := testChat("c1", testNow.Add(-time.Hour))
	chat.WolframImage = model.WolframImage{
		URL:   "https://internal.example.com/plot.gif",
		Image: "data:image/gif;base64,AAAA",
	}
	chats.chats["c1"] = chat
	svc := newTestService(repo, chats)

	repo.snapshots["s1"] = &model.SharedChat{
		ID:        "s1",
		ChatID:    "c1",
		CreatedAt: testNow,
		Payload: model.Payload{Messages: []model.Message{
			{Role: "user", Content: "see https://internal.example.com/plot.gif"},
			{Role: "assistant", Content: "plot: https://internal.example.com/plot.gif"},
		}},
	}

	got, err := svc.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if !strings.Contains(got.Payload.Messages[1].Content, "data:image/gif;base64,AAAA") {
		t.Errorf("assistant message = %q, want internal url replaced", got.Payload.Messages[1].Content)
	}
	// 用户消息不改写
	if !strings.Contains(got.Payload.Messages[0].Content, "https://internal.example.com/plot.gif") {
		t.Errorf("user message = %q, want untouched", got.Payload.Messages[0].Content)
	}
}

func TestDeleteByChatID(t *testing.T) {
	repo := newMockSharedChatRepo()
	chats := newMockChatRepo()
	svc := newTestService(repo, chats)

	repo.snapshots["s1"] = &model.SharedChat{ID: "s1", ChatID: "c1"}
	repo.snapshots["s2"] = &model.SharedChat{ID: "s2", ChatID: "c1"}
	repo.snapshots["s3"] = &model.SharedChat{ID: "s3", ChatID: "c2"}

	if err := svc.DeleteByChatID(context.Background(), "c1"); err != nil {
		t.Fatalf("DeleteByChatID() unexpected error: %v", err)
	}
	if len(repo.snapshots) != 1 {
		t.Errorf("snapshots = %d, want only the unrelated one left", len(repo.snapshots))
	}
	if _, ok := repo.snapshots["s3"]; !ok {
		t.Error("unrelated snapshot was deleted")
	}
}
