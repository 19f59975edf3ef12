// Package chat 实现积分闸门下的解题聊天会话
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/mathsolver/mathchat/internal/model"
	"github.com/mathsolver/mathchat/internal/repository"
	"github.com/mathsolver/mathchat/internal/service/types"
)

// AnswerAgent 解题模型能力
type AnswerAgent interface {
	ParseQuestion(ctx context.Context, imageB64, prompt string) (string, error)
	Solve(ctx context.Context, chat *model.Chat, language string) (*schema.StreamReader[*schema.Message], error)
	Query(ctx context.Context, messages []model.Message) (*schema.StreamReader[*schema.Message], error)
}

// CreditGate 聊天路径依赖的积分能力
type CreditGate interface {
	Get(ctx context.Context, userID string) (temp, perm int, err error)
	GrantLoginAward(ctx context.Context, userID string) error
}

// SharedChatCleaner 聊天删除时的分享快照级联清理
type SharedChatCleaner interface {
	DeleteByChatID(ctx context.Context, chatID string) error
}

// Service 聊天会话服务
type Service struct {
	chats   repository.ChatRepository
	credits CreditGate
	shared  SharedChatCleaner
	agent   AnswerAgent
	now     func() time.Time
}

// NewService 创建聊天会话服务
func NewService(chats repository.ChatRepository, credits CreditGate, shared SharedChatCleaner, agent AnswerAgent) *Service {
	return &Service{chats: chats, credits: credits, shared: shared, agent: agent, now: time.Now}
}

// NewChatRequest 新聊天请求，图片已预处理为 base64
type NewChatRequest struct {
	UserID       string
	Prompt       string
	ImageB64     string
	ThumbnailB64 string
	LearnerMode  bool
	Language     string
}

// ChatRequest 追问请求
type ChatRequest struct {
	ChatID   string
	UserID   string
	Query    string
	Language string
}

// GetChatResponse 读取聊天的响应
type GetChatResponse struct {
	Payload      model.Payload `json:"payload"`
	Question     string        `json:"question"`
	ImageStr     string        `json:"image_str"`
	ChatAgain    bool          `json:"chat_again"`
	TextPrompt   string        `json:"text_prompt"`
	ImageContent string        `json:"image_content"`
}

// StreamEvent SSE 事件，Data 为已编码的 JSON 字符串
type StreamEvent struct {
	Name string
	Data string
}

// 解析结果的标签抽取，标签内容为字面 None 视为缺失
var (
	questionPattern     = regexp.MustCompile(`(?s)<question>(.*?)</question>`)
	imageContentPattern = regexp.MustCompile(`(?s)<image_content>(.*?)</image_content>`)
	wolframQueryPattern = regexp.MustCompile(`(?s)<wolfram_query>(.*?)</wolfram_query>`)
)

func searchTag(pattern *regexp.Regexp, content string) string {
	m := pattern.FindStringSubmatch(content)
	if m == nil || m[1] == "None" {
		return ""
	}
	return m[1]
}

// NewChat 创建聊天并流式解答
// 积分闸门先于一切副作用：两个池加起来无余额时模型一次也不会被调用
// 问题解析失败时删除已创建的空聊天并返回 ErrNewChat
// debit 在流结束持久化之后被调用，由调用方决定是否计费
func (s *Service) NewChat(ctx context.Context, req *NewChatRequest, debit func()) (<-chan StreamEvent, error) {
	temp, perm, err := s.credits.Get(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check credit for user %s: %w", req.UserID, err)
	}
	if temp+perm <= 0 {
		return nil, fmt.Errorf("user %s: %w", req.UserID, types.ErrInsufficientCredit)
	}

	chat := &model.Chat{
		ID:     uuid.New().String(),
		UserID: req.UserID,
	}
	if err := s.chats.Create(chat); err != nil {
		return nil, fmt.Errorf("failed to create chat for user %s: %w", req.UserID, err)
	}

	if err := s.parseQuestion(ctx, chat, req); err != nil {
		s.deleteOrphan(ctx, chat.ID)
		return nil, fmt.Errorf("%w: %v", types.ErrNewChat, err)
	}

	stream, err := s.agent.Solve(ctx, chat, req.Language)
	if err != nil {
		s.deleteOrphan(ctx, chat.ID)
		return nil, fmt.Errorf("%w: %v", types.ErrNewChat, err)
	}

	// 解答的对话记录从零开始，解析阶段的原始输出不进入正式对话
	return s.produce(ctx, stream, chat.ID, model.Payload{Messages: []model.Message{}}, true, debit), nil
}

// parseQuestion 解析问题并填充聊天列
// 拍照提问走视觉模型并抽取标签，纯文本提问直接落列，两者都没有则报错
func (s *Service) parseQuestion(ctx context.Context, chat *model.Chat, req *NewChatRequest) error {
	cols := map[string]interface{}{
		"learner_mode": req.LearnerMode,
	}
	chat.LearnerMode = req.LearnerMode

	switch {
	case req.ImageB64 != "":
		raw, err := s.agent.ParseQuestion(ctx, req.ImageB64, req.Prompt)
		if err != nil {
			return fmt.Errorf("failed to parse question image: %w", err)
		}
		question := searchTag(questionPattern, raw)
		if question == "" {
			return fmt.Errorf("no question found in image")
		}
		chat.Question = question
		chat.TextPrompt = req.Prompt
		chat.ImageStr = req.ImageB64
		chat.ThumbnailStr = req.ThumbnailB64
		chat.ImageContent = searchTag(imageContentPattern, raw)
		chat.WolframQuery = searchTag(wolframQueryPattern, raw)

		cols["question"] = chat.Question
		cols["text_prompt"] = chat.TextPrompt
		cols["image_str"] = chat.ImageStr
		cols["thumbnail_str"] = chat.ThumbnailStr
		cols["image_content"] = chat.ImageContent
		cols["wolfram_query"] = chat.WolframQuery
		cols["payload"] = model.Payload{
			Messages: []model.Message{{Role: "assistant", Content: raw}},
		}
	case req.Prompt != "":
		chat.Question = req.Prompt
		chat.TextPrompt = req.Prompt
		cols["question"] = chat.Question
		cols["text_prompt"] = chat.TextPrompt
	default:
		return fmt.Errorf("at least one of image_file or prompt is required")
	}

	if err := s.chats.UpdateColumns(chat.ID, cols); err != nil {
		return fmt.Errorf("failed to update chat %s: %w", chat.ID, err)
	}
	return nil
}

// deleteOrphan 清理解析失败留下的空聊天，二次失败只记日志
func (s *Service) deleteOrphan(ctx context.Context, chatID string) {
	if err := s.chats.Delete(chatID); err != nil {
		log.Printf("Error: failed to delete orphan chat %s: %v", chatID, err)
	}
}

// Chat 追问，用户消息追加到对话记录后交给模型续答
func (s *Service) Chat(ctx context.Context, req *ChatRequest, debit func()) (<-chan StreamEvent, error) {
	chat, err := s.chats.GetByID(req.ChatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat %s: %w", req.ChatID, err)
	}

	messages := append(chat.Payload.Messages, model.Message{Role: "user", Content: req.Query})

	stream, err := s.agent.Query(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat %s: %w", req.ChatID, err)
	}

	return s.produce(ctx, stream, req.ChatID, model.Payload{Messages: messages}, false, debit), nil
}

// produce 消费模型流并生成 SSE 事件
// 事件顺序：chat_id（仅新聊天）、type {chat_again}、逐 token 的 answer {text}
// 无论流正常结束还是中途出错，都把已累计的部分持久化并调用 debit
// 中途错误不产生合成错误事件，流静默终止
func (s *Service) produce(ctx context.Context, stream *schema.StreamReader[*schema.Message], chatID string, payload model.Payload, newChat bool, debit func()) <-chan StreamEvent {
	out := make(chan StreamEvent, 16)

	go func() {
		defer close(out)
		defer stream.Close()

		if newChat {
			data, _ := json.Marshal(chatID)
			emit(ctx, out, StreamEvent{Name: "chat_id", Data: string(data)})
		}

		typeData, _ := json.Marshal(map[string]bool{
			"chat_again": types.ChatAgain(len(payload.Messages)),
		})
		emit(ctx, out, StreamEvent{Name: "type", Data: string(typeData)})

		var full strings.Builder
		for {
			msg, err := stream.Recv()
			if err == io.EOF {
				break
			}
			if err != nil {
				log.Printf("Error: chat %s stream interrupted: %v", chatID, err)
				break
			}
			if msg.Content == "" {
				continue
			}
			full.WriteString(msg.Content)
			data, _ := json.Marshal(map[string]string{"text": msg.Content})
			if !emit(ctx, out, StreamEvent{Name: "answer", Data: string(data)}) {
				break
			}
		}

		payload.Messages = append(payload.Messages, model.Message{
			Role:    "assistant",
			Content: full.String(),
		})
		if err := s.chats.UpdatePayload(chatID, payload); err != nil {
			log.Printf("Error: failed to persist payload for chat %s: %v", chatID, err)
		}
		if debit != nil {
			debit()
		}
	}()

	return out
}

// emit 向事件通道写入，请求取消时返回 false
func emit(ctx context.Context, out chan<- StreamEvent, ev StreamEvent) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// GetChat 读取聊天详情
// 非所有者访问返回 ErrChatOwnership，助手消息里的内部图片 URL 已被替换
func (s *Service) GetChat(ctx context.Context, chatID, userID string) (*GetChatResponse, error) {
	ok, err := s.chats.UserHasAccess(chatID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check access to chat %s: %w", chatID, err)
	}
	if !ok {
		return nil, fmt.Errorf("user %s does not have access to chat %s: %w", userID, chatID, types.ErrChatOwnership)
	}

	chat, err := s.chats.GetByID(chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat %s: %w", chatID, err)
	}
	chat.ReplaceWolframURL()

	return &GetChatResponse{
		Payload:      chat.Payload,
		Question:     chat.Question,
		ImageStr:     chat.ImageStr,
		ChatAgain:    types.ChatAgain(len(chat.Payload.Messages)),
		TextPrompt:   chat.TextPrompt,
		ImageContent: chat.ImageContent,
	}, nil
}

// ListChats 列出用户已填充问题的聊天
// 顺带触发每日登录奖励，发放失败不影响列表
func (s *Service) ListChats(ctx context.Context, userID string) ([]*model.Chat, error) {
	if err := s.credits.GrantLoginAward(ctx, userID); err != nil {
		log.Printf("Warning: failed to grant login award for user %s: %v", userID, err)
	}

	chats, err := s.chats.ListFulfilledByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats for user %s: %w", userID, err)
	}
	return chats, nil
}

// DeleteChat 删除聊天并级联清理其分享快照
func (s *Service) DeleteChat(ctx context.Context, chatID string) error {
	if err := s.shared.DeleteByChatID(ctx, chatID); err != nil {
		return fmt.Errorf("failed to delete shared chats for chat %s: %w", chatID, err)
	}
	if err := s.chats.Delete(chatID); err != nil {
		return fmt.Errorf("failed to delete chat %s: %w", chatID, err)
	}
	return nil
}
