// Package mathagent 封装解题模型调用
// 多个 API 密钥轮转分摊上游负载，游标为原子计数器
package mathagent

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/mathsolver/mathchat/internal/config"
	chatmodel "github.com/mathsolver/mathchat/internal/model"
)

// Agent 解题代理
// 每个配置的密钥各持有一个文本模型和一个视觉模型，按请求轮转
type Agent struct {
	models       []model.BaseChatModel
	visionModels []model.BaseChatModel
	cursor       atomic.Uint64
}

// New 创建解题代理，为每个 API 密钥构建模型客户端
func New(ctx context.Context, cfg config.OpenAIConfig) (*Agent, error) {
	if len(cfg.APIKeys) == 0 {
		return nil, fmt.Errorf("at least one openai api key is required")
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	a := &Agent{
		models:       make([]model.BaseChatModel, 0, len(cfg.APIKeys)),
		visionModels: make([]model.BaseChatModel, 0, len(cfg.APIKeys)),
	}
	for _, key := range cfg.APIKeys {
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  key,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		vm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  key,
			BaseURL: cfg.BaseURL,
			Model:   cfg.VisionModel,
			Timeout: timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create vision model: %w", err)
		}
		a.models = append(a.models, cm)
		a.visionModels = append(a.visionModels, vm)
	}
	return a, nil
}

// next 返回下一个模型下标，并发安全且自然回绕
func (a *Agent) next() int {
	return int((a.cursor.Add(1) - 1) % uint64(len(a.models)))
}

// ParseQuestion 用视觉模型从题目照片中提取问题
// 返回带 <question> 等标签的原始解析文本，标签抽取由调用方完成
func (a *Agent) ParseQuestion(ctx context.Context, imageB64, prompt string) (string, error) {
	text := imageReadingPrompt
	if prompt != "" {
		text += fmt.Sprintf(imageContextTemplate, prompt)
	}

	msg := &schema.Message{
		Role: schema.User,
		MultiContent: []schema.ChatMessagePart{
			{Type: schema.ChatMessagePartTypeText, Text: text},
			{
				Type: schema.ChatMessagePartTypeImageURL,
				ImageURL: &schema.ChatMessageImageURL{
					URL: "data:image/jpeg;base64," + imageB64,
				},
			},
		},
	}

	result, err := a.visionModels[a.next()].Generate(ctx, []*schema.Message{msg})
	if err != nil {
		return "", fmt.Errorf("failed to parse question image: %w", err)
	}
	return result.Content, nil
}

// Solve 对已解析的聊天发起首次解答，返回流式应答
// 学习模式用引导式提示词，普通模式直接给出答案和步骤
func (a *Agent) Solve(ctx context.Context, chat *chatmodel.Chat, language string) (*schema.StreamReader[*schema.Message], error) {
	steps := helperSteps
	if chat.LearnerMode {
		steps = learnerSteps
	}

	prompt := fmt.Sprintf(modePromptTemplate, steps, chat.Question, chat.WolframAnswer)
	if language != "" {
		prompt += fmt.Sprintf(languageHintTemplate, language)
	}

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(prompt),
	}

	stream, err := a.models[a.next()].Stream(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("failed to start solve stream: %w", err)
	}
	return stream, nil
}

// Query 基于完整对话记录的追问，返回流式应答
func (a *Agent) Query(ctx context.Context, messages []chatmodel.Message) (*schema.StreamReader[*schema.Message], error) {
	input := make([]*schema.Message, 0, len(messages)+1)
	input = append(input, schema.SystemMessage(systemPrompt))
	for _, m := range messages {
		switch m.Role {
		case "assistant":
			input = append(input, schema.AssistantMessage(m.Content, nil))
		case "system":
			input = append(input, schema.SystemMessage(m.Content))
		default:
			input = append(input, schema.UserMessage(m.Content))
		}
	}

	stream, err := a.models[a.next()].Stream(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to start query stream: %w", err)
	}
	return stream, nil
}
