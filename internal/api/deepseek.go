package api

import (
	"context"
	"fmt"

	"github.com/go-deepseek/deepseek"
	"github.com/go-deepseek/deepseek/request"

	"github.com/eventide-app/eventide/internal/config"
)

// DeepSeekProvider serves completions from the hosted DeepSeek API via the
// official SDK.
type DeepSeekProvider struct {
	client deepseek.Client
	config config.DeepSeekConfig
}

// NewDeepSeekProvider builds a provider over the SDK client. The API key is
// mandatory; everything else has workable defaults.
func NewDeepSeekProvider(cfg config.DeepSeekConfig) (*DeepSeekProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("DeepSeek API key is required")
	}

	client, err := deepseek.NewClient(cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create DeepSeek client: %w", err)
	}

	return &DeepSeekProvider{
		client: client,
		config: cfg,
	}, nil
}

// SendMessage performs one non-streaming chat completion. An optional system
// message is prepended to the conversation.
func (p *DeepSeekProvider) SendMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	messages := make([]*request.Message, 0, len(req.Messages)+1)

	if req.System != "" {
		messages = append(messages, &request.Message{
			Role:    "system",
			Content: req.System,
		})
	}

	for _, msg := range req.Messages {
		messages = append(messages, &request.Message{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	var temp *float32
	if req.Temperature > 0 {
		t := float32(req.Temperature)
		temp = &t
	}

	chatReq := &request.ChatCompletionsRequest{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: temp,
		Stream:      false,
	}

	resp, err := p.client.CallChatCompletionsChat(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("DeepSeek API request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("DeepSeek API returned no choices")
	}

	return &MessageResponse{
		Content:    resp.Choices[0].Message.Content,
		StopReason: resp.Choices[0].FinishReason,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

// Name identifies the backend in logs and diagnostics.
func (p *DeepSeekProvider) Name() string {
	return "deepseek"
}

// Close is a no-op; the SDK client holds no persistent connections.
func (p *DeepSeekProvider) Close() error {
	return nil
}
