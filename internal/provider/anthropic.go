package provider

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/petasbytes/simplemath/internal/settings"
)

// APIVersion of the Anthropic Messages API the SDK targets.
const APIVersion = "2023-06-01"

// AnthropicClient talks to the Anthropic Messages API.
type AnthropicClient struct {
	src settings.Source
	cfg clientConfig
}

func NewAnthropicClient(src settings.Source, opts ...Option) *AnthropicClient {
	return &AnthropicClient{src: src, cfg: newConfig(opts)}
}

func (c *AnthropicClient) GenerateResponse(ctx context.Context, messages []Message) (string, error) {
	s := c.src.Current()
	if err := checkConfigured(s); err != nil {
		return "", err
	}

	options := []option.RequestOption{
		option.WithAPIKey(s.APIKey),
		option.WithBaseURL(s.BaseURL),
		option.WithMaxRetries(0),
	}
	if c.cfg.httpClient != nil {
		options = append(options, option.WithHTTPClient(c.cfg.httpClient))
	}
	client := anthropic.NewClient(options...)

	maxTokens := int64(s.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(s.Model),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(s.Temperature),
	}
	// System prompts go in the top-level system field
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			params.System = append(params.System, anthropic.TextBlockParam{Text: m.Content})
		case RoleAssistant:
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	msg, err := client.Messages.New(ctx, params)
	if err != nil {
		return "", anthropicError(err)
	}
	var b strings.Builder
	for _, block := range msg.Content {
		if v, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(v.Text)
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	log.WithFields(log.Fields{
		"model":         string(msg.Model),
		"input_tokens":  msg.Usage.InputTokens,
		"output_tokens": msg.Usage.OutputTokens,
	}).Debug("message received")
	return b.String(), nil
}

func anthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &RemoteError{
			StatusCode: apiErr.StatusCode,
			Message:    gjson.Get(apiErr.RawJSON(), "error.message").String(),
			Err:        err,
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &RemoteError{Err: err}
}
