package provider

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/petasbytes/simplemath/internal/settings"
)

// OpenAIClient talks to an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	src settings.Source
	cfg clientConfig
}

func NewOpenAIClient(src settings.Source, opts ...Option) *OpenAIClient {
	return &OpenAIClient{src: src, cfg: newConfig(opts)}
}

func (c *OpenAIClient) GenerateResponse(ctx context.Context, messages []Message) (string, error) {
	s := c.src.Current()
	if err := checkConfigured(s); err != nil {
		return "", err
	}

	options := []option.RequestOption{
		option.WithAPIKey(s.APIKey),
		option.WithBaseURL(NormalizeBaseURL(s.BaseURL)),
		option.WithMaxRetries(0),
	}
	if c.cfg.httpClient != nil {
		options = append(options, option.WithHTTPClient(c.cfg.httpClient))
	}
	client := openai.NewClient(options...)

	params := openai.ChatCompletionNewParams{
		Model:       s.Model,
		Messages:    toOpenAIMessages(messages),
		Temperature: openai.Float(s.Temperature),
	}
	if s.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(s.MaxTokens))
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", openAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	log.WithFields(log.Fields{
		"model":             resp.Model,
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
	}).Debug("chat completion received")
	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

func openAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			raw := apiErr.RawJSON()
			msg = gjson.Get(raw, "error.message").String()
			if msg == "" {
				msg = gjson.Get(raw, "message").String()
			}
		}
		return &RemoteError{StatusCode: apiErr.StatusCode, Message: msg, Err: err}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &RemoteError{Err: err}
}
