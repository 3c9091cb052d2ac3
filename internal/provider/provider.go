// Package provider sends role-tagged chat messages to a completion API and
// returns the assistant's reply text.
//
// Settings are read from a settings.Source on every call, so edits take effect
// without rebuilding the client. SDK retries are disabled: one call is one
// round trip.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/petasbytes/simplemath/internal/settings"
)

// Role of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a chat request.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Client generates a reply for an ordered message list.
type Client interface {
	GenerateResponse(ctx context.Context, messages []Message) (string, error)
}

// ErrEmptyResponse is returned when the remote reply carries no content choices.
var ErrEmptyResponse = errors.New("provider: empty response")

// ConfigurationError reports a missing credential or endpoint.
type ConfigurationError struct {
	Field string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("provider: %s is not configured", e.Field)
}

// RemoteError reports a failed exchange with the completion API. StatusCode is
// zero when the endpoint could not be reached.
type RemoteError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("provider: remote returned %d: %s", e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("provider: remote returned %d", e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("provider: request failed: %v", e.Err)
	default:
		return "provider: request failed"
	}
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Option customizes the underlying SDK clients.
type Option func(*clientConfig)

type clientConfig struct {
	httpClient *http.Client
}

// WithHTTPClient routes requests through hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = hc }
}

func newConfig(opts []Option) clientConfig {
	var c clientConfig
	for _, o := range opts {
		o(&c)
	}
	return c
}

// NormalizeBaseURL makes an OpenAI-compatible base URL end with /v1.
func NormalizeBaseURL(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return settings.DefaultOpenAIBaseURL
	}
	if strings.HasSuffix(base, "/v1") {
		return base
	}
	return strings.TrimSuffix(base, "/") + "/v1"
}

func checkConfigured(s settings.Settings) error {
	if !settings.ValidateAPIKey(s.APIKey) {
		return &ConfigurationError{Field: "api key"}
	}
	if strings.TrimSpace(s.BaseURL) == "" {
		return &ConfigurationError{Field: "base url"}
	}
	if strings.TrimSpace(s.Model) == "" {
		return &ConfigurationError{Field: "model"}
	}
	return nil
}

// Router dispatches each call to the client matching the configured provider.
type Router struct {
	src       settings.Source
	openai    *OpenAIClient
	anthropic *AnthropicClient
}

// New returns a Client that follows settings.Provider on every call.
func New(src settings.Source, opts ...Option) *Router {
	return &Router{
		src:       src,
		openai:    NewOpenAIClient(src, opts...),
		anthropic: NewAnthropicClient(src, opts...),
	}
}

func (r *Router) GenerateResponse(ctx context.Context, messages []Message) (string, error) {
	switch p := r.src.Current().Provider; p {
	case settings.ProviderAnthropic:
		return r.anthropic.GenerateResponse(ctx, messages)
	case settings.ProviderOpenAI, "":
		return r.openai.GenerateResponse(ctx, messages)
	default:
		return "", &ConfigurationError{Field: fmt.Sprintf("provider %q", p)}
	}
}

// Connection probe exchange.
const (
	probeSystem = "你是一个AI助手。"
	probeUser   = "请回复\"连接测试成功\""
)

// TestConnection sends a fixed probe and returns the reply.
func TestConnection(ctx context.Context, c Client) (string, error) {
	return c.GenerateResponse(ctx, []Message{
		{Role: RoleSystem, Content: probeSystem},
		{Role: RoleUser, Content: probeUser},
	})
}
