// Package settings holds the language-model configuration: provider, credential,
// endpoint, model, sampling parameters and the default system prompt.
//
// Precedence (lowest first): Defaults, config file, persisted store, environment.
package settings

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Supported providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Default endpoints per provider.
const (
	DefaultOpenAIBaseURL    = "https://api.openai.com/v1"
	DefaultAnthropicBaseURL = "https://api.anthropic.com"
)

// DefaultSystemPrompt is used by single-shot generation.
const DefaultSystemPrompt = `你是一个专业的p5.js代码生成专家，专门为数学概念和算法创建可视化动画代码。

请遵循以下规则：
1. 生成完整可运行的p5.js代码
2. 使用setup()和draw()函数结构
3. 代码应该是自包含的，不依赖外部资源
4. 添加适当的注释解释数学概念
5. 确保动画流畅且具有教育意义
6. 使用合适的颜色和视觉效果
7. 代码应该在400x400像素的画布上运行良好

请只返回p5.js代码，不要包含其他解释文字。`

// Settings is the full model configuration.
type Settings struct {
	Provider     string  `json:"provider" yaml:"provider" toml:"provider" jsonschema:"enum=openai,enum=anthropic" jsonschema_description:"Completion API flavour."`
	APIKey       string  `json:"apiKey" yaml:"api_key" toml:"api_key" jsonschema_description:"Bearer credential for the completion API."`
	BaseURL      string  `json:"baseUrl" yaml:"base_url" toml:"base_url" jsonschema_description:"API base URL; OpenAI endpoints are normalized to end with /v1."`
	Model        string  `json:"model" yaml:"model" toml:"model"`
	Temperature  float64 `json:"temperature" yaml:"temperature" toml:"temperature" jsonschema:"minimum=0,maximum=2"`
	MaxTokens    int     `json:"maxTokens" yaml:"max_tokens" toml:"max_tokens" jsonschema:"minimum=1"`
	SystemPrompt string  `json:"systemPrompt" yaml:"system_prompt" toml:"system_prompt" jsonschema_description:"System prompt for single-shot generation."`
}

// Defaults returns the built-in configuration.
func Defaults() Settings {
	return Settings{
		Provider:     ProviderOpenAI,
		BaseURL:      DefaultOpenAIBaseURL,
		Model:        "gpt-4",
		Temperature:  0.7,
		MaxTokens:    2000,
		SystemPrompt: DefaultSystemPrompt,
	}
}

// DefaultBaseURL returns the default endpoint for provider.
func DefaultBaseURL(provider string) string {
	if provider == ProviderAnthropic {
		return DefaultAnthropicBaseURL
	}
	return DefaultOpenAIBaseURL
}

// Source exposes the settings currently in effect.
type Source interface {
	Current() Settings
}

// Static is a fixed Source.
type Static Settings

func (s Static) Current() Settings { return Settings(s) }

// IsConfigured reports whether a credential is present.
func (s Settings) IsConfigured() bool {
	return ValidateAPIKey(s.APIKey)
}

// Redacted returns a copy safe to print.
func (s Settings) Redacted() Settings {
	if s.APIKey != "" {
		if len(s.APIKey) > 8 {
			s.APIKey = s.APIKey[:3] + "..." + s.APIKey[len(s.APIKey)-4:]
		} else {
			s.APIKey = "***"
		}
	}
	return s
}

// ValidateAPIKey reports whether key is non-blank.
func ValidateAPIKey(key string) bool {
	return strings.TrimSpace(key) != ""
}

// ValidateURL reports whether raw is an absolute URL.
func ValidateURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	return err == nil && u.Scheme != "" && u.Host != ""
}

// LoadFile merges a YAML (.yaml/.yml) or TOML (.toml) file onto base.
func LoadFile(path string, base Settings) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("could not load config: %w", err)
	}
	out := base
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &out)
	case ".toml":
		err = toml.Unmarshal(data, &out)
	default:
		return base, fmt.Errorf("unsupported config format %q (supported: .yaml, .yml, .toml)", filepath.Ext(path))
	}
	if err != nil {
		return base, fmt.Errorf("could not unmarshal config %s: %w", path, err)
	}
	return out, nil
}

// ApplyEnv overlays environment variables read through lookup (os.LookupEnv in production).
//
//	SM_PROVIDER, SM_MODEL, OPENAI_API_BASE, OPENAI_API_KEY, ANTHROPIC_API_KEY
func ApplyEnv(s Settings, lookup func(string) (string, bool)) Settings {
	if v, ok := lookup("SM_PROVIDER"); ok && v != "" {
		s.Provider = v
	}
	if v, ok := lookup("SM_MODEL"); ok && v != "" {
		s.Model = v
	}
	switch s.Provider {
	case ProviderAnthropic:
		if v, ok := lookup("ANTHROPIC_API_KEY"); ok && v != "" {
			s.APIKey = v
		}
	default:
		if v, ok := lookup("OPENAI_API_KEY"); ok && v != "" {
			s.APIKey = v
		}
		if v, ok := lookup("OPENAI_API_BASE"); ok && v != "" {
			s.BaseURL = v
		}
	}
	return s
}
