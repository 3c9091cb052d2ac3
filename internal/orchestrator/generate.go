package orchestrator

import (
	"context"
	"strings"

	"github.com/petasbytes/simplemath/internal/extract"
	"github.com/petasbytes/simplemath/internal/provider"
	"github.com/petasbytes/simplemath/memory"
)

// historyWindow is how many trailing messages of the current conversation are
// considered by GenerateCode.
const historyWindow = 5

// GenerateCode performs a single call with the configured system prompt, the
// recent user and assistant messages of the current conversation and prompt.
// It does not modify the conversation.
func (o *Orchestrator) GenerateCode(ctx context.Context, prompt string) (extract.Extraction, error) {
	if strings.TrimSpace(prompt) == "" {
		return extract.Extraction{}, ErrEmptyInput
	}
	messages := []provider.Message{{Role: provider.RoleSystem, Content: o.settings.Current().SystemPrompt}}

	if conv, ok := o.store.Current(); ok {
		history := conv.Messages
		if len(history) > historyWindow {
			history = history[len(history)-historyWindow:]
		}
		for _, m := range history {
			switch m.Role {
			case memory.RoleUser:
				messages = append(messages, provider.Message{Role: provider.RoleUser, Content: m.Content})
			case memory.RoleAssistant:
				messages = append(messages, provider.Message{Role: provider.RoleAssistant, Content: m.Content})
			}
		}
	}
	messages = append(messages, provider.Message{Role: provider.RoleUser, Content: prompt})

	reply, err := o.client.GenerateResponse(ctx, messages)
	if err != nil {
		return extract.Extraction{}, err
	}
	return extract.Extract(reply), nil
}
