package memory

import (
	"time"
)

// Role is the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one transcript entry.
type Message struct {
	ID            string    `json:"id" yaml:"id"`
	Role          Role      `json:"role" yaml:"role"`
	Content       string    `json:"content" yaml:"content"`
	GeneratedCode string    `json:"generatedCode,omitempty" yaml:"generated_code,omitempty"`
	Timestamp     time.Time `json:"timestamp" yaml:"timestamp"`
	// Round is the orchestration round (1-3) that produced the message; 0 when unset.
	Round      int  `json:"round,omitempty" yaml:"round,omitempty"`
	IsProgress bool `json:"isProgress,omitempty" yaml:"is_progress,omitempty"`
}

// MessagePatch holds the fields to merge into an existing message. Nil fields are left untouched.
type MessagePatch struct {
	Content       *string
	GeneratedCode *string
	Timestamp     *time.Time
	Round         *int
	IsProgress    *bool
}

func (p MessagePatch) apply(m *Message) {
	if p.Content != nil {
		m.Content = *p.Content
	}
	if p.GeneratedCode != nil {
		m.GeneratedCode = *p.GeneratedCode
	}
	if p.Timestamp != nil {
		m.Timestamp = *p.Timestamp
	}
	if p.Round != nil {
		m.Round = *p.Round
	}
	if p.IsProgress != nil {
		m.IsProgress = *p.IsProgress
	}
}

// Conversation is an ordered message log. Insertion order is chronological order.
type Conversation struct {
	ID        string    `json:"id" yaml:"id"`
	Messages  []Message `json:"messages" yaml:"messages"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}

func (c *Conversation) clone() Conversation {
	out := *c
	out.Messages = make([]Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	return out
}

func (c *Conversation) indexOf(msgID string) int {
	for i := range c.Messages {
		if c.Messages[i].ID == msgID {
			return i
		}
	}
	return -1
}
