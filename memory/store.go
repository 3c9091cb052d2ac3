package memory

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/petasbytes/simplemath/internal/kvstore"
)

// Keys of the persisted snapshot.
const (
	ConversationsKey = "simplemath_conversations"
	CurrentKey       = "simplemath_current_conversation"
)

// Store holds every conversation (newest created first) and the current one.
// It is safe for concurrent use.
type Store struct {
	mu            sync.Mutex
	kv            kvstore.Store
	conversations []*Conversation
	currentID     string

	now   func() time.Time
	newID func() string
}

// NewStore returns an empty store persisting to kv. Call Load to restore a snapshot.
func NewStore(kv kvstore.Store) *Store {
	return &Store{
		kv:    kv,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// mutate applies fn under the lock and, when fn reports a change, writes the
// full snapshot exactly once. Write failures are logged, never returned.
func (s *Store) mutate(fn func() (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed, err := fn()
	if changed {
		if perr := s.saveLocked(); perr != nil {
			log.WithError(perr).Warn("failed to persist conversations")
		}
	}
	return err
}

// Load replaces the in-memory state with the persisted snapshot. Unreadable or
// unparsable data leaves the store empty; the returned *PersistenceError is informational.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations = nil
	s.currentID = ""

	raw, err := s.kv.Get(ConversationsKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		perr := &PersistenceError{Op: "load", Key: ConversationsKey, Err: err}
		log.WithError(perr).Warn("failed to load conversations, starting empty")
		return perr
	}

	var parsed []*Conversation
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		perr := &PersistenceError{Op: "unmarshal", Key: ConversationsKey, Err: err}
		log.WithError(perr).Warn("failed to parse conversations, starting empty")
		return perr
	}
	for _, c := range parsed {
		if c == nil {
			continue
		}
		if c.Messages == nil {
			c.Messages = []Message{}
		}
		s.conversations = append(s.conversations, c)
	}

	currentID, err := s.kv.Get(CurrentKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			log.WithError(err).Warn("failed to load current conversation id")
		}
		return nil
	}
	if s.findLocked(currentID) != nil {
		s.currentID = currentID
	}
	return nil
}

// Save writes the full snapshot.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	snapshot := s.conversations
	if snapshot == nil {
		snapshot = []*Conversation{}
	}
	b, err := json.Marshal(snapshot)
	if err != nil {
		return &PersistenceError{Op: "marshal", Key: ConversationsKey, Err: err}
	}
	if err := s.kv.Set(ConversationsKey, string(b)); err != nil {
		return &PersistenceError{Op: "save", Key: ConversationsKey, Err: err}
	}
	if s.currentID == "" {
		if err := s.kv.Delete(CurrentKey); err != nil {
			return &PersistenceError{Op: "save", Key: CurrentKey, Err: err}
		}
		return nil
	}
	if err := s.kv.Set(CurrentKey, s.currentID); err != nil {
		return &PersistenceError{Op: "save", Key: CurrentKey, Err: err}
	}
	return nil
}

func (s *Store) findLocked(id string) *Conversation {
	for _, c := range s.conversations {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (s *Store) createLocked() *Conversation {
	now := s.now()
	c := &Conversation{
		ID:        s.newID(),
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.conversations = append([]*Conversation{c}, s.conversations...)
	s.currentID = c.ID
	return c
}

// CreateConversation starts a new conversation and makes it current.
func (s *Store) CreateConversation() Conversation {
	var out Conversation
	_ = s.mutate(func() (bool, error) {
		out = s.createLocked().clone()
		return true, nil
	})
	return out
}

// EnsureCurrent returns the current conversation, creating one when there is none.
func (s *Store) EnsureCurrent() Conversation {
	var out Conversation
	_ = s.mutate(func() (bool, error) {
		if c := s.findLocked(s.currentID); c != nil {
			out = c.clone()
			return false, nil
		}
		out = s.createLocked().clone()
		return true, nil
	})
	return out
}

// Append adds m to the current conversation, creating one when there is none.
func (s *Store) Append(m Message) (Message, error) {
	var out Message
	err := s.mutate(func() (bool, error) {
		c := s.findLocked(s.currentID)
		created := false
		if c == nil {
			c = s.createLocked()
			created = true
		}
		var err error
		out, err = s.appendLocked(c, m)
		return err == nil || created, err
	})
	return out, err
}

// AppendTo adds m to the conversation convID. An empty m.ID is replaced by a
// generated one; a zero timestamp is set to now.
func (s *Store) AppendTo(convID string, m Message) (Message, error) {
	var out Message
	err := s.mutate(func() (bool, error) {
		c := s.findLocked(convID)
		if c == nil {
			return false, ErrConversationNotFound
		}
		var err error
		out, err = s.appendLocked(c, m)
		return err == nil, err
	})
	return out, err
}

func (s *Store) appendLocked(c *Conversation, m Message) (Message, error) {
	if m.ID == "" {
		m.ID = s.newID()
	} else if c.indexOf(m.ID) >= 0 {
		return Message{}, ErrDuplicateMessageID
	}
	now := s.now()
	if m.Timestamp.IsZero() {
		m.Timestamp = now
	}
	c.Messages = append(c.Messages, m)
	c.UpdatedAt = now
	return m, nil
}

// UpdateMessage merges patch into message msgID of conversation convID,
// keeping the message id and its position.
func (s *Store) UpdateMessage(convID, msgID string, patch MessagePatch) (Message, error) {
	var out Message
	err := s.mutate(func() (bool, error) {
		c := s.findLocked(convID)
		if c == nil {
			return false, ErrConversationNotFound
		}
		i := c.indexOf(msgID)
		if i < 0 {
			return false, ErrMessageNotFound
		}
		patch.apply(&c.Messages[i])
		c.UpdatedAt = s.now()
		out = c.Messages[i]
		return true, nil
	})
	return out, err
}

// RemoveProgress deletes a progress message by id. Regular messages are never removed.
func (s *Store) RemoveProgress(convID, msgID string) error {
	return s.mutate(func() (bool, error) {
		c := s.findLocked(convID)
		if c == nil {
			return false, ErrConversationNotFound
		}
		i := c.indexOf(msgID)
		if i < 0 {
			return false, ErrMessageNotFound
		}
		if !c.Messages[i].IsProgress {
			return false, ErrNotProgress
		}
		c.Messages = append(c.Messages[:i], c.Messages[i+1:]...)
		c.UpdatedAt = s.now()
		return true, nil
	})
}

// Switch makes conversation id current.
func (s *Store) Switch(id string) error {
	return s.mutate(func() (bool, error) {
		if s.findLocked(id) == nil {
			return false, ErrConversationNotFound
		}
		s.currentID = id
		return true, nil
	})
}

// Delete removes conversation id. When it was current, the newest remaining
// conversation becomes current (or none).
func (s *Store) Delete(id string) error {
	return s.mutate(func() (bool, error) {
		idx := -1
		for i, c := range s.conversations {
			if c.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return false, ErrConversationNotFound
		}
		s.conversations = append(s.conversations[:idx], s.conversations[idx+1:]...)
		if s.currentID == id {
			s.currentID = ""
			if len(s.conversations) > 0 {
				s.currentID = s.conversations[0].ID
			}
		}
		return true, nil
	})
}

// ClearAll drops every conversation.
func (s *Store) ClearAll() {
	_ = s.mutate(func() (bool, error) {
		s.conversations = nil
		s.currentID = ""
		return true, nil
	})
}

// Current returns a copy of the current conversation.
func (s *Store) Current() (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.findLocked(s.currentID)
	if c == nil {
		return Conversation{}, false
	}
	return c.clone(), true
}

// Get returns a copy of conversation id.
func (s *Store) Get(id string) (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.findLocked(id)
	if c == nil {
		return Conversation{}, false
	}
	return c.clone(), true
}

// Conversations returns copies of all conversations, newest created first.
func (s *Store) Conversations() []Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Conversation, 0, len(s.conversations))
	for _, c := range s.conversations {
		out = append(out, c.clone())
	}
	return out
}
