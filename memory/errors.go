package memory

import (
	"errors"
	"fmt"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrDuplicateMessageID   = errors.New("duplicate message id")
	// ErrNotProgress is returned when removal targets a regular (non-progress) message.
	ErrNotProgress = errors.New("only progress messages can be removed")
)

// PersistenceError wraps a failure to serialize, deserialize, read or write a snapshot.
type PersistenceError struct {
	Op  string // "load", "save", "marshal", "unmarshal"
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
