// Package animation renders p5.js code into self-contained playable pages and
// keeps track of the animations created during a session.
package animation

import (
	"context"
	"errors"
	"time"
)

// Default canvas size.
const (
	DefaultWidth  = 400
	DefaultHeight = 400
)

// DefaultTitle is used when a spec carries no title.
const DefaultTitle = "p5.js Animation"

var (
	ErrCodeRequired = errors.New("animation: code is required")
	ErrNotFound     = errors.New("animation: not found")
)

// Spec describes an animation to create.
type Spec struct {
	Code   string `json:"code"`
	Title  string `json:"title,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

func (s Spec) withDefaults() Spec {
	if s.Width <= 0 {
		s.Width = DefaultWidth
	}
	if s.Height <= 0 {
		s.Height = DefaultHeight
	}
	return s
}

// Animation is a created, playable animation.
type Animation struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Title     string    `json:"title,omitempty"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"createdAt"`
	URL       string    `json:"url,omitempty"`
}

// Creator turns code into a playable animation.
type Creator interface {
	Create(ctx context.Context, spec Spec) (Animation, error)
}
