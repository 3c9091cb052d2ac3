package animation

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	anim Animation
	html string
}

// Registry keeps rendered animations in memory. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
	newID   func() string
}

func NewRegistry() *Registry {
	return &Registry{
		entries: map[string]entry{},
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Add renders spec and stores it under a new id.
func (r *Registry) Add(spec Spec) (Animation, string, error) {
	if strings.TrimSpace(spec.Code) == "" {
		return Animation{}, "", ErrCodeRequired
	}
	spec = spec.withDefaults()
	html, err := RenderHTML(spec)
	if err != nil {
		return Animation{}, "", err
	}
	a := Animation{
		ID:        r.newID(),
		Code:      spec.Code,
		Title:     spec.Title,
		Width:     spec.Width,
		Height:    spec.Height,
		CreatedAt: r.now(),
	}
	r.mu.Lock()
	r.entries[a.ID] = entry{anim: a, html: html}
	r.mu.Unlock()
	return a, html, nil
}

// Get returns the animation stored under id.
func (r *Registry) Get(id string) (Animation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e.anim, ok
}

// HTML returns the rendered page of id.
func (r *Registry) HTML(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e.html, ok
}

// SetURL records where id can be played.
func (r *Registry) SetURL(id, url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		e.anim.URL = url
		r.entries[id] = e
	}
}

// Remove drops id.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// List returns all animations, oldest first.
func (r *Registry) List() []Animation {
	r.mu.RLock()
	out := make([]Animation, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.anim)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Len returns the number of animations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
