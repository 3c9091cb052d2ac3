package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/petasbytes/simplemath/internal/kvstore"
)

// StorageKey is the kvstore key of the persisted settings.
const StorageKey = "simplemath_settings"

// Store keeps user-edited settings persisted in a kvstore. Environment
// overrides are applied on read and never persisted.
type Store struct {
	mu       sync.RWMutex
	kv       kvstore.Store
	base     Settings
	settings Settings
	lookup   func(string) (string, bool)
}

// NewStore returns a store whose baseline (and Reset target) is base.
func NewStore(kv kvstore.Store, base Settings) *Store {
	return &Store{kv: kv, base: base, settings: base, lookup: os.LookupEnv}
}

// WithLookup replaces the environment lookup.
func (s *Store) WithLookup(lookup func(string) (string, bool)) *Store {
	s.lookup = lookup
	return s
}

// Load overlays the persisted settings on the baseline. Unparsable data is
// logged and the baseline kept.
func (s *Store) Load() error {
	raw, err := s.kv.Get(StorageKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	merged := s.base
	if err := json.Unmarshal([]byte(raw), &merged); err != nil {
		log.WithError(err).Warn("failed to parse persisted settings, using defaults")
		return nil
	}
	s.mu.Lock()
	s.settings = merged
	s.mu.Unlock()
	return nil
}

// Current returns the effective settings.
func (s *Store) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ApplyEnv(s.settings, s.lookup)
}

// Persisted returns the settings without environment overrides.
func (s *Store) Persisted() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Update applies fn and persists the result.
func (s *Store) Update(fn func(*Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prevProvider := s.settings.Provider
	fn(&s.settings)
	// Follow the provider's default endpoint unless the user pointed it elsewhere.
	if s.settings.Provider != prevProvider && s.settings.BaseURL == DefaultBaseURL(prevProvider) {
		s.settings.BaseURL = DefaultBaseURL(s.settings.Provider)
	}
	return s.saveLocked()
}

// Set assigns one field by its JSON name from a string value.
func (s *Store) Set(field, value string) error {
	var apply func(*Settings)
	switch field {
	case "provider":
		if value != ProviderOpenAI && value != ProviderAnthropic {
			return fmt.Errorf("unknown provider %q (supported: openai, anthropic)", value)
		}
		apply = func(st *Settings) { st.Provider = value }
	case "apiKey":
		if !ValidateAPIKey(value) {
			return fmt.Errorf("api key must not be blank")
		}
		apply = func(st *Settings) { st.APIKey = value }
	case "baseUrl":
		if !ValidateURL(value) {
			return fmt.Errorf("invalid base url %q", value)
		}
		apply = func(st *Settings) { st.BaseURL = value }
	case "model":
		apply = func(st *Settings) { st.Model = value }
	case "temperature":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f > 2 {
			return fmt.Errorf("temperature must be a number between 0 and 2")
		}
		apply = func(st *Settings) { st.Temperature = f }
	case "maxTokens":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("maxTokens must be a positive integer")
		}
		apply = func(st *Settings) { st.MaxTokens = n }
	case "systemPrompt":
		apply = func(st *Settings) { st.SystemPrompt = value }
	default:
		return fmt.Errorf("unknown setting %q", field)
	}
	return s.Update(apply)
}

// Reset restores the baseline and persists it.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = s.base
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	b, err := json.Marshal(s.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := s.kv.Set(StorageKey, string(b)); err != nil {
		log.WithError(err).Warn("failed to save settings")
	}
	return nil
}

// Export writes the persisted settings as indented JSON.
func (s *Store) Export(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.Persisted())
}

// Import replaces the settings with a JSON document merged onto Defaults.
func (s *Store) Import(r io.Reader) error {
	imported := Defaults()
	if err := json.NewDecoder(r).Decode(&imported); err != nil {
		return fmt.Errorf("invalid settings file format: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = imported
	return s.saveLocked()
}
