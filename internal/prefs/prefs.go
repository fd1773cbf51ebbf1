// Package prefs manages persisted user preferences: theme, language, mute,
// and guided mode. Each preference lives under its own key in the key-value
// store; absent or malformed values fall back to defaults.
package prefs

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/stillpoint/breathbox/internal/store"
)

// Theme is the visual theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Supported languages for spoken cue labels.
const (
	LangEnglish = "en"
	LangSpanish = "es"
)

const (
	keyTheme    = "theme"
	keyLanguage = "language"
	keyMuted    = "muted"
	keyGuided   = "guided"
)

// Preferences is a point-in-time view of all preference values.
type Preferences struct {
	Theme    Theme  `json:"theme"`
	Language string `json:"language"`
	Muted    bool   `json:"muted"`
	Guided   bool   `json:"guided"`
}

// Store holds the current preferences in memory and writes changes through to
// the key-value layer synchronously. Reads reflect the latest toggle, so a
// mute flipped mid-session takes effect on the very next cue.
type Store struct {
	mu      sync.RWMutex
	kv      *store.KV
	current Preferences
}

// NewStore loads preferences from the key-value layer, falling back to
// defaults for anything absent or malformed.
func NewStore(kv *store.KV) *Store {
	s := &Store{kv: kv}
	s.current = Preferences{
		Theme:    loadTheme(kv),
		Language: loadLanguage(kv),
		Muted:    loadFlag(kv, keyMuted),
		Guided:   loadFlag(kv, keyGuided),
	}
	return s
}

func loadTheme(kv *store.KV) Theme {
	raw, ok, err := kv.Get(keyTheme)
	if err != nil || !ok {
		return ThemeLight
	}
	switch Theme(raw) {
	case ThemeLight, ThemeDark:
		return Theme(raw)
	default:
		slog.Debug("malformed theme value, using default", "value", raw)
		return ThemeLight
	}
}

func loadLanguage(kv *store.KV) string {
	raw, ok, err := kv.Get(keyLanguage)
	if err != nil || !ok {
		return LangEnglish
	}
	switch raw {
	case LangEnglish, LangSpanish:
		return raw
	default:
		slog.Debug("malformed language value, using default", "value", raw)
		return LangEnglish
	}
}

func loadFlag(kv *store.KV, key string) bool {
	raw, ok, err := kv.Get(key)
	if err != nil || !ok {
		return false
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Debug("malformed flag value, using default", "key", key, "value", raw)
		return false
	}
	return value
}

// Snapshot returns the current preference values.
func (s *Store) Snapshot() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Theme returns the current theme.
func (s *Store) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Theme
}

// SetTheme persists a new theme.
func (s *Store) SetTheme(theme Theme) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("invalid theme %q: must be %q or %q", theme, ThemeLight, ThemeDark)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(keyTheme, string(theme)); err != nil {
		return err
	}
	s.current.Theme = theme
	return nil
}

// Language returns the current cue language.
func (s *Store) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Language
}

// SetLanguage persists a new cue language.
func (s *Store) SetLanguage(lang string) error {
	if lang != LangEnglish && lang != LangSpanish {
		return fmt.Errorf("invalid language %q: must be %q or %q", lang, LangEnglish, LangSpanish)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(keyLanguage, lang); err != nil {
		return err
	}
	s.current.Language = lang
	return nil
}

// Muted reports whether cue playback is muted.
func (s *Store) Muted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Muted
}

// SetMuted persists the mute flag.
func (s *Store) SetMuted(muted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(keyMuted, strconv.FormatBool(muted)); err != nil {
		return err
	}
	s.current.Muted = muted
	return nil
}

// Guided reports whether guided (spoken) mode is enabled.
func (s *Store) Guided() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Guided
}

// SetGuided persists the guided-mode flag.
func (s *Store) SetGuided(guided bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(keyGuided, strconv.FormatBool(guided)); err != nil {
		return err
	}
	s.current.Guided = guided
	return nil
}
