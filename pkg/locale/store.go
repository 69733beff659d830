package locale

import (
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/aretw0/cartograph/internal/logging"
	"github.com/goodsign/monday"
	"golang.org/x/text/language"
)

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.German,
	language.Spanish,
})

// Lookup resolves a language tag to one of the built-in bundles.
// Regional variants match their base language ("de-AT" -> de).
// Malformed or unsupported tags resolve to the English bundle.
// The returned bundle is shared and must not be modified.
func Lookup(tag string) *Bundle {
	b, _ := resolve(tag)
	return b
}

func resolve(tag string) (*Bundle, bool) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return &en, false
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return &en, false
	}
	_, idx, conf := matcher.Match(parsed)
	if conf == language.No {
		return &en, false
	}
	return builtin[idx], true
}

// Store owns the active bundle.
// Safe for concurrent use.
type Store struct {
	active atomic.Pointer[Bundle]
	logger *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used to report fallbacks.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a store with the default (English) bundle active.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.active.Store(&en)
	return s
}

// Active returns the current bundle.
func (s *Store) Active() *Bundle {
	return s.active.Load()
}

// SetLanguage makes the bundle for tag active and returns it.
// Unrecognized tags fall back to English without an error.
func (s *Store) SetLanguage(tag string) *Bundle {
	b, ok := resolve(tag)
	if !ok {
		s.logger.Debug("Unsupported language tag, using default", "tag", tag, "fallback", DefaultLanguage)
	}
	s.active.Store(b)
	return b
}

// DateLocale returns the date formatting locale paired with the active bundle.
func (s *Store) DateLocale() monday.Locale {
	return s.Active().DateLocale
}

// FormatDate formats t with the active date locale.
func (s *Store) FormatDate(t time.Time, layout string) string {
	return s.Active().FormatDate(t, layout)
}

// View returns a read-only view of s.
func (s *Store) View() View {
	return View{s: s}
}

// View reads the active bundle of a Store without being able to change it.
type View struct {
	s *Store
}

// Active returns the current bundle.
func (v View) Active() *Bundle { return v.s.Active() }

// DateLocale returns the date formatting locale paired with the active bundle.
func (v View) DateLocale() monday.Locale { return v.s.DateLocale() }

// FormatDate formats t with the active date locale.
func (v View) FormatDate(t time.Time, layout string) string { return v.s.FormatDate(t, layout) }

// FormatDate formats t using the bundle's date locale.
func (b *Bundle) FormatDate(t time.Time, layout string) string {
	return monday.Format(t, layout, b.DateLocale)
}
