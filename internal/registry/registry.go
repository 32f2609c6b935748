// Package registry manages the stored rule tables: separators, words
// replaced by the separator and term substitutions.
package registry

import (
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/fdn/internal/apperr"
	"github.com/starford/fdn/internal/models"
	"github.com/starford/fdn/internal/rules"
)

// Store is the subset of the store the registry needs.
type Store interface {
	Separators() ([]models.Separator, error)
	InsertSeparator(value string) error
	DeleteSeparator(id int64) error

	ToSepWords() ([]models.ToSepWord, error)
	InsertToSepWord(value string) error
	DeleteToSepWord(id int64) error

	TermWords() ([]models.TermWord, error)
	UpsertTermWord(key, value string) error
	DeleteTermWord(id int64) error
}

// Kind identifies one of the rule tables.
type Kind int

const (
	KindSeparator Kind = iota
	KindToSepWord
	KindTermWord
)

func (k Kind) String() string {
	switch k {
	case KindSeparator:
		return "Separator"
	case KindToSepWord:
		return "ToSepWord"
	case KindTermWord:
		return "TermWord"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// AllKinds lists every table in display order.
var AllKinds = []Kind{KindSeparator, KindToSepWord, KindTermWord}

// Registry reads and edits the rule tables.
type Registry struct {
	store     Store
	maxPasses int
	logger    *slog.Logger
}

// New creates a Registry. maxPasses is copied into every Rules it builds.
func New(store Store, maxPasses int, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{store: store, maxPasses: maxPasses, logger: logger}
}

// Rules loads the current rule set. The lowest-id separator is active; with
// none stored the default "_" is used.
func (r *Registry) Rules() (rules.Rules, error) {
	seps, err := r.store.Separators()
	if err != nil {
		return rules.Rules{}, err
	}
	toSep, err := r.store.ToSepWords()
	if err != nil {
		return rules.Rules{}, err
	}
	terms, err := r.store.TermWords()
	if err != nil {
		return rules.Rules{}, err
	}
	rs := rules.FromModels(seps, toSep, terms, r.maxPasses)
	if err := rs.Validate(); err != nil {
		return rules.Rules{}, fmt.Errorf("registry: rules: %w: %w", apperr.ErrInvalidInput, err)
	}
	return rs, nil
}

// Word is a parsed rule argument. "key:value" (split at the first colon)
// names a TermWord, anything else a ToSepWord.
type Word struct {
	Key   string
	Value string
	Term  bool
}

// ParseWord splits word into its rule form.
func ParseWord(word string) Word {
	if k, v, ok := strings.Cut(word, ":"); ok {
		return Word{Key: k, Value: v, Term: true}
	}
	return Word{Key: word}
}

// Kind returns the table the word belongs to.
func (w Word) Kind() Kind {
	if w.Term {
		return KindTermWord
	}
	return KindToSepWord
}

// Validate validates the word.
func (w Word) Validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.Key, validation.Required),
	)
}

func invalid(op string, err error) error {
	return fmt.Errorf("registry: %s: %w: %w", op, apperr.ErrInvalidInput, err)
}

// Add stores word as a ToSepWord or, for "key:value", upserts a TermWord.
// Existing ToSepWords are left untouched.
func (r *Registry) Add(word string) (Kind, error) {
	w := ParseWord(word)
	if err := w.Validate(); err != nil {
		return w.Kind(), invalid("add", err)
	}
	if w.Term {
		if err := r.store.UpsertTermWord(w.Key, w.Value); err != nil {
			return KindTermWord, err
		}
		r.logger.Debug("registry: term word set", slog.String("key", w.Key), slog.String("value", w.Value))
		return KindTermWord, nil
	}
	if err := r.store.InsertToSepWord(w.Key); err != nil {
		return KindToSepWord, err
	}
	r.logger.Debug("registry: to-sep word added", slog.String("value", w.Key))
	return KindToSepWord, nil
}

// Delete removes the rule named by word. A TermWord is removed only when
// both key and value match. It reports whether anything was removed.
func (r *Registry) Delete(word string) (Kind, bool, error) {
	w := ParseWord(word)
	if err := w.Validate(); err != nil {
		return w.Kind(), false, invalid("delete", err)
	}
	if w.Term {
		terms, err := r.store.TermWords()
		if err != nil {
			return KindTermWord, false, err
		}
		for _, t := range terms {
			if t.Key == w.Key && t.Value == w.Value {
				return KindTermWord, true, r.store.DeleteTermWord(t.ID)
			}
		}
		return KindTermWord, false, nil
	}
	words, err := r.store.ToSepWords()
	if err != nil {
		return KindToSepWord, false, err
	}
	for _, t := range words {
		if t.Value == w.Key {
			return KindToSepWord, true, r.store.DeleteToSepWord(t.ID)
		}
	}
	return KindToSepWord, false, nil
}

// AddSeparator stores a separator. Only the lowest-id one is active.
func (r *Registry) AddSeparator(value string) error {
	if err := validation.Validate(value, validation.Required); err != nil {
		return invalid("add separator", err)
	}
	return r.store.InsertSeparator(value)
}

// DeleteSeparator removes the separator with the given value.
func (r *Registry) DeleteSeparator(value string) (bool, error) {
	seps, err := r.store.Separators()
	if err != nil {
		return false, err
	}
	for _, s := range seps {
		if s.Value == value {
			return true, r.store.DeleteSeparator(s.ID)
		}
	}
	return false, nil
}
