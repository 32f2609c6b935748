// Package rules implements the name transformation pipeline: fixed-point
// substitution of configured words, separator collapsing and trimming.
package rules

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/fdn/internal/models"
)

// DefaultMaxPasses bounds each fixed-point loop.
const DefaultMaxPasses = 64

// TermWord replaces Key with Value.
type TermWord struct {
	Key   string
	Value string
}

// Rules is the rule set consumed by Target. It is built once per invocation
// and never mutated afterwards.
type Rules struct {
	Separator  string
	ToSepWords []string
	TermWords  []TermWord
	// MaxPasses caps each substitution loop; zero means DefaultMaxPasses.
	MaxPasses int
}

// Validate validates the rule set.
func (r Rules) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Separator, validation.Required),
		validation.Field(&r.MaxPasses, validation.Min(0)),
	)
}

// FromModels builds Rules from stored rows. Rows are expected in id order;
// the first separator is the active one.
func FromModels(seps []models.Separator, toSep []models.ToSepWord, terms []models.TermWord, maxPasses int) Rules {
	r := Rules{Separator: models.DefaultSeparator, MaxPasses: maxPasses}
	if len(seps) > 0 {
		r.Separator = seps[0].Value
	}
	for _, w := range toSep {
		r.ToSepWords = append(r.ToSepWords, w.Value)
	}
	for _, w := range terms {
		r.TermWords = append(r.TermWords, TermWord{Key: w.Key, Value: w.Value})
	}
	return r
}

// Target computes the normalized name for bareName. Files are split into
// stem and extension and only the stem is transformed; directories are
// transformed whole. The result equals bareName when no rule fires.
func (r Rules) Target(bareName string, isFile bool) string {
	stem, ext, hasExt := SplitName(bareName, isFile)
	passes := r.MaxPasses
	if passes <= 0 {
		passes = DefaultMaxPasses
	}

	toSep := make([]TermWord, 0, len(r.ToSepWords))
	for _, w := range r.ToSepWords {
		toSep = append(toSep, TermWord{Key: w, Value: r.Separator})
	}

	stem, _ = replaceToFixedPoint(stem, toSep, passes)
	stem, _ = replaceToFixedPoint(stem, r.TermWords, passes)
	stem = collapseRepeats(stem, r.Separator)
	stem = trimSeparator(stem, r.Separator)

	if stem == "" {
		return bareName
	}
	return JoinName(stem, ext, hasExt)
}

// SplitName splits a bare name into stem and extension. The extension is the
// text after the last dot; a leading dot alone does not start an extension.
// Directories never have an extension.
func SplitName(name string, isFile bool) (stem, ext string, hasExt bool) {
	if !isFile {
		return name, "", false
	}
	i := strings.LastIndex(name, ".")
	if i <= 0 {
		return name, "", false
	}
	return name[:i], name[i+1:], true
}

// JoinName is the inverse of SplitName.
func JoinName(stem, ext string, hasExt bool) string {
	if !hasExt {
		return stem
	}
	return stem + "." + ext
}

// replaceToFixedPoint applies every pair in order, pass after pass, until a
// pass leaves s unchanged or maxPasses is reached. It returns the result and
// the number of passes run.
func replaceToFixedPoint(s string, pairs []TermWord, maxPasses int) (string, int) {
	passes := 0
	for passes < maxPasses {
		passes++
		next := s
		for _, p := range pairs {
			if p.Key == "" {
				continue
			}
			next = strings.ReplaceAll(next, p.Key, p.Value)
		}
		if next == s {
			break
		}
		s = next
	}
	return s, passes
}

// collapseRepeats folds consecutive case-insensitive repeats of sep into one.
func collapseRepeats(s, sep string) string {
	if sep == "" {
		return s
	}
	q := regexp.QuoteMeta(sep)
	re := regexp.MustCompile(`(?i)(?:` + q + `){2,}`)
	return re.ReplaceAllLiteralString(s, sep)
}

// trimSeparator strips exactly one leading and one trailing sep.
func trimSeparator(s, sep string) string {
	if sep == "" {
		return s
	}
	s = strings.TrimPrefix(s, sep)
	return strings.TrimSuffix(s, sep)
}
