// Package ledger records applied renames so they can be reversed, one step
// at a time or through a whole rename chain.
//
// Each record is keyed by the fingerprint of the name a rename produced and
// holds the name it replaced, encrypted with the produced name. Reversal
// therefore needs nothing but the current bare name of the entry.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/starford/fdn/internal/apperr"
	"github.com/starford/fdn/internal/checksum"
	"github.com/starford/fdn/internal/models"
	"github.com/starford/fdn/internal/namecrypt"
)

// DefaultMaxChainDepth caps chain walks.
const DefaultMaxChainDepth = 64

// Store is the subset of the store the ledger needs.
type Store interface {
	RecordByHash(hash string) (models.Record, error)
	RecordsByHash(hash string) ([]models.Record, error)
	InsertRecord(r models.Record) (int64, error)
	DeleteRecord(id int64) error
	DecrementRecord(id int64) error
}

// Entry is a resolved history step.
type Entry struct {
	Record   models.Record
	Previous string
}

// Ledger reads and writes rename records.
type Ledger struct {
	store  Store
	cipher namecrypt.Cipher
	logger *slog.Logger
}

// New creates a Ledger.
func New(store Store, c namecrypt.Cipher, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{store: store, cipher: c, logger: logger}
}

// Record persists the rename oldName → newName with count 1.
// Call it only after the rename has been performed.
func (l *Ledger) Record(oldName, newName string) (models.Record, error) {
	enc, err := l.cipher.Encrypt(oldName, newName)
	if err != nil {
		return models.Record{}, err
	}
	rec := models.Record{
		HashedCurrentName:     checksum.Name(newName),
		EncryptedPreviousName: enc,
		Count:                 1,
	}
	id, err := l.store.InsertRecord(rec)
	if err != nil {
		return models.Record{}, err
	}
	rec.ID = id
	l.logger.Debug("ledger: recorded", slog.Int64("id", id), slog.String("name", newName))
	return rec, nil
}

// ResolvePrevious returns the name current replaced, or nil when no record
// matches (nothing left to undo). A record that cannot be decrypted with
// current is an apperr.ErrCrypto error.
func (l *Ledger) ResolvePrevious(current string) (*Entry, error) {
	rec, err := l.store.RecordByHash(checksum.Name(current))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	prev, err := l.cipher.Decrypt(rec.EncryptedPreviousName, current)
	if err != nil {
		return nil, fmt.Errorf("ledger: record %d for %q: %w", rec.ID, current, err)
	}
	return &Entry{Record: rec, Previous: prev}, nil
}

// Consume marks one undo layer of rec as used: the record is deleted when
// its count is one or less and decremented otherwise.
func (l *Ledger) Consume(rec models.Record) error {
	if rec.Count > 1 {
		return l.store.DecrementRecord(rec.ID)
	}
	return l.store.DeleteRecord(rec.ID)
}

// Pending counts the uses of records consumed by a walk that leaves the
// store untouched. The zero value is not usable; create it with make or a
// composite literal.
type Pending map[int64]int

// Consume marks one use of rec.
func (p Pending) Consume(rec models.Record) {
	p[rec.ID]++
}

// ResolveUnused is ResolvePrevious for a walk that does not modify the
// store: records whose count is used up in used are skipped, so the result
// equals what ResolvePrevious would return had every use been consumed.
func (l *Ledger) ResolveUnused(current string, used Pending) (*Entry, error) {
	recs, err := l.store.RecordsByHash(checksum.Name(current))
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if used[rec.ID] >= max(rec.Count, 1) {
			continue
		}
		prev, err := l.cipher.Decrypt(rec.EncryptedPreviousName, current)
		if err != nil {
			return nil, fmt.Errorf("ledger: record %d for %q: %w", rec.ID, current, err)
		}
		return &Entry{Record: rec, Previous: prev}, nil
	}
	return nil, nil
}

// Chain lists the successive previous names of current, newest first,
// without modifying anything. It follows the same records an applied chain
// reversal would consume and stops at the first miss or after maxDepth steps.
func (l *Ledger) Chain(current string, maxDepth int) ([]string, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxChainDepth
	}
	used := Pending{}
	var out []string
	for len(out) < maxDepth {
		e, err := l.ResolveUnused(current, used)
		if err != nil {
			return out, err
		}
		if e == nil {
			break
		}
		used.Consume(e.Record)
		out = append(out, e.Previous)
		current = e.Previous
	}
	return out, nil
}
