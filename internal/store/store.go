package store

import "github.com/starford/fdn/internal/models"

// Store defines the persistence operations used by the registry and the ledger.
// Consumers should depend on this interface (or a narrower one) rather than
// the concrete *DB type.
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

	Records() ([]models.Record, error)
	RecordByHash(hash string) (models.Record, error)
	RecordsByHash(hash string) ([]models.Record, error)
	InsertRecord(r models.Record) (int64, error)
	DeleteRecord(id int64) error
	DecrementRecord(id int64) error

	Seed(toSepWords []string) error
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)
