package store

import (
	"database/sql"
	"errors"

	"github.com/starford/fdn/internal/models"
)

// Separators returns all separators ordered by id.
func (db *DB) Separators() ([]models.Separator, error) {
	rows, err := db.conn.Query(`SELECT id, value FROM separators ORDER BY id`)
	if err != nil {
		return nil, storeErr("separators", err)
	}
	defer rows.Close()

	out := []models.Separator{}
	for rows.Next() {
		var s models.Separator
		if err := rows.Scan(&s.ID, &s.Value); err != nil {
			return nil, storeErr("scan separator", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("separators", err)
	}
	return out, nil
}

// InsertSeparator adds a separator. Existing values are left untouched.
func (db *DB) InsertSeparator(value string) error {
	if _, err := db.conn.Exec(`INSERT OR IGNORE INTO separators (value) VALUES (?)`, value); err != nil {
		return storeErr("insert separator", err)
	}
	return nil
}

// DeleteSeparator removes the separator with the given id.
func (db *DB) DeleteSeparator(id int64) error {
	if _, err := db.conn.Exec(`DELETE FROM separators WHERE id = ?`, id); err != nil {
		return storeErr("delete separator", err)
	}
	return nil
}

// ToSepWords returns all to-separator words ordered by id.
func (db *DB) ToSepWords() ([]models.ToSepWord, error) {
	rows, err := db.conn.Query(`SELECT id, value FROM to_sep_words ORDER BY id`)
	if err != nil {
		return nil, storeErr("to-sep words", err)
	}
	defer rows.Close()

	out := []models.ToSepWord{}
	for rows.Next() {
		var w models.ToSepWord
		if err := rows.Scan(&w.ID, &w.Value); err != nil {
			return nil, storeErr("scan to-sep word", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("to-sep words", err)
	}
	return out, nil
}

// InsertToSepWord adds a to-separator word. Duplicates are ignored.
func (db *DB) InsertToSepWord(value string) error {
	if _, err := db.conn.Exec(`INSERT OR IGNORE INTO to_sep_words (value) VALUES (?)`, value); err != nil {
		return storeErr("insert to-sep word", err)
	}
	return nil
}

// DeleteToSepWord removes the to-separator word with the given id.
func (db *DB) DeleteToSepWord(id int64) error {
	if _, err := db.conn.Exec(`DELETE FROM to_sep_words WHERE id = ?`, id); err != nil {
		return storeErr("delete to-sep word", err)
	}
	return nil
}

// TermWords returns all term words ordered by id.
func (db *DB) TermWords() ([]models.TermWord, error) {
	rows, err := db.conn.Query(`SELECT id, key, value FROM term_words ORDER BY id`)
	if err != nil {
		return nil, storeErr("term words", err)
	}
	defer rows.Close()

	out := []models.TermWord{}
	for rows.Next() {
		var w models.TermWord
		if err := rows.Scan(&w.ID, &w.Key, &w.Value); err != nil {
			return nil, storeErr("scan term word", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("term words", err)
	}
	return out, nil
}

// UpsertTermWord inserts key → value, or updates the value of an existing key.
func (db *DB) UpsertTermWord(key, value string) error {
	_, err := db.conn.Exec(`
		INSERT INTO term_words (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return storeErr("upsert term word", err)
	}
	return nil
}

// DeleteTermWord removes the term word with the given id.
func (db *DB) DeleteTermWord(id int64) error {
	if _, err := db.conn.Exec(`DELETE FROM term_words WHERE id = ?`, id); err != nil {
		return storeErr("delete term word", err)
	}
	return nil
}

// Seed inserts the default to-separator words the first time it runs against a database.
// Later calls are no-ops even if the user has since deleted the seeded words.
func (db *DB) Seed(toSepWords []string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return storeErr("begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	var seeded string
	err = tx.QueryRow(`SELECT value FROM meta WHERE key = 'seeded'`).Scan(&seeded)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, sql.ErrNoRows):
		return storeErr("read seed marker", err)
	}

	for _, w := range toSepWords {
		if w == "" {
			continue
		}
		if _, err := tx.Exec(`INSERT OR IGNORE INTO to_sep_words (value) VALUES (?)`, w); err != nil {
			return storeErr("seed to-sep word", err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES ('seeded', '1')`); err != nil {
		return storeErr("mark seeded", err)
	}
	if err := tx.Commit(); err != nil {
		return storeErr("commit seed", err)
	}
	return nil
}
