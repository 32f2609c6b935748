package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/fdn/internal/apperr"
	"github.com/starford/fdn/internal/models"
)

// Records returns every history record ordered by id.
func (db *DB) Records() ([]models.Record, error) {
	rows, err := db.conn.Query(`SELECT id, hashed_current_name, encrypted_pre_name, count FROM records ORDER BY id`)
	if err != nil {
		return nil, storeErr("records", err)
	}
	defer rows.Close()

	out := []models.Record{}
	for rows.Next() {
		var r models.Record
		if err := rows.Scan(&r.ID, &r.HashedCurrentName, &r.EncryptedPreviousName, &r.Count); err != nil {
			return nil, storeErr("scan record", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("records", err)
	}
	return out, nil
}

// RecordByHash returns the newest record whose current-name fingerprint equals hash.
// It returns apperr.ErrNotFound when no record matches.
func (db *DB) RecordByHash(hash string) (models.Record, error) {
	var r models.Record
	err := db.conn.QueryRow(`
		SELECT id, hashed_current_name, encrypted_pre_name, count
		FROM records
		WHERE hashed_current_name = ?
		ORDER BY id DESC
		LIMIT 1
	`, hash).Scan(&r.ID, &r.HashedCurrentName, &r.EncryptedPreviousName, &r.Count)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Record{}, fmt.Errorf("store: record %s: %w", hash, apperr.ErrNotFound)
	}
	if err != nil {
		return models.Record{}, storeErr("record by hash", err)
	}
	return r, nil
}

// RecordsByHash returns every record whose current-name fingerprint equals
// hash, newest first.
func (db *DB) RecordsByHash(hash string) ([]models.Record, error) {
	rows, err := db.conn.Query(`
		SELECT id, hashed_current_name, encrypted_pre_name, count
		FROM records
		WHERE hashed_current_name = ?
		ORDER BY id DESC
	`, hash)
	if err != nil {
		return nil, storeErr("records by hash", err)
	}
	defer rows.Close()

	out := []models.Record{}
	for rows.Next() {
		var r models.Record
		if err := rows.Scan(&r.ID, &r.HashedCurrentName, &r.EncryptedPreviousName, &r.Count); err != nil {
			return nil, storeErr("scan record", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("records by hash", err)
	}
	return out, nil
}

// InsertRecord persists r and returns its id. A zero Count is stored as 1.
func (db *DB) InsertRecord(r models.Record) (int64, error) {
	if r.Count <= 0 {
		r.Count = 1
	}
	res, err := db.conn.Exec(`
		INSERT INTO records (hashed_current_name, encrypted_pre_name, count)
		VALUES (?, ?, ?)
	`, r.HashedCurrentName, r.EncryptedPreviousName, r.Count)
	if err != nil {
		return 0, storeErr("insert record", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storeErr("insert record id", err)
	}
	return id, nil
}

// DeleteRecord removes the record with the given id.
func (db *DB) DeleteRecord(id int64) error {
	if _, err := db.conn.Exec(`DELETE FROM records WHERE id = ?`, id); err != nil {
		return storeErr("delete record", err)
	}
	return nil
}

// DecrementRecord lowers the count of the record with the given id by one.
func (db *DB) DecrementRecord(id int64) error {
	if _, err := db.conn.Exec(`UPDATE records SET count = count - 1 WHERE id = ? AND count > 1`, id); err != nil {
		return storeErr("decrement record", err)
	}
	return nil
}
