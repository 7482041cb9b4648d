// ════════════════════════════════════════════════════════════════════════════════════════════════
// Frame Journal
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: framepipe
// Component: SQLite-backed record of verified frames
//
// Description:
//   Consumer-side sink that records every frame drained from a pipe: sequence
//   number, payload size and digest trailer. Inserts are batched inside one
//   transaction with a prepared statement and committed every `batch` rows.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrClosed is returned by every method after Close.
var ErrClosed = errors.New("journal: closed")

// Journal is not safe for concurrent use; it belongs to the consumer side.
type Journal struct {
	db    *sql.DB
	tx    *sql.Tx
	stmt  *sql.Stmt
	batch int
	open  int // rows in the current transaction
}

// Open creates or reuses the journal database at path. batch is the number of
// rows per transaction; values below 1 commit every row.
func Open(path string, batch int) (*Journal, error) {
	// Per-connection settings travel in the DSN so every pooled connection
	// gets them; Count reads on a second connection while a batch is open.
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_synchronous=OFF")
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(2)

	if err := configureDatabase(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: schema: %w", err)
	}
	if batch < 1 {
		batch = 1
	}
	return &Journal{db: db, batch: batch}, nil
}

func configureDatabase(db *sql.DB) error {
	// Write-heavy, single-writer settings; the journal is a diagnostic record.
	optimizations := []string{
		"PRAGMA temp_store = MEMORY",
		"PRAGMA cache_size = 20000",
	}

	for _, pragma := range optimizations {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("journal: failed to execute %s: %w", pragma, err)
		}
	}
	return nil
}

func initializeSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS frames (
		seq         INTEGER PRIMARY KEY,
		size        INTEGER NOT NULL,
		digest      BLOB    NOT NULL,
		recorded_at INTEGER NOT NULL
	);
	`
	_, err := db.Exec(schema)
	return err
}

// begin opens the batch transaction and its prepared insert.
func (j *Journal) begin() error {
	tx, err := j.db.Begin()
	if err != nil {
		return fmt.Errorf("journal: begin: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO frames (seq, size, digest, recorded_at)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("journal: prepare insert: %w", err)
	}
	j.tx, j.stmt = tx, stmt
	return nil
}

// Record stores one frame. digest is copied by the driver, so it may alias
// pipe storage.
func (j *Journal) Record(seq uint64, size int, digest []byte) error {
	if j.db == nil {
		return ErrClosed
	}
	if j.tx == nil {
		if err := j.begin(); err != nil {
			return err
		}
	}
	if _, err := j.stmt.Exec(int64(seq), size, digest, time.Now().UnixNano()); err != nil {
		return fmt.Errorf("journal: record %d: %w", seq, err)
	}
	if j.open++; j.open >= j.batch {
		return j.Flush()
	}
	return nil
}

// Flush commits the open batch, if any.
func (j *Journal) Flush() error {
	if j.db == nil {
		return ErrClosed
	}
	if j.tx == nil {
		return nil
	}
	j.stmt.Close()
	err := j.tx.Commit()
	j.tx, j.stmt, j.open = nil, nil, 0
	if err != nil {
		return fmt.Errorf("journal: commit: %w", err)
	}
	return nil
}

// Count returns the number of committed rows.
func (j *Journal) Count() (int64, error) {
	if j.db == nil {
		return 0, ErrClosed
	}
	var n int64
	err := j.db.QueryRow(`SELECT COUNT(*) FROM frames`).Scan(&n)
	return n, err
}

// Last returns the highest committed sequence number; ok is false for an
// empty journal.
func (j *Journal) Last() (seq uint64, ok bool, err error) {
	if j.db == nil {
		return 0, false, ErrClosed
	}
	var v sql.NullInt64
	if err := j.db.QueryRow(`SELECT MAX(seq) FROM frames`).Scan(&v); err != nil {
		return 0, false, err
	}
	return uint64(v.Int64), v.Valid, nil
}

// Close flushes the open batch and closes the database.
func (j *Journal) Close() error {
	if j.db == nil {
		return ErrClosed
	}
	ferr := j.Flush()
	cerr := j.db.Close()
	j.db = nil
	return errors.Join(ferr, cerr)
}
