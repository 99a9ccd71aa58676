package ioruns

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS runs (
  uuid          TEXT PRIMARY KEY,
  run_id        TEXT NOT NULL,
  timestamp     TEXT NOT NULL,
  duration_secs REAL NOT NULL,
  status        TEXT NOT NULL,
  error         TEXT NOT NULL DEFAULT '',
  input         TEXT NOT NULL DEFAULT '',
  output        TEXT NOT NULL DEFAULT '',
  entries       INTEGER NOT NULL DEFAULT 0,
  rows_emitted  INTEGER NOT NULL DEFAULT 0,
  bytes_read    INTEGER NOT NULL DEFAULT 0,
  bytes_written INTEGER NOT NULL DEFAULT 0
);
`

// Ledger is the SQLite record of past runs. It outlives run
// directories, so history survives cleanup.
type Ledger struct {
	db *sql.DB
}

// LedgerRow is one run as stored in the ledger.
type LedgerRow struct {
	UUID         string
	RunID        string
	Timestamp    string
	DurationSecs float64
	Status       string
	Error        string
	Input        string
	Output       string
	Entries      uint64
	RowsEmitted  uint64
	BytesRead    uint64
	BytesWritten uint64
}

// OpenLedger opens (or creates) the ledger database at path.
func OpenLedger(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, LedgerOpenError(path, err)
	}
	if _, err := db.Exec(ledgerSchema); err != nil {
		db.Close()
		return nil, LedgerOpenError(path, err)
	}
	return &Ledger{db: db}, nil
}

// Close releases the database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record inserts one finished run.
func (l *Ledger) Record(rep *Report) error {
	_, err := l.db.Exec(
		`INSERT INTO runs (
		   uuid, run_id, timestamp, duration_secs, status, error,
		   input, output, entries, rows_emitted, bytes_read,
		   bytes_written
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.UUID, rep.RunID, rep.Timestamp, rep.DurationSecs,
		rep.Status, rep.Error, rep.Input, rep.Output,
		rep.Performance.EntriesParsed, rep.Performance.RowsEmitted,
		rep.Performance.BytesRead, rep.Performance.BytesWritten,
	)
	if err != nil {
		return LedgerQueryError(err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (l *Ledger) List(limit int) ([]LedgerRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.Query(
		`SELECT uuid, run_id, timestamp, duration_secs, status,
		        error, input, output, entries, rows_emitted,
		        bytes_read, bytes_written
		   FROM runs
		  ORDER BY timestamp DESC
		  LIMIT ?`, limit,
	)
	if err != nil {
		return nil, LedgerQueryError(err)
	}
	defer rows.Close()

	var res []LedgerRow
	for rows.Next() {
		var r LedgerRow
		err = rows.Scan(
			&r.UUID, &r.RunID, &r.Timestamp, &r.DurationSecs,
			&r.Status, &r.Error, &r.Input, &r.Output, &r.Entries,
			&r.RowsEmitted, &r.BytesRead, &r.BytesWritten,
		)
		if err != nil {
			return nil, LedgerQueryError(err)
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, LedgerQueryError(err)
	}
	return res, nil
}

// Prune deletes all but the newest keep rows and returns the number
// removed. keep <= 0 removes nothing.
func (l *Ledger) Prune(keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := l.db.Exec(
		`DELETE FROM runs
		  WHERE uuid NOT IN (
		    SELECT uuid FROM runs ORDER BY timestamp DESC LIMIT ?
		  )`, keep,
	)
	if err != nil {
		return 0, LedgerQueryError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, LedgerQueryError(err)
	}
	return n, nil
}
