package iostore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tracelens/tracelens/internal/contract"
	"github.com/tracelens/tracelens/schema"
)

// HistoryStoreImpl is the append-only per-test run archive. Entries are
// keyed by (test_name, run_at) with nanosecond timestamps and are never
// mutated or deleted by the pipeline.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// getCreateHistoryQuery returns the CREATE TABLE query for the backend.
func getCreateHistoryQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				test_name VARCHAR(255) NOT NULL,
				run_at BIGINT NOT NULL,
				payload BLOB NOT NULL,
				PRIMARY KEY (test_name, run_at)
			);
		`, historyTable)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				test_name TEXT NOT NULL,
				run_at BIGINT NOT NULL,
				payload BYTEA NOT NULL,
				PRIMARY KEY (test_name, run_at)
			);
		`, historyTable)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				test_name TEXT NOT NULL,
				run_at INTEGER NOT NULL,
				payload BLOB NOT NULL,
				PRIMARY KEY (test_name, run_at)
			);
		`, historyTable)
	}
}

// Append writes a new history entry. The nanosecond timestamp keys the
// entry uniquely; existing entries are never overwritten.
func (hs *HistoryStoreImpl) Append(testName string, runAt time.Time, payload []byte) error {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}
	ph := getPlaceholders(hs.backend, 3)
	query := fmt.Sprintf(`INSERT INTO %s (test_name, run_at, payload) VALUES (%s, %s, %s)`,
		historyTable, ph[0], ph[1], ph[2])
	if _, err := hs.db.Exec(query, testName, runAt.UnixNano(), payload); err != nil {
		return &contract.PersistenceError{Op: "history append", Err: err}
	}
	return nil
}

// Query returns up to limit most-recent entries for a test name,
// newest-first. Rows that fail to scan are skipped rather than failing
// the whole query.
func (hs *HistoryStoreImpl) Query(testName string, limit int) ([]contract.HistoryRow, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return []contract.HistoryRow{}, nil
	}
	if limit <= 0 {
		limit = contract.DefaultHistoryLimit
	}

	ph := getPlaceholders(hs.backend, 2)
	query := fmt.Sprintf(`SELECT run_at, payload FROM %s WHERE test_name = %s ORDER BY run_at DESC LIMIT %s`,
		historyTable, ph[0], ph[1])

	rows, err := hs.db.Query(query, testName, limit)
	if err != nil {
		return nil, &contract.PersistenceError{Op: "history query", Err: err}
	}
	defer func() { _ = rows.Close() }()

	entries := make([]contract.HistoryRow, 0, limit)
	for rows.Next() {
		var runAt int64
		var payload []byte
		if err := rows.Scan(&runAt, &payload); err != nil {
			contract.LogWarn("Skipping unreadable history row", err)
			continue
		}
		entries = append(entries, contract.HistoryRow{
			TestName: testName,
			RunAt:    time.Unix(0, runAt),
			Payload:  payload,
		})
	}
	if err := rows.Err(); err != nil {
		return entries, &contract.PersistenceError{Op: "history query", Err: err}
	}
	return entries, nil
}

// Close is a no-op; the manager owns the shared handle.
func (hs *HistoryStoreImpl) Close() error { return nil }
