package iostore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tracelens/tracelens/internal/contract"
	"github.com/tracelens/tracelens/schema"
)

// BaselineStoreImpl keeps the latest scored run per test name as a JSON
// payload keyed by test_name. The single-statement UPSERT makes the
// replace atomic: a crash mid-write never corrupts the previous value.
type BaselineStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.BaselineStore = &BaselineStoreImpl{} // Compile-time check

// ErrNoBaseline is returned when no baseline exists for a test name.
var ErrNoBaseline = errors.New("no baseline stored")

// getCreateBaselinesQuery returns the CREATE TABLE query for the backend.
func getCreateBaselinesQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				test_name VARCHAR(255) PRIMARY KEY,
				payload BLOB NOT NULL,
				updated_at BIGINT NOT NULL
			);
		`, baselinesTable)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				test_name TEXT PRIMARY KEY,
				payload BYTEA NOT NULL,
				updated_at BIGINT NOT NULL
			);
		`, baselinesTable)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				test_name TEXT PRIMARY KEY,
				payload BLOB NOT NULL,
				updated_at INTEGER NOT NULL
			);
		`, baselinesTable)
	}
}

// getUpsertBaselineQuery returns the UPSERT query for the backend.
func getUpsertBaselineQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (test_name, payload, updated_at) VALUES (?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE payload = new.payload, updated_at = new.updated_at`, baselinesTable)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (test_name, payload, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (test_name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`, baselinesTable)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (test_name, payload, updated_at) VALUES (?, ?, ?)`, baselinesTable)
	}
}

// Put stores the payload as the new baseline for the test name,
// overwriting any prior value wholesale.
func (bs *BaselineStoreImpl) Put(testName string, payload []byte, timestamp time.Time) error {
	if bs.backend == schema.NoneBackend || bs.db == nil {
		return nil
	}
	_, err := bs.db.Exec(getUpsertBaselineQuery(bs.backend), testName, payload, timestamp.UnixMilli())
	if err != nil {
		return &contract.PersistenceError{Op: "baseline put", Err: err}
	}
	return nil
}

// Get retrieves the stored baseline payload and its timestamp for a test
// name. ErrNoBaseline is returned when none exists.
func (bs *BaselineStoreImpl) Get(testName string) ([]byte, time.Time, error) {
	if bs.backend == schema.NoneBackend || bs.db == nil {
		return nil, time.Time{}, ErrNoBaseline
	}

	ph := getPlaceholders(bs.backend, 1)
	query := fmt.Sprintf(`SELECT payload, updated_at FROM %s WHERE test_name = %s`, baselinesTable, ph[0])

	var payload []byte
	var updatedAt int64
	if err := bs.db.QueryRow(query, testName).Scan(&payload, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, ErrNoBaseline
		}
		return nil, time.Time{}, &contract.PersistenceError{Op: "baseline get", Err: err}
	}
	return payload, time.UnixMilli(updatedAt), nil
}

// Delete removes the baseline for a test name. An empty test name clears
// all baselines.
func (bs *BaselineStoreImpl) Delete(testName string) error {
	if bs.backend == schema.NoneBackend || bs.db == nil {
		return nil
	}
	var err error
	if testName == "" {
		_, err = bs.db.Exec(fmt.Sprintf("DELETE FROM %s", baselinesTable))
	} else {
		ph := getPlaceholders(bs.backend, 1)
		_, err = bs.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE test_name = %s", baselinesTable, ph[0]), testName)
	}
	if err != nil {
		return &contract.PersistenceError{Op: "baseline delete", Err: err}
	}
	return nil
}

// Close is a no-op; the manager owns the shared handle.
func (bs *BaselineStoreImpl) Close() error { return nil }
