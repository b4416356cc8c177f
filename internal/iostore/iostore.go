// Package iostore persists baselines and run history across sqlite,
// mysql and postgresql backends.
package iostore

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/tracelens/tracelens/internal/contract"
	"github.com/tracelens/tracelens/schema"
)

// Table names for baseline and history storage.
const (
	baselinesTable = "tracelens_baselines"
	historyTable   = "tracelens_history"
)

// StoreManagerImpl bundles the baseline and history stores over one
// shared database handle and owns the per-test-name locks.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	baseline     contract.BaselineStore
	history      contract.HistoryStore
	db           *sql.DB
	backend      schema.DatabaseBackend
	connStr      string

	lockMu    sync.Mutex
	testLocks map[string]*sync.Mutex
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// NewStoreManager opens the configured backend and initializes both
// stores over it. NoneBackend yields no-op stores.
func NewStoreManager(backend schema.DatabaseBackend, connStr string) (*StoreManagerImpl, error) {
	mgr := &StoreManagerImpl{
		backend:   backend,
		connStr:   connStr,
		testLocks: make(map[string]*sync.Mutex),
	}

	if backend == schema.NoneBackend {
		mgr.baseline = &BaselineStoreImpl{backend: backend}
		mgr.history = &HistoryStoreImpl{backend: backend}
		return mgr, nil
	}

	db, err := openStoreDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	// Create the table schemas
	for _, query := range []string{
		getCreateBaselinesQuery(backend),
		getCreateHistoryQuery(backend),
	} {
		if _, err := db.Exec(query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create store tables: %w", err)
		}
	}

	mgr.db = db
	mgr.baseline = &BaselineStoreImpl{db: db, backend: backend}
	mgr.history = &HistoryStoreImpl{db: db, backend: backend}
	return mgr, nil
}

// openStoreDB opens and pings a database handle for the given backend.
func openStoreDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetStoreDBFilePath()
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite store at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL store: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=secret dbname=postgres
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL store: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	default:
		return nil, fmt.Errorf("unsupported store backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}

// GetBaselineStore returns the baseline store. An uninitialized manager
// yields a no-op store.
func (mgr *StoreManagerImpl) GetBaselineStore() contract.BaselineStore {
	mgr.RLock()
	defer mgr.RUnlock()
	if mgr.baseline == nil {
		return &BaselineStoreImpl{backend: schema.NoneBackend}
	}
	return mgr.baseline
}

// GetHistoryStore returns the history store. An uninitialized manager
// yields a no-op store.
func (mgr *StoreManagerImpl) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	if mgr.history == nil {
		return &HistoryStoreImpl{backend: schema.NoneBackend}
	}
	return mgr.history
}

// LockTest acquires the mutex for a test name, creating it on first use,
// and returns the unlock function. Runs for different test names are
// fully independent.
func (mgr *StoreManagerImpl) LockTest(testName string) func() {
	mgr.lockMu.Lock()
	if mgr.testLocks == nil {
		mgr.testLocks = make(map[string]*sync.Mutex)
	}
	mu, ok := mgr.testLocks[testName]
	if !ok {
		mu = &sync.Mutex{}
		mgr.testLocks[testName] = mu
	}
	mgr.lockMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// Close closes the shared database handle.
func (mgr *StoreManagerImpl) Close() error {
	if mgr.db != nil {
		return mgr.db.Close()
	}
	return nil
}

// getPlaceholders returns backend-specific parameter placeholders for
// the first n positions.
func getPlaceholders(backend schema.DatabaseBackend, n int) []string {
	out := make([]string, n)
	for i := range n {
		if backend == schema.PostgreSQLBackend {
			out[i] = fmt.Sprintf("$%d", i+1)
		} else {
			out[i] = "?"
		}
	}
	return out
}
