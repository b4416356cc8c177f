package iostore

import (
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/tracelens/tracelens/schema"
)

// GetStatus returns status information about the store backend.
func (mgr *StoreManagerImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(mgr.backend),
		Connected: mgr.db != nil,
	}

	if mgr.backend == schema.NoneBackend || mgr.db == nil {
		return status, nil
	}

	row := mgr.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", baselinesTable))
	if err := row.Scan(&status.BaselineCount); err != nil {
		return status, fmt.Errorf("failed to count baselines: %w", err)
	}

	row = mgr.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", historyTable))
	if err := row.Scan(&status.HistoryCount); err != nil {
		return status, fmt.Errorf("failed to count history entries: %w", err)
	}

	if status.HistoryCount > 0 {
		var lastNs, oldestNs int64
		row = mgr.db.QueryRow(fmt.Sprintf("SELECT MAX(run_at), MIN(run_at) FROM %s", historyTable))
		if err := row.Scan(&lastNs, &oldestNs); err != nil {
			return status, fmt.Errorf("failed to get run time range: %w", err)
		}
		status.LastRunTime = time.Unix(0, lastNs)
		status.OldestRunTime = time.Unix(0, oldestNs)
	}

	// Estimate table size (approximate)
	switch mgr.backend {
	case schema.SQLiteBackend:
		sizeQuery := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		row = mgr.db.QueryRow(sizeQuery)
		if err := row.Scan(&status.TableSizeBytes); err != nil {
			// If pragma fails, skip size
			status.TableSizeBytes = 0
		}

	case schema.MySQLBackend:
		// Fallback rough estimate if information_schema query fails
		status.TableSizeBytes = int64(status.BaselineCount+status.HistoryCount) * 1000

		cfg, err := mysql.ParseDSN(mgr.connStr)
		if err != nil || cfg.DBName == "" {
			break
		}
		sizeQuery := "SELECT COALESCE(SUM(data_length + index_length), 0) FROM information_schema.tables WHERE table_schema = ? AND table_name IN (?, ?)"
		row = mgr.db.QueryRow(sizeQuery, cfg.DBName, baselinesTable, historyTable)
		if err := row.Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = int64(status.BaselineCount+status.HistoryCount) * 1000
		}

	case schema.PostgreSQLBackend:
		sizeQuery := "SELECT pg_total_relation_size($1) + pg_total_relation_size($2)"
		row = mgr.db.QueryRow(sizeQuery, baselinesTable, historyTable)
		if err := row.Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = int64(status.BaselineCount+status.HistoryCount) * 1000
		}

	default:
		status.TableSizeBytes = int64(status.BaselineCount+status.HistoryCount) * 1000
	}

	return status, nil
}

// PrintStoreStatus prints store status information.
func PrintStoreStatus(status schema.StoreStatus) {
	fmt.Printf("Store Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Baselines: %d\n", status.BaselineCount)
	fmt.Printf("History Entries: %d\n", status.HistoryCount)
	if status.HistoryCount > 0 {
		fmt.Printf("Last Run: %s\n", status.LastRunTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Run: %s\n", status.OldestRunTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Table Size: %d bytes\n", status.TableSizeBytes)
}
