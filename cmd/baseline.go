package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tracelens/tracelens/core"
	"github.com/tracelens/tracelens/internal/contract"
	"github.com/tracelens/tracelens/internal/iostore"
	"github.com/tracelens/tracelens/schema"
)

// baselineSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without a trace file.
func baselineSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize the store with the loaded config
	if err := iostore.InitStore(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// baselineSetupWrapper wraps baselineSetup to provide PreRunE for store commands.
func baselineSetupWrapper(_ *cobra.Command, _ []string) error {
	return baselineSetup()
}

// baselineCmd focused on baseline management.
//
// Note: the status, clear and migrate subcommands use minimal
// initialization (baselineSetup) instead of the full sharedSetup used by
// analysis commands. This avoids trace validation for simple store
// operations.
var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Manage stored baselines and detect regressions",
	Long: `Manage the per-test baseline snapshots used for regression detection.

Each test name keeps exactly one baseline: the latest stored scored run.
Checks compare a fresh run against it and replace it afterwards.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  store   - Score a trace and store it as the new baseline
  check   - Score a trace, compare against the baseline, replace it
  status  - Show store statistics and connection info
  clear   - Remove all stored baselines and history
  migrate - Run store schema migrations

Examples:
  # Record a known-good run
  tracelens baseline store capture.json

  # Gate a CI pipeline on regressions
  tracelens baseline check capture.json`,
}

// baselineStoreCmd stores a scored run as the new baseline.
var baselineStoreCmd = &cobra.Command{
	Use:   "store <trace-file>",
	Short: "Score a trace and store it as the baseline for its test name",
	Long: `Score a recorded page load and store the snapshot as the baseline
for its test name, replacing any prior baseline wholesale.

The run is also archived to history.

Examples:
  # Store a baseline under the trace's recorded test name
  tracelens baseline store capture.json

  # Store under an explicit test name
  tracelens baseline store capture.json --test-name checkout-flow`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBaselineStore(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot store baseline", err)
		}
	},
}

// baselineCheckCmd compares a scored run against the stored baseline.
var baselineCheckCmd = &cobra.Command{
	Use:   "check <trace-file>",
	Short: "Compare a trace against the stored baseline for CI/CD gating",
	Long: `Score a recorded page load, compare its composite score against the
stored baseline and replace the baseline with the current run.

A drop of more than 5 points is a regression and exits non-zero.
With no baseline stored, the current run becomes the baseline and the
check passes. A store failure degrades the verdict to unknown instead
of failing the run.

Examples:
  # Gate a CI pipeline
  tracelens baseline check capture.json

  # Machine-readable verdict with per-metric deltas
  tracelens baseline check capture.json --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBaselineCheck(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot check baseline", err)
		}
	},
}

// baselineStatusCmd shows store status.
var baselineStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the baseline and history store.

Displays:
- Backend type and connection status
- Number of stored baselines and archived runs
- Last and oldest archived run timestamps
- Store database size

Examples:
  # Check store status
  tracelens baseline status`,
	PreRunE: baselineSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iostore.Manager.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iostore.PrintStoreStatus(status)
	},
}

// baselineClearCmd clears all stored data.
var baselineClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored baselines and archived runs",
	Long: `Delete all baseline and history data from the configured backend.

Use this when:
- Test names were renamed or retired
- The page under test changed fundamentally
- Store may be stale or corrupted

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the store tables

Examples:
  # Clear the SQLite store (default)
  tracelens baseline clear

  # Clear a MySQL store (set connection string via env variable)
  TRACELENS_STORE_BACKEND=mysql TRACELENS_STORE_DB_CONNECT="..." tracelens baseline clear`,
	PreRunE: baselineSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ClearStore(cfg.StoreBackend, iostore.GetDBFilePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// baselineMigrateCmd runs store schema migrations.
var baselineMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run store schema migrations",
	Long: `Migrate the baseline and history store schema to a target version.

By default migrates to the latest version. Use --target-version 0 to
roll back all migrations.

Examples:
  # Migrate to the latest schema version
  tracelens baseline migrate

  # Roll everything back
  tracelens baseline migrate --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		// Migrations open their own connection, so only the config file
		// needs loading here.
		return loadConfigFile()
	},
	Run: func(_ *cobra.Command, _ []string) {
		backend := schema.DatabaseBackend(viper.GetString("store-backend"))
		connStr := viper.GetString("store-db-connect")
		targetVersion := viper.GetInt("target-version")

		if err := iostore.MigrateStore(backend, connStr, targetVersion); err != nil {
			contract.LogFatal("Failed to run store migrations", err)
		}
	},
}
