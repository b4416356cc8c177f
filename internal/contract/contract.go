// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/tracelens/tracelens/schema"
)

// RecordSource defines the paging interface of the ingestion
// collaborator that recorded the raw fetch events. This allows the
// normalizer to be tested without a real capture layer.
type RecordSource interface {
	// List returns one page of raw records. A page shorter than pageSize
	// (or empty) signals the end of the sequence.
	List(ctx context.Context, pageIndex, pageSize int) ([]schema.RawRecord, error)

	// Get looks up a single raw record by URL for enrichment. Sources
	// that do not support lookup return (nil, nil).
	Get(ctx context.Context, url string) (*schema.RawRecord, error)
}

// BaselineStore defines durable storage for the latest scored run per
// test name. Put is last-write-wins and must replace atomically.
type BaselineStore interface {
	Put(testName string, payload []byte, timestamp time.Time) error
	Get(testName string) ([]byte, time.Time, error)
	Delete(testName string) error
	Close() error
}

// HistoryStore defines the append-only per-test run archive.
type HistoryStore interface {
	// Append writes a new uniquely time-stamped entry. Existing entries
	// are never overwritten.
	Append(testName string, runAt time.Time, payload []byte) error

	// Query returns up to limit most-recent payloads, newest-first.
	Query(testName string, limit int) ([]HistoryRow, error)

	Close() error
}

// HistoryRow is one raw archived run as read back from the history store.
type HistoryRow struct {
	TestName string
	RunAt    time.Time
	Payload  []byte
}

// StoreManager bundles the two persistence stores and serializes
// compare-then-store sequences per test name.
type StoreManager interface {
	GetBaselineStore() BaselineStore
	GetHistoryStore() HistoryStore

	// LockTest acquires the per-test-name lock and returns the unlock
	// function. Regression checks read the prior baseline before it is
	// overwritten, so the read-then-write must be serialized per key.
	LockTest(testName string) func()

	GetStatus() (schema.StoreStatus, error)
	Close() error
}
