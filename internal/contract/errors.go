package contract

import (
	"errors"
	"fmt"
)

// CollectionError means the ingestion collaborator is unavailable or
// missing a required capability. It is fatal to the run; no partial
// score is produced.
type CollectionError struct {
	Op  string
	Err error
}

func (e *CollectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("collection failed during %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("collection failed during %s", e.Op)
}

func (e *CollectionError) Unwrap() error { return e.Err }

// PersistenceError means a baseline or history read/write failed. The
// regression check degrades to no_baseline/unknown instead of failing
// the run; the computed score itself remains valid.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ConfigurationError means budget or weight configuration is malformed.
// It fails fast before scoring, since proceeding would silently produce
// a misleading score.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %s", e.Field, e.Reason)
}

// IsPersistence reports whether err is (or wraps) a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// IsCollection reports whether err is (or wraps) a CollectionError.
func IsCollection(err error) bool {
	var ce *CollectionError
	return errors.As(err, &ce)
}
