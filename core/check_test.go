package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tracelens/tracelens/internal/iostore"
	"github.com/tracelens/tracelens/schema"
)

// swapManager installs a mock store manager for the duration of a test.
func swapManager(t *testing.T, m *iostore.MockStoreManager) {
	t.Helper()
	prev := iostore.Manager
	iostore.Manager = m
	t.Cleanup(func() { iostore.Manager = prev })
}

func TestCompareAndReplaceBaselineFirstRun(t *testing.T) {
	current := snapshotWithScore("checkout", 88, nil)

	store := &iostore.MockBaselineStore{}
	store.On("Get", "checkout").Return(nil, time.Time{}, iostore.ErrNoBaseline)
	store.On("Put", "checkout", mock.Anything, current.Timestamp).Return(nil)

	manager := &iostore.MockStoreManager{}
	manager.On("LockTest", "checkout").Return(func() {})
	manager.On("GetBaselineStore").Return(store)
	swapManager(t, manager)

	report := compareAndReplaceBaseline("checkout", current)
	assert.Equal(t, schema.NoBaselineRegression, report.Status)
	assert.False(t, report.IsRegression)
	store.AssertExpectations(t)
	manager.AssertExpectations(t)
}

func TestCompareAndReplaceBaselineRegression(t *testing.T) {
	storedAt := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	baseline := snapshotWithScore("checkout", 90, nil)
	payload, err := json.Marshal(baseline)
	require.NoError(t, err)

	current := snapshotWithScore("checkout", 70, nil)

	store := &iostore.MockBaselineStore{}
	store.On("Get", "checkout").Return(payload, storedAt, nil)
	store.On("Put", "checkout", mock.Anything, current.Timestamp).Return(nil)

	manager := &iostore.MockStoreManager{}
	manager.On("LockTest", "checkout").Return(func() {})
	manager.On("GetBaselineStore").Return(store)
	swapManager(t, manager)

	report := compareAndReplaceBaseline("checkout", current)
	assert.Equal(t, schema.FoundRegression, report.Status)
	assert.True(t, report.IsRegression)
	assert.InDelta(t, -20.0, report.ScoreDiff, 1e-9)
	assert.Equal(t, storedAt, report.BaselineTime)
	store.AssertExpectations(t)
}

func TestCompareAndReplaceBaselineReadFailure(t *testing.T) {
	current := snapshotWithScore("checkout", 50, nil)

	store := &iostore.MockBaselineStore{}
	store.On("Get", "checkout").Return(nil, time.Time{}, errors.New("disk on fire"))

	manager := &iostore.MockStoreManager{}
	manager.On("LockTest", "checkout").Return(func() {})
	manager.On("GetBaselineStore").Return(store)
	swapManager(t, manager)

	report := compareAndReplaceBaseline("checkout", current)
	assert.Equal(t, schema.UnknownRegression, report.Status)
	assert.False(t, report.IsRegression)
	// The baseline must not be replaced when its state is unknown.
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompareAndReplaceBaselineUndecodable(t *testing.T) {
	current := snapshotWithScore("checkout", 50, nil)

	store := &iostore.MockBaselineStore{}
	store.On("Get", "checkout").Return([]byte("{not json"), time.Now(), nil)

	manager := &iostore.MockStoreManager{}
	manager.On("LockTest", "checkout").Return(func() {})
	manager.On("GetBaselineStore").Return(store)
	swapManager(t, manager)

	report := compareAndReplaceBaseline("checkout", current)
	assert.Equal(t, schema.UnknownRegression, report.Status)
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompareAndReplaceBaselinePutFailureKeepsVerdict(t *testing.T) {
	baseline := snapshotWithScore("checkout", 80, nil)
	payload, err := json.Marshal(baseline)
	require.NoError(t, err)

	current := snapshotWithScore("checkout", 79, nil)

	store := &iostore.MockBaselineStore{}
	store.On("Get", "checkout").Return(payload, time.Now(), nil)
	store.On("Put", "checkout", mock.Anything, current.Timestamp).Return(errors.New("readonly fs"))

	manager := &iostore.MockStoreManager{}
	manager.On("LockTest", "checkout").Return(func() {})
	manager.On("GetBaselineStore").Return(store)
	swapManager(t, manager)

	report := compareAndReplaceBaseline("checkout", current)
	assert.Equal(t, schema.OKRegression, report.Status)
	store.AssertExpectations(t)
}
