package iostore

import (
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/tracelens/tracelens/internal/contract"
	"github.com/tracelens/tracelens/schema"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetBaselineStore implements the StoreManager interface.
func (m *MockStoreManager) GetBaselineStore() contract.BaselineStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.BaselineStore)
	return store
}

// GetHistoryStore implements the StoreManager interface.
func (m *MockStoreManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// LockTest implements the StoreManager interface.
func (m *MockStoreManager) LockTest(testName string) func() {
	ret := m.Called(testName)
	unlock, _ := ret.Get(0).(func())
	if unlock == nil {
		unlock = func() {}
	}
	return unlock
}

// GetStatus implements the StoreManager interface.
func (m *MockStoreManager) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the StoreManager interface.
func (m *MockStoreManager) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockBaselineStore is a mock implementation of BaselineStore for testing.
type MockBaselineStore struct {
	mock.Mock
}

var _ contract.BaselineStore = &MockBaselineStore{} // Compile-time check

// Put implements the BaselineStore interface.
func (m *MockBaselineStore) Put(testName string, payload []byte, timestamp time.Time) error {
	args := m.Called(testName, payload, timestamp)
	return args.Error(0)
}

// Get implements the BaselineStore interface.
func (m *MockBaselineStore) Get(testName string) ([]byte, time.Time, error) {
	args := m.Called(testName)
	payload, _ := args.Get(0).([]byte)
	ts, _ := args.Get(1).(time.Time)
	return payload, ts, args.Error(2)
}

// Delete implements the BaselineStore interface.
func (m *MockBaselineStore) Delete(testName string) error {
	args := m.Called(testName)
	return args.Error(0)
}

// Close implements the BaselineStore interface.
func (m *MockBaselineStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// Append implements the HistoryStore interface.
func (m *MockHistoryStore) Append(testName string, runAt time.Time, payload []byte) error {
	args := m.Called(testName, runAt, payload)
	return args.Error(0)
}

// Query implements the HistoryStore interface.
func (m *MockHistoryStore) Query(testName string, limit int) ([]contract.HistoryRow, error) {
	args := m.Called(testName, limit)
	rows, _ := args.Get(0).([]contract.HistoryRow)
	return rows, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
