package repository

import "errors"

var ErrMockStore = errors.New("mock store failure")

// MockStore is an in-memory Store that can be told to fail and that counts
// the calls it receives.
type MockStore struct {
	Data map[string]string

	ForceGetError    bool
	ForceSetError    bool
	ForceDeleteError bool

	GetCalls    int
	SetCalls    int
	DeleteCalls int
}

func NewMockStore() *MockStore {
	return &MockStore{
		Data: make(map[string]string),
	}
}

func (m *MockStore) Get(key string) (string, bool, error) {
	m.GetCalls++
	if m.ForceGetError {
		return "", false, ErrMockStore
	}
	val, ok := m.Data[key]
	return val, ok, nil
}

func (m *MockStore) Set(key string, value string) error {
	m.SetCalls++
	if m.ForceSetError {
		return ErrMockStore
	}
	m.Data[key] = value
	return nil
}

func (m *MockStore) Delete(key string) error {
	m.DeleteCalls++
	if m.ForceDeleteError {
		return ErrMockStore
	}
	delete(m.Data, key)
	return nil
}

func (m *MockStore) Close() error {
	return nil
}
