package inmemdb

import (
	"context"
	"sync"

	"github.com/malindutharaka300/ucms-f/core/session"
)

// ItemStorage keeps items in memory only.
type ItemStorage struct {
	mutex sync.RWMutex
	table map[string]string
}

var _ session.Storage = (*ItemStorage)(nil)

func NewItemStorage() *ItemStorage {
	return &ItemStorage{table: make(map[string]string)}
}

func (st *ItemStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	st.mutex.RLock()
	defer st.mutex.RUnlock()
	v, ok := st.table[key]
	return v, ok, nil
}

func (st *ItemStorage) SetItem(_ context.Context, key, value string) error {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	st.table[key] = value
	return nil
}

func (st *ItemStorage) RemoveItem(_ context.Context, key string) error {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	delete(st.table, key)
	return nil
}

// Len is the number of stored items.
func (st *ItemStorage) Len() int {
	st.mutex.RLock()
	defer st.mutex.RUnlock()
	return len(st.table)
}
