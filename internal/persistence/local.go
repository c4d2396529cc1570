package persistence

import (
	"sync"

	"bookkeeping/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LocalStore is a durable string-keyed store holding serialized values.
type LocalStore interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
}

// KVStore keeps the keys in the kv_entries table of the local database.
type KVStore struct {
	db *gorm.DB
}

func NewKVStore(db *gorm.DB) *KVStore {
	return &KVStore{db: db}
}

// Get returns false when the key is absent or cannot be read.
func (s *KVStore) Get(key string) ([]byte, bool) {
	var entry models.KVEntry
	if err := s.db.Where(&models.KVEntry{Key: key}).First(&entry).Error; err != nil {
		return nil, false
	}
	return []byte(entry.Value), true
}

func (s *KVStore) Set(key string, value []byte) error {
	entry := models.KVEntry{Key: key, Value: string(value)}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// MemoryStore is a LocalStore that lives only as long as the process.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return append([]byte(nil), v...), ok
}

func (m *MemoryStore) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}
