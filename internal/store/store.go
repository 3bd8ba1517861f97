// Package store persists the application's three logical tables — accounts,
// session pointer, and global stats — as JSON documents in a single key/value
// table. Every read-modify-write goes through Update, which holds a
// store-level lock: the store is the single writer arbiter, so concurrent
// callers (HTTP handlers and the market simulator) never lose each other's
// changes to a shared document.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emaskripto-boop/Emaskripto/utils"
)

// Fixed document keys. Each holds one JSON blob.
const (
	AccountsKey = "emaskripto_accounts_v1"
	SessionKey  = "emaskripto_session_v1"
	StatsKey    = "emaskripto_stats_v1"
)

// Document is one persisted JSON blob.
type Document struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

type Store struct {
	db     *gorm.DB
	logger *utils.Logger

	mu sync.Mutex // serializes Update; the single-writer arbiter

	subMu  sync.Mutex
	subs   map[int]chan string
	nextID int
}

func New(db *gorm.DB, logger *utils.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
		subs:   make(map[int]chan string),
	}
}

// Get reads one document into out. A missing document is (false, nil).
func (s *Store) Get(ctx context.Context, key string, out any) (bool, error) {
	return get(s.db.WithContext(ctx), key, out)
}

// Txn gives Update callbacks access to the documents inside one database
// transaction. Keys written through Set or Delete are broadcast to
// subscribers after commit.
type Txn struct {
	tx      *gorm.DB
	touched []string
}

func (t *Txn) Get(key string, out any) (bool, error) {
	return get(t.tx, key, out)
}

func (t *Txn) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", key, err)
	}

	doc := Document{Key: key, Value: string(raw), UpdatedAt: time.Now()}
	err = t.tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("failed to write document %s: %w", key, err)
	}

	t.touch(key)
	return nil
}

func (t *Txn) Delete(key string) error {
	if err := t.tx.Delete(&Document{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete document %s: %w", key, err)
	}
	t.touch(key)
	return nil
}

func (t *Txn) touch(key string) {
	for _, k := range t.touched {
		if k == key {
			return
		}
	}
	t.touched = append(t.touched, key)
}

// Update runs fn with exclusive access to the documents. All writes commit
// together; on success subscribers are notified once per touched key.
func (s *Store) Update(ctx context.Context, fn func(txn *Txn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var touched []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txn := &Txn{tx: tx}
		if err := fn(txn); err != nil {
			return err
		}
		touched = txn.touched
		return nil
	})
	if err != nil {
		return err
	}

	s.notify(touched)
	return nil
}

// Subscribe registers a change listener. The channel receives the key of each
// committed document write; the returned cancel func must be called to
// release it. Slow listeners miss notifications rather than block writers.
func (s *Store) Subscribe() (<-chan string, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan string, 16)
	s.subs[id] = ch

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (s *Store) notify(keys []string) {
	if len(keys) == 0 {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		for _, key := range keys {
			select {
			case ch <- key:
			default:
			}
		}
	}
}

func get(tx *gorm.DB, key string, out any) (bool, error) {
	var doc Document
	err := tx.First(&doc, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read document %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(doc.Value), out); err != nil {
		return false, fmt.Errorf("failed to decode document %s: %w", key, err)
	}
	return true, nil
}
