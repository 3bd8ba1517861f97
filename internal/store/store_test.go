package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/emaskripto-boop/Emaskripto/utils"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&Document{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db, utils.InitLogger("error"))
}

func TestGet_MissingDocument(t *testing.T) {
	s := newTestStore(t)

	var out []string
	found, err := s.Get(context.Background(), AccountsKey, &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Error("expected missing document")
	}
}

func TestUpdate_SetGetRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Update(ctx, func(txn *Txn) error {
		return txn.Set(StatsKey, map[string]int{"answer": 42})
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	var out map[string]int
	found, err := s.Get(ctx, StatsKey, &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found {
		t.Fatal("expected document")
	}
	if out["answer"] != 42 {
		t.Errorf("expected 42, got %d", out["answer"])
	}
}

func TestUpdate_Overwrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, v := range []string{"first", "second"} {
		v := v
		if err := s.Update(ctx, func(txn *Txn) error {
			return txn.Set(SessionKey, v)
		}); err != nil {
			t.Fatalf("update: %v", err)
		}
	}

	var out string
	if _, err := s.Get(ctx, SessionKey, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != "second" {
		t.Errorf("expected second, got %q", out)
	}
}

func TestUpdate_ErrorRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	wantErr := context.Canceled
	err := s.Update(ctx, func(txn *Txn) error {
		if err := txn.Set(SessionKey, "ghost"); err != nil {
			return err
		}
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}

	var out string
	found, err := s.Get(ctx, SessionKey, &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Error("failed update must not persist writes")
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Update(ctx, func(txn *Txn) error {
		return txn.Set(SessionKey, "alice")
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.Update(ctx, func(txn *Txn) error {
		return txn.Delete(SessionKey)
	}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var out string
	found, _ := s.Get(ctx, SessionKey, &out)
	if found {
		t.Error("expected document gone")
	}
}

func TestSubscribe_NotifiedPerTouchedKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ch, cancel := s.Subscribe()
	defer cancel()

	err := s.Update(ctx, func(txn *Txn) error {
		if err := txn.Set(StatsKey, 1); err != nil {
			return err
		}
		if err := txn.Set(StatsKey, 2); err != nil {
			return err
		}
		return txn.Set(AccountsKey, []string{})
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got := map[string]int{}
	for i := 0; i < 2; i++ {
		select {
		case key := <-ch:
			got[key]++
		default:
			t.Fatalf("expected 2 notifications, got %d", i)
		}
	}
	if got[StatsKey] != 1 || got[AccountsKey] != 1 {
		t.Errorf("expected one notification per key, got %v", got)
	}

	select {
	case key := <-ch:
		t.Errorf("unexpected extra notification %q", key)
	default:
	}
}

func TestSubscribe_CancelClosesChannel(t *testing.T) {
	s := newTestStore(t)

	ch, cancel := s.Subscribe()
	cancel()
	cancel() // second cancel is harmless

	if _, open := <-ch; open {
		t.Error("expected closed channel")
	}

	// Writers must not panic with no subscribers left.
	if err := s.Update(context.Background(), func(txn *Txn) error {
		return txn.Set(SessionKey, "x")
	}); err != nil {
		t.Fatalf("update after cancel: %v", err)
	}
}
