package repository

import (
	"context"

	"github.com/emaskripto-boop/Emaskripto/internal/store"
)

// GetSession returns the username the session pointer references, or "".
func (r *Repository) GetSession(ctx context.Context) (string, error) {
	var username string
	if _, err := r.store.Get(ctx, store.SessionKey, &username); err != nil {
		return "", err
	}
	return username, nil
}

func (t *Tx) Session() (string, error) {
	var username string
	if _, err := t.txn.Get(store.SessionKey, &username); err != nil {
		return "", err
	}
	return username, nil
}

func (t *Tx) SetSession(username string) error {
	return t.txn.Set(store.SessionKey, username)
}

func (t *Tx) ClearSession() error {
	return t.txn.Delete(store.SessionKey)
}
