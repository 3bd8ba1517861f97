package repository

import (
	"context"

	"github.com/emaskripto-boop/Emaskripto/internal/store"
	"github.com/emaskripto-boop/Emaskripto/utils"
)

type Repository struct {
	store  *store.Store
	logger *utils.Logger
}

func New(store *store.Store, logger *utils.Logger) *Repository {
	return &Repository{store: store, logger: logger}
}

// Tx exposes the three logical tables inside one serialized store update.
type Tx struct {
	txn *store.Txn
}

// Update runs fn against the store's writer arbiter. Everything fn touches
// commits together, so cross-table operations (register, moderation) cannot
// partially apply.
func (r *Repository) Update(ctx context.Context, fn func(tx *Tx) error) error {
	return r.store.Update(ctx, func(txn *store.Txn) error {
		return fn(&Tx{txn: txn})
	})
}
