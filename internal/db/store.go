// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Store is an open database handle. It is created once per process by
// NewStoreFromDSN and handed to whoever needs it; there is no package-level
// instance.
type Store struct {
	bun *bun.DB
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s == nil || s.bun == nil {
		return nil
	}
	return s.bun.Close()
}

// Session is the unit of work for a single command invocation. All reads and
// writes made through one Session share a transaction.
type Session struct {
	tx bun.Tx
	db *bun.DB
}

// Session runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back when fn returns an error or panics; in every
// case the underlying connection is released before Session returns.
func (s *Store) Session(ctx context.Context, fn func(ctx context.Context, sess *Session) error) (err error) {
	tx, err := s.bun.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin session: %w", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			dbLogf("db: session rollback failed: %v", rbErr)
		} else {
			dbLogf("db: session rolled back")
		}
	}()

	if err := fn(ctx, &Session{tx: tx, db: s.bun}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", MapDBError(err))
	}
	committed = true
	return nil
}
