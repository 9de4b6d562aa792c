// Package dbtest provides an in-memory stand-in for db.Transactor.
package dbtest

import "context"

// Snapshotter is an in-memory store that can capture its state and restore it later.
type Snapshotter interface {
	Snapshot() (restore func())
}

type txKey struct{}

// Transactor emulates transactions over in-memory stores: the stores are
// snapshotted when the outermost InTx starts and restored if fn fails.
type Transactor struct {
	Stores []Snapshotter

	Commits   int
	Rollbacks int
}

// NewTransactor creates a Transactor guarding the given stores.
func NewTransactor(stores ...Snapshotter) *Transactor {
	return &Transactor{Stores: stores}
}

func (t *Transactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	restores := make([]func(), 0, len(t.Stores))
	for _, s := range t.Stores {
		restores = append(restores, s.Snapshot())
	}

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		for _, restore := range restores {
			restore()
		}
		t.Rollbacks++
		return err
	}
	t.Commits++
	return nil
}
