package memory

import (
	"context"
	"sync"
)

type txKey struct{}

// undoLog collects compensations registered by repositories while a
// transaction function runs.
type undoLog struct {
	steps []func()
}

// Transactor serializes transaction functions and replays the undo log in
// reverse when one fails. Reads outside a transaction are not isolated from
// writes inside one.
type Transactor struct {
	mu sync.Mutex
}

func NewTransactor() *Transactor {
	return &Transactor{}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, nested := ctx.Value(txKey{}).(*undoLog); nested {
		return fn(ctx)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	log := &undoLog{}
	if err := fn(context.WithValue(ctx, txKey{}, log)); err != nil {
		for i := len(log.steps) - 1; i >= 0; i-- {
			log.steps[i]()
		}
		return err
	}
	return nil
}

// onRollback registers undo when ctx belongs to a transaction. Outside a
// transaction it does nothing.
func onRollback(ctx context.Context, undo func()) {
	if log, ok := ctx.Value(txKey{}).(*undoLog); ok {
		log.steps = append(log.steps, undo)
	}
}
