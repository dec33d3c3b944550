package persistence

import (
	"context"
	"errors"
)

var errNoTransaction = errors.New("no transaction in context")

// txState is what a unit of work leaves in the context. Only the unit that
// began the transaction ends it; nested units join it.
type txState[T comparable] struct {
	tx    T
	owned bool
}

type (
	pgTxKey     struct{}
	sqliteTxKey struct{}
)

func withTx[T comparable](ctx context.Context, key any, tx T, owned bool) context.Context {
	return context.WithValue(ctx, key, txState[T]{tx: tx, owned: owned})
}

func txFrom[T comparable](ctx context.Context, key any) (txState[T], bool) {
	var none T
	state, ok := ctx.Value(key).(txState[T])
	if !ok || state.tx == none {
		return txState[T]{}, false
	}
	return state, true
}

// txUnit implements application.UnitOfWork for one transaction type.
type txUnit[T comparable] struct {
	key      any
	begin    func(ctx context.Context) (T, error)
	commit   func(ctx context.Context, tx T) error
	rollback func(ctx context.Context, tx T) error
}

// Begin starts a transaction, or joins the one already in ctx.
func (u txUnit[T]) Begin(ctx context.Context) (context.Context, error) {
	if state, ok := txFrom[T](ctx, u.key); ok {
		return withTx(ctx, u.key, state.tx, false), nil
	}
	tx, err := u.begin(ctx)
	if err != nil {
		return nil, err
	}
	return withTx(ctx, u.key, tx, true), nil
}

// Commit commits when this unit owns the transaction.
func (u txUnit[T]) Commit(ctx context.Context) error {
	return u.end(ctx, u.commit)
}

// Rollback rolls back when this unit owns the transaction.
func (u txUnit[T]) Rollback(ctx context.Context) error {
	return u.end(ctx, u.rollback)
}

func (u txUnit[T]) end(ctx context.Context, finish func(context.Context, T) error) error {
	state, ok := txFrom[T](ctx, u.key)
	if !ok {
		return errNoTransaction
	}
	if !state.owned {
		return nil
	}
	return finish(ctx, state.tx)
}
