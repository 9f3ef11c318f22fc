// Package tx carries an ambient SQL transaction through context so the audit
// outbox write can join the transaction that mutates the domain record. This
// is what makes the outbox transactional: either both the state change and its
// audit entry commit, or neither does.
package tx

import (
	"context"
	"database/sql"
)

type ctxKey struct{}

// WithTx returns a context carrying the transaction. A nil tx leaves the
// context untouched.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, tx)
}

// From reports the transaction carried by ctx, if any. Stores fall back to
// their own connection pool when none is present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(ctxKey{}).(*sql.Tx)
	return tx, ok
}
