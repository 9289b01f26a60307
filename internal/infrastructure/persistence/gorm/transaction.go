package gorm

import (
	"context"

	"github.com/bonpetite/planner/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type txKey struct{}

// TransactionManager runs units of work inside a single database
// transaction, carried through the context so repositories join it
// transparently.
type TransactionManager struct {
	db *gorm.DB
}

// NewTransactionManager creates a new transaction manager.
func NewTransactionManager(db *gorm.DB) outbound.TransactionManager {
	return &TransactionManager{db: db}
}

// RunInTransaction executes fn within a transaction. The transaction handle
// is injected into the context; a non-nil error from fn rolls everything
// back.
func (m *TransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey{}, tx)
		return fn(txCtx)
	})
}

// dbFromContext returns the transaction bound to ctx, or the base handle
// when no transaction is in flight.
func dbFromContext(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return base.WithContext(ctx)
}

// forUpdate applies a FOR UPDATE row lock. SQLite rejects the clause and
// serializes writers on its own, so it is skipped there.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
