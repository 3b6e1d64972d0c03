package context

import (
	"context"

	"gorm.io/gorm"
)

type transactionKey struct{}

// WithTransaction returns a copy of ctx carrying tx.
func WithTransaction(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, transactionKey{}, tx)
}

// GetTransaction returns the open transaction carried by ctx, if any.
func GetTransaction(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(transactionKey{}).(*gorm.DB)
	return tx, ok && tx != nil
}
