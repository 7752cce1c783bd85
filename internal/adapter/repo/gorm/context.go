package gormrepo

import (
	"context"

	"gorm.io/gorm"
)

type txKeyType struct{}

func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKeyType{}, tx)
}

// dbFrom returns the transaction bound to ctx, or base scoped to ctx.
func dbFrom(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKeyType{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return base.WithContext(ctx)
}
