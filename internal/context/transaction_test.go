package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTransactionRoundTrip(t *testing.T) {
	_, ok := GetTransaction(context.Background())
	assert.False(t, ok)

	tx := &gorm.DB{}
	got, ok := GetTransaction(WithTransaction(context.Background(), tx))
	assert.True(t, ok)
	assert.Same(t, tx, got)
}

func TestGetTransaction_NilTx(t *testing.T) {
	_, ok := GetTransaction(WithTransaction(context.Background(), nil))

	assert.False(t, ok)
}
