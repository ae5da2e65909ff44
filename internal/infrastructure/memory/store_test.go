package memory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/internal/infrastructure/memory"
)

// La columna currency es VARCHAR(3): el almacén en memoria rechaza lo mismo que PostgreSQL.
func TestTransactionRepo_MonedaExcedeColumna(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	r := store.Repos()

	p, err := r.Platforms.Upsert(ctx, entity.PlatformNequi)
	require.NoError(t, err)
	_, err = r.Transactions.Upsert(ctx, &entity.Transaction{PlatformID: p, TransactionReference: "T1", Amount: decimal.NewFromInt(10), Currency: "PESOS"})
	assert.ErrorIs(t, err, memory.ErrValueTooLong)
	assert.Equal(t, 0, store.Counts().Transactions)

	_, err = r.Transactions.Upsert(ctx, &entity.Transaction{PlatformID: p, TransactionReference: "T1", Amount: decimal.NewFromInt(10), Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Counts().Transactions)
}
