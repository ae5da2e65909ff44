package repository

import (
	"context"

	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
)

// TransactionRepository define el puerto de persistencia para Transaction.
type TransactionRepository interface {
	// Upsert inserta o actualiza por transaction_reference y devuelve el id interno.
	Upsert(ctx context.Context, tx *entity.Transaction) (int64, error)
	// DeleteOrphans elimina, de entre ids, las transacciones sin asignaciones restantes.
	DeleteOrphans(ctx context.Context, ids []int64) (int64, error)
}
