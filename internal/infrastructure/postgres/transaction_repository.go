package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación de TransactionRepository (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Upsert inserta o actualiza por transaction_reference. Sin fecha en la entrada se usa now() al
// insertar y se conserva la fecha guardada al actualizar, así una recarga no la mueve.
func (r *TransactionRepo) Upsert(ctx context.Context, tx *entity.Transaction) (int64, error) {
	query := `
		INSERT INTO transactions (platform_id, transaction_reference, transaction_date, amount, currency, description)
		VALUES ($1, $2, COALESCE($3::timestamptz, now()), $4, $5, $6)
		ON CONFLICT (transaction_reference) DO UPDATE SET
			platform_id      = EXCLUDED.platform_id,
			transaction_date = COALESCE($3::timestamptz, transactions.transaction_date),
			amount           = EXCLUDED.amount,
			currency         = EXCLUDED.currency,
			description      = EXCLUDED.description,
			updated_at       = now()
		RETURNING id`
	currency := tx.Currency
	if currency == "" {
		currency = entity.DefaultCurrency
	}
	var id int64
	err := r.q.QueryRow(ctx, query,
		tx.PlatformID, tx.TransactionReference, tx.TransactionDate, tx.Amount, currency, tx.Description,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert transaction: %w", err)
	}
	return id, nil
}

// DeleteOrphans elimina, de entre ids, las transacciones que ya no tienen asignaciones.
func (r *TransactionRepo) DeleteOrphans(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `
		DELETE FROM transactions t
		WHERE t.id = ANY($1)
		  AND NOT EXISTS (SELECT 1 FROM invoice_payments ip WHERE ip.transaction_id = t.id)`
	tag, err := r.q.Exec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("delete orphan transactions: %w", err)
	}
	return tag.RowsAffected(), nil
}
