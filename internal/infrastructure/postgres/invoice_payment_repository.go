package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/internal/domain/repository"
)

var _ repository.InvoicePaymentRepository = (*InvoicePaymentRepo)(nil)

// InvoicePaymentRepo implementación de InvoicePaymentRepository (usable con pool o tx).
type InvoicePaymentRepo struct {
	q Querier
}

// NewInvoicePaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoicePaymentRepository(q Querier) *InvoicePaymentRepo {
	return &InvoicePaymentRepo{q: q}
}

// Upsert inserta o actualiza allocated_amount por (invoice_id, transaction_id).
func (r *InvoicePaymentRepo) Upsert(ctx context.Context, p *entity.InvoicePayment) error {
	query := `
		INSERT INTO invoice_payments (invoice_id, transaction_id, allocated_amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (invoice_id, transaction_id) DO UPDATE SET
			allocated_amount = EXCLUDED.allocated_amount,
			updated_at       = now()`
	if _, err := r.q.Exec(ctx, query, p.InvoiceID, p.TransactionID, p.AllocatedAmount); err != nil {
		return fmt.Errorf("upsert invoice payment: %w", err)
	}
	return nil
}

// TransactionIDsByInvoices ids distintos de transacciones que abonan esas facturas.
func (r *InvoicePaymentRepo) TransactionIDsByInvoices(ctx context.Context, invoiceIDs []int64) ([]int64, error) {
	if len(invoiceIDs) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT DISTINCT transaction_id FROM invoice_payments WHERE invoice_id = ANY($1) ORDER BY transaction_id`,
		invoiceIDs)
	if err != nil {
		return nil, fmt.Errorf("list payment transactions: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan payment transactions: %w", err)
	}
	return ids, nil
}

// DeleteByInvoices elimina las asignaciones de esas facturas.
func (r *InvoicePaymentRepo) DeleteByInvoices(ctx context.Context, invoiceIDs []int64) error {
	if len(invoiceIDs) == 0 {
		return nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_payments WHERE invoice_id = ANY($1)`, invoiceIDs); err != nil {
		return fmt.Errorf("delete invoice payments: %w", err)
	}
	return nil
}
