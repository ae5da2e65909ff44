package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Upsert inserta o actualiza por invoice_number. Un customer_id inexistente viola la FK y aborta la carga.
func (r *InvoiceRepo) Upsert(ctx context.Context, inv *entity.Invoice) (int64, error) {
	query := `
		INSERT INTO invoices (customer_id, invoice_number, issue_date, due_date, total_amount)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (invoice_number) DO UPDATE SET
			customer_id  = EXCLUDED.customer_id,
			issue_date   = EXCLUDED.issue_date,
			due_date     = EXCLUDED.due_date,
			total_amount = EXCLUDED.total_amount,
			updated_at   = now()
		RETURNING id`
	var id int64
	err := r.q.QueryRow(ctx, query,
		inv.CustomerID, inv.InvoiceNumber, inv.IssueDate, inv.DueDate, inv.TotalAmount,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert invoice: %w", err)
	}
	return id, nil
}

// ListIDsByCustomer ids de las facturas del cliente.
func (r *InvoiceRepo) ListIDsByCustomer(ctx context.Context, customerID int64) ([]int64, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM invoices WHERE customer_id = $1 ORDER BY id`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list invoice ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan invoice ids: %w", err)
	}
	return ids, nil
}

// DeleteByIDs elimina las facturas indicadas.
func (r *InvoiceRepo) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("delete invoices: %w", err)
	}
	return nil
}
