package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura sobre pagos, facturas y transacciones.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// TotalPaidByCustomer suma lo asignado a las facturas de cada cliente. Clientes sin pagos salen en 0.
func (r *ReportRepo) TotalPaidByCustomer(ctx context.Context) ([]entity.CustomerPaidTotal, error) {
	const query = `
	SELECT
	    c.id,
	    c.document_number,
	    c.first_name,
	    c.last_name,
	    COALESCE(SUM(ip.allocated_amount), 0) AS total_paid
	FROM customers c
	LEFT JOIN invoices         i  ON i.customer_id = c.id
	LEFT JOIN invoice_payments ip ON ip.invoice_id = i.id
	GROUP BY c.id
	ORDER BY total_paid DESC, c.id ASC`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("reports.TotalPaidByCustomer: %w", err)
	}
	defer rows.Close()

	var results []entity.CustomerPaidTotal
	for rows.Next() {
		var row entity.CustomerPaidTotal
		if err := rows.Scan(
			&row.CustomerID,
			&row.DocumentNumber,
			&row.FirstName,
			&row.LastName,
			&row.TotalPaid,
		); err != nil {
			return nil, fmt.Errorf("reports.TotalPaidByCustomer scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// PendingInvoices facturas con total - asignado > 0, mayor saldo primero. Las referencias de
// transacción van ordenadas por fecha.
func (r *ReportRepo) PendingInvoices(ctx context.Context) ([]entity.PendingInvoice, error) {
	const query = `
	SELECT
	    i.id,
	    i.invoice_number,
	    i.total_amount,
	    COALESCE(SUM(ip.allocated_amount), 0)                  AS total_paid,
	    i.total_amount - COALESCE(SUM(ip.allocated_amount), 0) AS pending_amount,
	    c.first_name,
	    c.last_name,
	    COALESCE(
	        array_agg(t.transaction_reference ORDER BY t.transaction_date, t.id)
	            FILTER (WHERE t.id IS NOT NULL),
	        '{}'
	    )                                                      AS transaction_references
	FROM invoices i
	JOIN customers             c  ON c.id          = i.customer_id
	LEFT JOIN invoice_payments ip ON ip.invoice_id = i.id
	LEFT JOIN transactions     t  ON t.id          = ip.transaction_id
	GROUP BY i.id, c.id
	HAVING i.total_amount - COALESCE(SUM(ip.allocated_amount), 0) > 0
	ORDER BY pending_amount DESC, i.id ASC`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("reports.PendingInvoices: %w", err)
	}
	defer rows.Close()

	var results []entity.PendingInvoice
	for rows.Next() {
		var row entity.PendingInvoice
		if err := rows.Scan(
			&row.InvoiceID,
			&row.InvoiceNumber,
			&row.TotalAmount,
			&row.TotalPaid,
			&row.PendingAmount,
			&row.FirstName,
			&row.LastName,
			&row.TransactionReferences,
		); err != nil {
			return nil, fmt.Errorf("reports.PendingInvoices scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// TransactionsByPlatform transacciones de la plataforma con su factura y cliente si tienen
// asignación; una fila por asignación.
func (r *ReportRepo) TransactionsByPlatform(ctx context.Context, platform string) ([]entity.PlatformTransaction, error) {
	const query = `
	SELECT
	    t.id,
	    t.transaction_reference,
	    t.transaction_date,
	    t.amount,
	    t.currency,
	    p.name,
	    i.invoice_number,
	    c.first_name,
	    c.last_name
	FROM transactions t
	JOIN platforms             p  ON p.id              = t.platform_id
	LEFT JOIN invoice_payments ip ON ip.transaction_id = t.id
	LEFT JOIN invoices         i  ON i.id              = ip.invoice_id
	LEFT JOIN customers        c  ON c.id              = i.customer_id
	WHERE p.name = $1
	ORDER BY t.transaction_date DESC, t.id DESC`

	rows, err := r.q.Query(ctx, query, platform)
	if err != nil {
		return nil, fmt.Errorf("reports.TransactionsByPlatform: %w", err)
	}
	defer rows.Close()

	var results []entity.PlatformTransaction
	for rows.Next() {
		var row entity.PlatformTransaction
		if err := rows.Scan(
			&row.TransactionID,
			&row.TransactionReference,
			&row.TransactionDate,
			&row.Amount,
			&row.Currency,
			&row.Platform,
			&row.InvoiceNumber,
			&row.FirstName,
			&row.LastName,
		); err != nil {
			return nil, fmt.Errorf("reports.TransactionsByPlatform scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
