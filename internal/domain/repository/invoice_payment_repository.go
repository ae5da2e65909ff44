package repository

import (
	"context"

	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
)

// InvoicePaymentRepository define el puerto de persistencia para las asignaciones factura-transacción.
type InvoicePaymentRepository interface {
	// Upsert inserta o actualiza allocated_amount por (invoice_id, transaction_id).
	Upsert(ctx context.Context, payment *entity.InvoicePayment) error
	// TransactionIDsByInvoices devuelve los ids distintos de transacciones que abonan esas facturas.
	TransactionIDsByInvoices(ctx context.Context, invoiceIDs []int64) ([]int64, error)
	DeleteByInvoices(ctx context.Context, invoiceIDs []int64) error
}
