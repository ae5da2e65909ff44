package repository

import (
	"context"

	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice.
type InvoiceRepository interface {
	// Upsert inserta o actualiza por invoice_number y devuelve el id interno.
	Upsert(ctx context.Context, invoice *entity.Invoice) (int64, error)
	ListIDsByCustomer(ctx context.Context, customerID int64) ([]int64, error)
	DeleteByIDs(ctx context.Context, ids []int64) error
}
