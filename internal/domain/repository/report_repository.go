package repository

import (
	"context"

	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
)

// ReportRepository consultas de solo lectura sobre facturas, pagos y transacciones.
type ReportRepository interface {
	// TotalPaidByCustomer suma lo asignado a las facturas de cada cliente (0 si no tiene pagos).
	TotalPaidByCustomer(ctx context.Context) ([]entity.CustomerPaidTotal, error)
	// PendingInvoices facturas cuyo total supera lo asignado, ordenadas por saldo descendente.
	PendingInvoices(ctx context.Context) ([]entity.PendingInvoice, error)
	TransactionsByPlatform(ctx context.Context, platform string) ([]entity.PlatformTransaction, error)
}
