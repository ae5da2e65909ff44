package ingestion

import (
	"context"

	"github.com/jhoicas/Recaudo-api/internal/domain/ingest"
	"github.com/jhoicas/Recaudo-api/internal/domain/repository"
)

// Repos repositorios atados a la transacción de una carga.
type Repos struct {
	Customers    repository.CustomerRepository
	Invoices     repository.InvoiceRepository
	Platforms    repository.PlatformRepository
	Transactions repository.TransactionRepository
	Payments     repository.InvoicePaymentRepository
}

// TxRunner ejecuta fn dentro de una única transacción: Commit si fn retorna nil, Rollback si no.
type TxRunner interface {
	RunIngest(ctx context.Context, fn func(repos Repos) error) error
}

// SourceReader lee un archivo tabular completo a memoria.
type SourceReader interface {
	ReadFile(path string) ([]ingest.Record, error)
}
