package customers

import (
	"context"

	"github.com/jhoicas/Recaudo-api/internal/domain/repository"
)

// CascadeRepos repositorios atados a la transacción del borrado en cascada.
type CascadeRepos struct {
	Customers    repository.CustomerRepository
	Invoices     repository.InvoiceRepository
	Transactions repository.TransactionRepository
	Payments     repository.InvoicePaymentRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn retorna nil, Rollback si no.
type TxRunner interface {
	RunCustomerDelete(ctx context.Context, fn func(repos CascadeRepos) error) error
}
