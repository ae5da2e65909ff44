package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Recaudo-api/internal/application/customers"
	"github.com/jhoicas/Recaudo-api/internal/application/ingestion"
)

var (
	_ ingestion.TxRunner = (*TxRunner)(nil)
	_ customers.TxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// inTx inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunIngest ejecuta una carga completa con todos los repos atados a la misma tx.
func (r *TxRunner) RunIngest(ctx context.Context, fn func(repos ingestion.Repos) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(ingestion.Repos{
			Customers:    NewCustomerRepository(tx),
			Invoices:     NewInvoiceRepository(tx),
			Platforms:    NewPlatformRepository(tx),
			Transactions: NewTransactionRepository(tx),
			Payments:     NewInvoicePaymentRepository(tx),
		})
	})
}

// RunCustomerDelete ejecuta el borrado en cascada de un cliente en una tx.
func (r *TxRunner) RunCustomerDelete(ctx context.Context, fn func(repos customers.CascadeRepos) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(customers.CascadeRepos{
			Customers:    NewCustomerRepository(tx),
			Invoices:     NewInvoiceRepository(tx),
			Transactions: NewTransactionRepository(tx),
			Payments:     NewInvoicePaymentRepository(tx),
		})
	})
}
