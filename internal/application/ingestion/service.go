// Package ingestion orquesta la carga masiva de CSV: lectura completa, normalización,
// resolución de referencias y upsert de todas las entidades en una sola transacción.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Recaudo-api/internal/domain"
	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/internal/domain/ingest"
	"github.com/jhoicas/Recaudo-api/pkg/logger"
)

// Nombres fijos de las exportaciones heredadas en modo directorio.
const (
	CustomersFile    = "clientes.csv"
	InvoicesFile     = "facturas.csv"
	TransactionsFile = "transacciones.csv"
)

// Stage etapa de una carga.
type Stage string

const (
	StageNotStarted  Stage = "NotStarted"
	StageReading     Stage = "Reading"
	StageNormalizing Stage = "Normalizing"
	StageUpserting   Stage = "Upserting"
	StageCommitted   Stage = "Committed"
	StageRolledBack  Stage = "RolledBack"
)

// Summary conteo de upserts aplicados por entidad en una carga confirmada.
type Summary struct {
	BatchID         string `json:"batchId"`
	ProcessedRows   int    `json:"processedRows"`
	SkippedRows     int    `json:"skippedRows"`
	Customers       int    `json:"customers"`
	Invoices        int    `json:"invoices"`
	Transactions    int    `json:"transactions"`
	InvoicePayments int    `json:"invoicePayments"`
	OwnerConflicts  int    `json:"ownerConflicts"`
}

// Service carga CSV consolidados o el trío de exportaciones heredadas.
type Service struct {
	runner TxRunner
	reader SourceReader
	log    *logger.Logger
}

// NewService construye el orquestador.
func NewService(runner TxRunner, reader SourceReader, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{runner: runner, reader: reader, log: log}
}

// batch estado de una carga en curso.
type batch struct {
	id    string
	stage Stage
	log   *logger.Logger
}

func (s *Service) newBatch(mode, source string) *batch {
	id := uuid.NewString()
	return &batch{
		id:    id,
		stage: StageNotStarted,
		log:   s.log.Child(s.log.With().Str("batch_id", id).Str("mode", mode).Str("source", source)),
	}
}

func (b *batch) enter(stage Stage) {
	b.log.Debug().Str("from", string(b.stage)).Str("to", string(stage)).Msg("ingesta: cambio de etapa")
	b.stage = stage
}

// fail pasa a RolledBack si el error ocurrió durante el upsert y lo envuelve con la etapa.
func (b *batch) fail(err error) error {
	stage := b.stage
	if stage == StageUpserting {
		b.enter(StageRolledBack)
	}
	b.log.Error().Err(err).Str("stage", string(stage)).Msg("ingesta abortada")
	return fmt.Errorf("ingest: %s: %w", strings.ToLower(string(stage)), err)
}

func (b *batch) commit(sum *Summary) {
	b.enter(StageCommitted)
	b.log.Info().
		Int("processed_rows", sum.ProcessedRows).
		Int("skipped_rows", sum.SkippedRows).
		Int("customers", sum.Customers).
		Int("invoices", sum.Invoices).
		Int("transactions", sum.Transactions).
		Int("invoice_payments", sum.InvoicePayments).
		Msg("ingesta confirmada")
}

// LoadSingleFile carga un CSV (o XLSX) consolidado. El archivo se lee completo antes de tocar la
// base de datos; cualquier error en el upsert revierte la carga entera.
func (s *Service) LoadSingleFile(ctx context.Context, path string) (*Summary, error) {
	b := s.newBatch("single", path)

	b.enter(StageReading)
	records, err := s.read(path)
	if err != nil {
		return nil, b.fail(err)
	}

	b.enter(StageNormalizing)
	sum := &Summary{BatchID: b.id, ProcessedRows: len(records)}
	rows := make([]ingest.Row, 0, len(records))
	lines := make([]int, 0, len(records))
	for i, rec := range records {
		row, ok := ingest.NormalizeRow(rec)
		if !ok {
			sum.SkippedRows++
			continue
		}
		rows = append(rows, row)
		lines = append(lines, i+2) // +1 encabezado, +1 base 1
	}

	b.enter(StageUpserting)
	err = s.runner.RunIngest(ctx, func(repos Repos) error {
		for i := range rows {
			if err := applyRow(ctx, repos, &rows[i], sum); err != nil {
				return fmt.Errorf("fila %d: %w", lines[i], err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, b.fail(err)
	}
	b.commit(sum)
	return sum, nil
}

func applyRow(ctx context.Context, repos Repos, row *ingest.Row, sum *Summary) error {
	customerID, err := repos.Customers.Upsert(ctx, &row.Customer)
	if err != nil {
		return fmt.Errorf("cliente %s: %w", row.Customer.DocumentNumber, err)
	}
	sum.Customers++

	var invoiceID int64
	if row.Invoice != nil {
		row.Invoice.CustomerID = customerID
		if invoiceID, err = repos.Invoices.Upsert(ctx, row.Invoice); err != nil {
			return fmt.Errorf("factura %s: %w", row.Invoice.InvoiceNumber, err)
		}
		sum.Invoices++
	}

	var txID int64
	if row.Transaction != nil {
		if txID, err = upsertTransaction(ctx, repos, row.PlatformName, row.Transaction); err != nil {
			return err
		}
		sum.Transactions++
	}

	if invoiceID != 0 && txID != 0 && row.Allocated != nil {
		payment := &entity.InvoicePayment{InvoiceID: invoiceID, TransactionID: txID, AllocatedAmount: *row.Allocated}
		if err := repos.Payments.Upsert(ctx, payment); err != nil {
			return fmt.Errorf("pago %s/%s: %w", row.Invoice.InvoiceNumber, row.Transaction.TransactionReference, err)
		}
		sum.InvoicePayments++
	}
	return nil
}

func upsertTransaction(ctx context.Context, repos Repos, platform string, tx *entity.Transaction) (int64, error) {
	platformID, err := repos.Platforms.Upsert(ctx, platform)
	if err != nil {
		return 0, fmt.Errorf("plataforma %s: %w", platform, err)
	}
	tx.PlatformID = platformID
	id, err := repos.Transactions.Upsert(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("transacción %s: %w", tx.TransactionReference, err)
	}
	return id, nil
}

// LoadFromDirectory carga clientes.csv, facturas.csv y transacciones.csv del directorio, en orden
// clientes -> facturas -> transacciones/pagos. Las facturas toman su cliente de la primera
// transacción que las menciona; si hay transacciones que apuntan a otro cliente se registran
// como conflicto en el log y en el resumen, sin cambiar la elección.
func (s *Service) LoadFromDirectory(ctx context.Context, dir string) (*Summary, error) {
	b := s.newBatch("directory", dir)

	b.enter(StageReading)
	paths, err := sourcePaths(dir)
	if err != nil {
		return nil, b.fail(err)
	}
	var sources [3][]ingest.Record
	for i, p := range paths {
		if sources[i], err = s.read(p); err != nil {
			return nil, b.fail(err)
		}
	}

	b.enter(StageNormalizing)
	plan := ingest.BuildLegacyPlan(sources[0], sources[1], sources[2])
	for _, c := range plan.Conflicts {
		b.log.Warn().
			Str("invoice", c.InvoiceID).
			Str("chosen_customer", c.Chosen).
			Str("other_customer", c.Other).
			Msg("factura referenciada por clientes distintos; se conserva el primero")
	}
	sum := &Summary{
		BatchID:        b.id,
		ProcessedRows:  len(sources[0]) + len(sources[1]) + len(sources[2]),
		SkippedRows:    plan.Skipped,
		OwnerConflicts: len(plan.Conflicts),
	}

	b.enter(StageUpserting)
	err = s.runner.RunIngest(ctx, func(repos Repos) error {
		return applyPlan(ctx, repos, plan, sum)
	})
	if err != nil {
		return nil, b.fail(err)
	}
	b.commit(sum)
	return sum, nil
}

func applyPlan(ctx context.Context, repos Repos, plan *ingest.LegacyPlan, sum *Summary) error {
	resolver := ingest.NewResolver()

	for i := range plan.Customers {
		c := &plan.Customers[i]
		id, err := repos.Customers.Upsert(ctx, &c.Customer)
		if err != nil {
			return fmt.Errorf("cliente %s: %w", c.NativeID, err)
		}
		resolver.BindCustomer(c.NativeID, id)
		sum.Customers++
	}

	for _, inv := range plan.Invoices {
		customerID, ok := resolver.OwnerOf(inv)
		if !ok || inv.Invoice == nil {
			sum.SkippedRows++
			continue
		}
		inv.Invoice.CustomerID = customerID
		id, err := repos.Invoices.Upsert(ctx, inv.Invoice)
		if err != nil {
			return fmt.Errorf("factura %s: %w", inv.NativeID, err)
		}
		resolver.BindInvoice(inv.NativeID, id)
		sum.Invoices++
	}

	for i := range plan.Transactions {
		t := &plan.Transactions[i]
		txID, err := upsertTransaction(ctx, repos, t.PlatformName, &t.Transaction)
		if err != nil {
			return err
		}
		sum.Transactions++

		if !t.Completed {
			continue
		}
		invoiceID, ok := resolver.InvoiceID(t.NativeInvoiceID)
		if !ok {
			continue
		}
		payment := &entity.InvoicePayment{InvoiceID: invoiceID, TransactionID: txID, AllocatedAmount: t.Transaction.Amount}
		if err := repos.Payments.Upsert(ctx, payment); err != nil {
			return fmt.Errorf("pago %s/%s: %w", t.NativeInvoiceID, t.Transaction.TransactionReference, err)
		}
		sum.InvoicePayments++
	}
	return nil
}

func (s *Service) read(path string) ([]ingest.Record, error) {
	records, err := s.reader.ReadFile(path)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedSource) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnreadable, path, err)
	}
	return records, nil
}

func sourcePaths(dir string) ([]string, error) {
	base, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnreadable, dir, err)
	}
	var paths, missing []string
	for _, name := range []string{CustomersFile, InvoicesFile, TransactionsFile} {
		p := filepath.Join(base, name)
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, name)
		}
		paths = append(paths, p)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w en %s: %s", domain.ErrMissingSourceFile, base, strings.Join(missing, ", "))
	}
	return paths, nil
}
