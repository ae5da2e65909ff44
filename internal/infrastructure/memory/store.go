// Package memory implementa los puertos de persistencia en memoria. Lo usan las cargas en modo
// simulación (`loader csv --dry-run`) y los tests de los casos de uso.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Recaudo-api/internal/application/customers"
	"github.com/jhoicas/Recaudo-api/internal/application/ingestion"
	"github.com/jhoicas/Recaudo-api/internal/domain"
	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/internal/domain/repository"
)

var (
	_ ingestion.TxRunner = (*Store)(nil)
	_ customers.TxRunner = (*Store)(nil)
)

// ErrForeignKey equivalente en memoria de una violación de llave foránea.
var ErrForeignKey = errors.New("violación de llave foránea")

// ErrValueTooLong equivalente en memoria de un valor que excede el largo de la columna.
var ErrValueTooLong = errors.New("valor demasiado largo para la columna")

type paymentKey struct{ invoiceID, transactionID int64 }

type state struct {
	seq          int64
	customers    map[int64]entity.Customer
	custByDoc    map[string]int64
	invoices     map[int64]entity.Invoice
	invByNumber  map[string]int64
	platforms    map[int64]string
	platByName   map[string]int64
	transactions map[int64]entity.Transaction
	txByRef      map[string]int64
	payments     map[paymentKey]decimal.Decimal
}

func newState() state {
	return state{
		customers:    make(map[int64]entity.Customer),
		custByDoc:    make(map[string]int64),
		invoices:     make(map[int64]entity.Invoice),
		invByNumber:  make(map[string]int64),
		platforms:    make(map[int64]string),
		platByName:   make(map[string]int64),
		transactions: make(map[int64]entity.Transaction),
		txByRef:      make(map[string]int64),
		payments:     make(map[paymentKey]decimal.Decimal),
	}
}

func (s state) clone() state {
	c := newState()
	c.seq = s.seq
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.custByDoc {
		c.custByDoc[k] = v
	}
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	for k, v := range s.invByNumber {
		c.invByNumber[k] = v
	}
	for k, v := range s.platforms {
		c.platforms[k] = v
	}
	for k, v := range s.platByName {
		c.platByName[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	for k, v := range s.txByRef {
		c.txByRef[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	return c
}

// Store almacén en memoria con semántica de transacción (snapshot + restauración en error).
type Store struct {
	txMu sync.Mutex // serializa transacciones
	mu   sync.Mutex
	st   state
	now  func() time.Time

	// failOn operación -> error a devolver (inyección de fallos en tests).
	failOn map[string]error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState(), now: time.Now, failOn: make(map[string]error)}
}

// FailOn hace que la operación indicada (p. ej. "transactions.upsert") devuelva err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn[op] = err
}

func (s *Store) injected(op string) error {
	return s.failOn[op]
}

// Repos devuelve los repositorios de ingesta sobre este almacén.
func (s *Store) Repos() ingestion.Repos {
	return ingestion.Repos{
		Customers:    &CustomerRepo{s: s},
		Invoices:     &InvoiceRepo{s: s},
		Platforms:    &PlatformRepo{s: s},
		Transactions: &TransactionRepo{s: s},
		Payments:     &PaymentRepo{s: s},
	}
}

// CustomerRepository devuelve el repositorio de clientes.
func (s *Store) CustomerRepository() repository.CustomerRepository { return &CustomerRepo{s: s} }

func (s *Store) run(fn func() error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// RunIngest ejecuta fn como una transacción: si fn falla, el almacén vuelve al estado previo.
func (s *Store) RunIngest(_ context.Context, fn func(repos ingestion.Repos) error) error {
	return s.run(func() error { return fn(s.Repos()) })
}

// RunCustomerDelete ejecuta fn como una transacción para el borrado en cascada de un cliente.
func (s *Store) RunCustomerDelete(_ context.Context, fn func(repos customers.CascadeRepos) error) error {
	return s.run(func() error {
		return fn(customers.CascadeRepos{
			Customers:    &CustomerRepo{s: s},
			Invoices:     &InvoiceRepo{s: s},
			Transactions: &TransactionRepo{s: s},
			Payments:     &PaymentRepo{s: s},
		})
	})
}

// Counts número de filas por tabla.
type Counts struct {
	Customers       int `json:"customers"`
	Invoices        int `json:"invoices"`
	Platforms       int `json:"platforms"`
	Transactions    int `json:"transactions"`
	InvoicePayments int `json:"invoicePayments"`
}

// Counts devuelve el número de filas de cada tabla.
func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Counts{
		Customers:       len(s.st.customers),
		Invoices:        len(s.st.invoices),
		Platforms:       len(s.st.platforms),
		Transactions:    len(s.st.transactions),
		InvoicePayments: len(s.st.payments),
	}
}

// CustomerByDocument busca un cliente por documento.
func (s *Store) CustomerByDocument(doc string) (entity.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.st.custByDoc[doc]
	if !ok {
		return entity.Customer{}, false
	}
	return s.st.customers[id], true
}

// InvoiceByNumber busca una factura por número.
func (s *Store) InvoiceByNumber(number string) (entity.Invoice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.st.invByNumber[number]
	if !ok {
		return entity.Invoice{}, false
	}
	return s.st.invoices[id], true
}

// TransactionByReference busca una transacción por referencia.
func (s *Store) TransactionByReference(ref string) (entity.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.st.txByRef[ref]
	if !ok {
		return entity.Transaction{}, false
	}
	return s.st.transactions[id], true
}

// PlatformName nombre de una plataforma por id.
func (s *Store) PlatformName(id int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.platforms[id]
}

// Allocation monto asignado a (factura, transacción), si existe.
func (s *Store) Allocation(invoiceID, transactionID int64) (decimal.Decimal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.st.payments[paymentKey{invoiceID, transactionID}]
	return v, ok
}

// CustomerRepo implementación en memoria de repository.CustomerRepository.
type CustomerRepo struct{ s *Store }

// Upsert inserta o actualiza por document_number.
func (r *CustomerRepo) Upsert(_ context.Context, c *entity.Customer) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("customers.upsert"); err != nil {
		return 0, err
	}
	now := s.now()
	if id, ok := s.st.custByDoc[c.DocumentNumber]; ok {
		cur := s.st.customers[id]
		cur.FirstName, cur.LastName, cur.Email, cur.Phone = c.FirstName, c.LastName, c.Email, c.Phone
		cur.UpdatedAt = now
		s.st.customers[id] = cur
		return id, nil
	}
	s.st.seq++
	row := *c
	row.ID, row.CreatedAt, row.UpdatedAt = s.st.seq, now, now
	s.st.customers[row.ID] = row
	s.st.custByDoc[row.DocumentNumber] = row.ID
	return row.ID, nil
}

// Create inserta un cliente nuevo.
func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.custByDoc[c.DocumentNumber]; ok {
		return domain.ErrDuplicate
	}
	now := s.now()
	s.st.seq++
	c.ID, c.CreatedAt, c.UpdatedAt = s.st.seq, now, now
	s.st.customers[c.ID] = *c
	s.st.custByDoc[c.DocumentNumber] = c.ID
	return nil
}

// GetByID devuelve nil, nil si no existe.
func (r *CustomerRepo) GetByID(_ context.Context, id int64) (*entity.Customer, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.st.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// List devuelve los clientes por id descendente.
func (r *CustomerRepo) List(_ context.Context) ([]*entity.Customer, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Customer, 0, len(s.st.customers))
	for _, c := range s.st.customers {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// Update reescribe los campos editables.
func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.st.customers[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if other, ok := s.st.custByDoc[c.DocumentNumber]; ok && other != c.ID {
		return domain.ErrDuplicate
	}
	delete(s.st.custByDoc, cur.DocumentNumber)
	row := *c
	row.CreatedAt, row.UpdatedAt = cur.CreatedAt, s.now()
	s.st.customers[c.ID] = row
	s.st.custByDoc[row.DocumentNumber] = row.ID
	return nil
}

// Delete elimina un cliente; falla si aún tiene facturas.
func (r *CustomerRepo) Delete(_ context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.st.invoices {
		if inv.CustomerID == id {
			return fmt.Errorf("delete customer %d: %w", id, ErrForeignKey)
		}
	}
	if c, ok := s.st.customers[id]; ok {
		delete(s.st.custByDoc, c.DocumentNumber)
		delete(s.st.customers, id)
	}
	return nil
}

// InvoiceRepo implementación en memoria de repository.InvoiceRepository.
type InvoiceRepo struct{ s *Store }

// Upsert inserta o actualiza por invoice_number; exige que el cliente exista.
func (r *InvoiceRepo) Upsert(_ context.Context, inv *entity.Invoice) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("invoices.upsert"); err != nil {
		return 0, err
	}
	if _, ok := s.st.customers[inv.CustomerID]; !ok {
		return 0, fmt.Errorf("invoice %s -> customer %d: %w", inv.InvoiceNumber, inv.CustomerID, ErrForeignKey)
	}
	now := s.now()
	if id, ok := s.st.invByNumber[inv.InvoiceNumber]; ok {
		cur := s.st.invoices[id]
		cur.CustomerID, cur.IssueDate, cur.DueDate, cur.TotalAmount = inv.CustomerID, inv.IssueDate, inv.DueDate, inv.TotalAmount
		cur.UpdatedAt = now
		s.st.invoices[id] = cur
		return id, nil
	}
	s.st.seq++
	row := *inv
	row.ID, row.CreatedAt, row.UpdatedAt = s.st.seq, now, now
	s.st.invoices[row.ID] = row
	s.st.invByNumber[row.InvoiceNumber] = row.ID
	return row.ID, nil
}

// ListIDsByCustomer ids de facturas del cliente, ascendentes.
func (r *InvoiceRepo) ListIDsByCustomer(_ context.Context, customerID int64) ([]int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for id, inv := range s.st.invoices {
		if inv.CustomerID == customerID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// DeleteByIDs elimina facturas; falla si alguna aún tiene asignaciones.
func (r *InvoiceRepo) DeleteByIDs(_ context.Context, ids []int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		for k := range s.st.payments {
			if k.invoiceID == id {
				return fmt.Errorf("delete invoice %d: %w", id, ErrForeignKey)
			}
		}
	}
	for _, id := range ids {
		if inv, ok := s.st.invoices[id]; ok {
			delete(s.st.invByNumber, inv.InvoiceNumber)
			delete(s.st.invoices, id)
		}
	}
	return nil
}

// PlatformRepo implementación en memoria de repository.PlatformRepository.
type PlatformRepo struct{ s *Store }

// Upsert devuelve el id de la plataforma, creándola si no existe.
func (r *PlatformRepo) Upsert(_ context.Context, name string) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("platforms.upsert"); err != nil {
		return 0, err
	}
	if id, ok := s.st.platByName[name]; ok {
		return id, nil
	}
	s.st.seq++
	s.st.platforms[s.st.seq] = name
	s.st.platByName[name] = s.st.seq
	return s.st.seq, nil
}

// TransactionRepo implementación en memoria de repository.TransactionRepository.
type TransactionRepo struct{ s *Store }

// Upsert inserta o actualiza por transaction_reference. Sin fecha: now() al insertar y se conserva
// la almacenada al actualizar.
func (r *TransactionRepo) Upsert(_ context.Context, tx *entity.Transaction) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("transactions.upsert"); err != nil {
		return 0, err
	}
	if _, ok := s.st.platforms[tx.PlatformID]; !ok {
		return 0, fmt.Errorf("transaction %s -> platform %d: %w", tx.TransactionReference, tx.PlatformID, ErrForeignKey)
	}
	if len(tx.Currency) > 3 {
		return 0, fmt.Errorf("transaction %s: moneda %q: %w", tx.TransactionReference, tx.Currency, ErrValueTooLong)
	}
	now := s.now()
	if id, ok := s.st.txByRef[tx.TransactionReference]; ok {
		cur := s.st.transactions[id]
		cur.PlatformID, cur.Amount, cur.Currency, cur.Description = tx.PlatformID, tx.Amount, tx.Currency, tx.Description
		if tx.TransactionDate != nil {
			cur.TransactionDate = tx.TransactionDate
		}
		cur.UpdatedAt = now
		s.st.transactions[id] = cur
		return id, nil
	}
	s.st.seq++
	row := *tx
	if row.TransactionDate == nil {
		d := now
		row.TransactionDate = &d
	}
	row.ID, row.CreatedAt, row.UpdatedAt = s.st.seq, now, now
	s.st.transactions[row.ID] = row
	s.st.txByRef[row.TransactionReference] = row.ID
	return row.ID, nil
}

// DeleteOrphans elimina, de entre ids, las transacciones sin asignaciones.
func (r *TransactionRepo) DeleteOrphans(_ context.Context, ids []int64) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	allocated := make(map[int64]bool)
	for k := range s.st.payments {
		allocated[k.transactionID] = true
	}
	var n int64
	for _, id := range ids {
		tx, ok := s.st.transactions[id]
		if !ok || allocated[id] {
			continue
		}
		delete(s.st.txByRef, tx.TransactionReference)
		delete(s.st.transactions, id)
		n++
	}
	return n, nil
}

// PaymentRepo implementación en memoria de repository.InvoicePaymentRepository.
type PaymentRepo struct{ s *Store }

// Upsert inserta o actualiza la asignación (factura, transacción).
func (r *PaymentRepo) Upsert(_ context.Context, p *entity.InvoicePayment) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("payments.upsert"); err != nil {
		return err
	}
	if _, ok := s.st.invoices[p.InvoiceID]; !ok {
		return fmt.Errorf("payment -> invoice %d: %w", p.InvoiceID, ErrForeignKey)
	}
	if _, ok := s.st.transactions[p.TransactionID]; !ok {
		return fmt.Errorf("payment -> transaction %d: %w", p.TransactionID, ErrForeignKey)
	}
	s.st.payments[paymentKey{p.InvoiceID, p.TransactionID}] = p.AllocatedAmount
	return nil
}

// TransactionIDsByInvoices ids distintos de transacciones que abonan esas facturas.
func (r *PaymentRepo) TransactionIDsByInvoices(_ context.Context, invoiceIDs []int64) ([]int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	want := make(map[int64]bool, len(invoiceIDs))
	for _, id := range invoiceIDs {
		want[id] = true
	}
	seen := make(map[int64]bool)
	var ids []int64
	for k := range s.st.payments {
		if want[k.invoiceID] && !seen[k.transactionID] {
			seen[k.transactionID] = true
			ids = append(ids, k.transactionID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// DeleteByInvoices elimina las asignaciones de esas facturas.
func (r *PaymentRepo) DeleteByInvoices(_ context.Context, invoiceIDs []int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	want := make(map[int64]bool, len(invoiceIDs))
	for _, id := range invoiceIDs {
		want[id] = true
	}
	for k := range s.st.payments {
		if want[k.invoiceID] {
			delete(s.st.payments, k)
		}
	}
	return nil
}
