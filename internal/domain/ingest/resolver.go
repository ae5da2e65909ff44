package ingest

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
)

// LegacyCustomer cliente de clientes.csv con su ID nativo.
type LegacyCustomer struct {
	NativeID string
	Customer entity.Customer
}

// LegacyInvoice factura de facturas.csv. OwnerNativeID es el ID_Cliente inferido desde
// transacciones.csv ("" si ninguna transacción la referencia). Invoice es nil si no hay fecha.
type LegacyInvoice struct {
	NativeID      string
	OwnerNativeID string
	Invoice       *entity.Invoice
}

// LegacyTransaction transacción de transacciones.csv con sus referencias nativas.
type LegacyTransaction struct {
	NativeInvoiceID  string
	NativeCustomerID string
	PlatformName     string
	Completed        bool
	Transaction      entity.Transaction
}

// OwnerConflict una factura referenciada por transacciones de clientes distintos.
// Se conserva el primero (Chosen); Other es el cliente descartado.
type OwnerConflict struct {
	InvoiceID string
	Chosen    string
	Other     string
}

func (c OwnerConflict) String() string {
	return fmt.Sprintf("factura %s: cliente %s (elegido) vs %s", c.InvoiceID, c.Chosen, c.Other)
}

// LegacyPlan las tres exportaciones heredadas indexadas y enlazadas, listas para el upsert
// en orden clientes -> facturas -> transacciones.
type LegacyPlan struct {
	Customers    []LegacyCustomer
	Invoices     []LegacyInvoice
	Transactions []LegacyTransaction
	Conflicts    []OwnerConflict
	// Skipped filas descartadas por no tener su ID nativo.
	Skipped int
}

// BuildLegacyPlan indexa clientes y facturas por su ID nativo y asigna a cada factura el cliente
// de la primera transacción (en orden de archivo) que la menciona con un ID_Cliente no vacío.
// IDs repetidos conservan la posición de su primera aparición y el contenido de la última.
func BuildLegacyPlan(customers, invoices, transactions []Record) *LegacyPlan {
	plan := &LegacyPlan{}

	custPos := make(map[string]int, len(customers))
	for _, r := range customers {
		id := r.First(legacyCustomerIDAliases)
		if id == "" {
			plan.Skipped++
			continue
		}
		c := LegacyCustomer{NativeID: id, Customer: customerFrom(r, id)}
		if i, ok := custPos[id]; ok {
			plan.Customers[i] = c
			continue
		}
		custPos[id] = len(plan.Customers)
		plan.Customers = append(plan.Customers, c)
	}

	owners := make(map[string]string)
	seenConflict := make(map[OwnerConflict]bool)
	for _, r := range transactions {
		inv := r.First(legacyTxInvoiceAliases)
		cust := r.First(legacyTxCustomerAliases)
		if inv == "" || cust == "" {
			continue
		}
		chosen, ok := owners[inv]
		if !ok {
			owners[inv] = cust
			continue
		}
		if chosen != cust {
			c := OwnerConflict{InvoiceID: inv, Chosen: chosen, Other: cust}
			if !seenConflict[c] {
				seenConflict[c] = true
				plan.Conflicts = append(plan.Conflicts, c)
			}
		}
	}

	invPos := make(map[string]int, len(invoices))
	for _, r := range invoices {
		id := r.First(legacyInvoiceIDAliases)
		if id == "" {
			plan.Skipped++
			continue
		}
		li := LegacyInvoice{NativeID: id, OwnerNativeID: owners[id]}
		if issue, due, ok := invoiceDates(r); ok {
			total, hasTotal := ParseAmount(r.First(legacyInvoiceTotal))
			if !hasTotal {
				total = decimal.Zero
			}
			li.Invoice = &entity.Invoice{
				InvoiceNumber: id,
				IssueDate:     issue,
				DueDate:       due,
				TotalAmount:   total,
			}
		}
		if i, ok := invPos[id]; ok {
			plan.Invoices[i] = li
			continue
		}
		invPos[id] = len(plan.Invoices)
		plan.Invoices = append(plan.Invoices, li)
	}

	for _, r := range transactions {
		ref := r.First(legacyTxRefAliases)
		if ref == "" {
			plan.Skipped++
			continue
		}
		plan.Transactions = append(plan.Transactions, legacyTransaction(r, ref))
	}
	return plan
}

func legacyTransaction(r Record, ref string) LegacyTransaction {
	amount, ok := ParseAmount(r.First(legacyTxAmountAliases))
	if !ok {
		amount = decimal.Zero
	}
	status := r.First(StatusAliases)
	description := fmt.Sprintf("Estado: %s; Tipo: %s", orNA(status), orNA(r.First(legacyTxTypeAliases)))
	return LegacyTransaction{
		NativeInvoiceID:  r.First(legacyTxInvoiceAliases),
		NativeCustomerID: r.First(legacyTxCustomerAliases),
		PlatformName:     PlatformName(r.First(PlatformCodeAliases)),
		Completed:        IsCompleted(status),
		Transaction: entity.Transaction{
			TransactionReference: ref,
			TransactionDate:      optionalDate(r.First(legacyTxDateAliases)),
			Amount:               amount,
			Currency:             entity.DefaultCurrency,
			Description:          &description,
		},
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// Resolver traduce IDs nativos de los CSV a IDs internos a medida que se persisten las entidades.
type Resolver struct {
	customers map[string]int64
	invoices  map[string]int64
}

// NewResolver crea un resolver vacío.
func NewResolver() *Resolver {
	return &Resolver{
		customers: make(map[string]int64),
		invoices:  make(map[string]int64),
	}
}

// BindCustomer registra el id interno de un cliente nativo.
func (r *Resolver) BindCustomer(nativeID string, id int64) { r.customers[nativeID] = id }

// BindInvoice registra el id interno de una factura nativa.
func (r *Resolver) BindInvoice(nativeID string, id int64) { r.invoices[nativeID] = id }

// OwnerOf devuelve el id interno del cliente dueño de la factura, si se pudo resolver.
func (r *Resolver) OwnerOf(inv LegacyInvoice) (int64, bool) {
	if inv.OwnerNativeID == "" {
		return 0, false
	}
	id, ok := r.customers[inv.OwnerNativeID]
	return id, ok
}

// InvoiceID devuelve el id interno de una factura creada en esta carga.
func (r *Resolver) InvoiceID(nativeID string) (int64, bool) {
	id, ok := r.invoices[nativeID]
	return id, ok
}
