package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerPaidTotal fila del reporte "total pagado por cliente".
type CustomerPaidTotal struct {
	CustomerID     int64
	DocumentNumber string
	FirstName      string
	LastName       string
	TotalPaid      decimal.Decimal
}

// PendingInvoice factura con saldo pendiente y las referencias de las transacciones que la abonaron.
type PendingInvoice struct {
	InvoiceID             int64
	InvoiceNumber         string
	TotalAmount           decimal.Decimal
	TotalPaid             decimal.Decimal
	PendingAmount         decimal.Decimal
	FirstName             string
	LastName              string
	TransactionReferences []string
}

// PlatformTransaction transacción de una plataforma con la factura y el cliente asociados (si los hay).
type PlatformTransaction struct {
	TransactionID        int64
	TransactionReference string
	TransactionDate      time.Time
	Amount               decimal.Decimal
	Currency             string
	Platform             string
	InvoiceNumber        *string
	FirstName            *string
	LastName             *string
}
