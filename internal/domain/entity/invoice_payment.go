package entity

import "github.com/shopspring/decimal"

// InvoicePayment porción de una transacción asignada a una factura (único por factura+transacción).
type InvoicePayment struct {
	InvoiceID       int64
	TransactionID   int64
	AllocatedAmount decimal.Decimal
}
