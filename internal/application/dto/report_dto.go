package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerPaidResponse fila de GET /api/queries/total-paid-by-customer.
type CustomerPaidResponse struct {
	CustomerID     int64           `json:"customer_id"`
	DocumentNumber string          `json:"document_number"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
}

// PendingInvoiceResponse fila de GET /api/queries/pending-invoices.
type PendingInvoiceResponse struct {
	InvoiceID             int64           `json:"invoice_id"`
	InvoiceNumber         string          `json:"invoice_number"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	TotalPaid             decimal.Decimal `json:"total_paid"`
	PendingAmount         decimal.Decimal `json:"pending_amount"`
	FirstName             string          `json:"first_name"`
	LastName              string          `json:"last_name"`
	TransactionReferences []string        `json:"transaction_references"`
}

// PlatformTransactionResponse fila de GET /api/queries/transactions-by-platform.
type PlatformTransactionResponse struct {
	TransactionID        int64           `json:"transaction_id"`
	TransactionReference string          `json:"transaction_reference"`
	TransactionDate      time.Time       `json:"transaction_date"`
	Amount               decimal.Decimal `json:"amount"`
	Currency             string          `json:"currency"`
	Platform             string          `json:"platform"`
	InvoiceNumber        *string         `json:"invoice_number"`
	FirstName            *string         `json:"first_name"`
	LastName             *string         `json:"last_name"`
}
