package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice factura de un cliente, identificada por invoice_number.
// IssueDate es obligatoria; DueDate es opcional.
type Invoice struct {
	ID            int64
	CustomerID    int64
	InvoiceNumber string
	IssueDate     time.Time
	DueDate       *time.Time
	TotalAmount   decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
