package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency moneda asumida cuando la fuente no la informa.
const DefaultCurrency = "COP"

// Transaction pago recibido por una plataforma, identificado por transaction_reference.
// TransactionDate nil significa "no informada": se usa now() al insertar y se conserva la fecha
// almacenada al actualizar.
type Transaction struct {
	ID                   int64
	PlatformID           int64
	TransactionReference string
	TransactionDate      *time.Time
	Amount               decimal.Decimal
	Currency             string
	Description          *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
