package entity

import "time"

// Customer representa un cliente identificado por su número de documento (cédula o NIT).
type Customer struct {
	ID             int64
	DocumentNumber string
	FirstName      string
	LastName       string
	Email          *string
	Phone          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
