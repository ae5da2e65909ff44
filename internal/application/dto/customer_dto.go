package dto

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	DocumentNumber string  `json:"document_number" validate:"required,max=50"`
	FirstName      string  `json:"first_name" validate:"required,max=100"`
	LastName       string  `json:"last_name" validate:"required,max=100"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email,max=150"`
	Phone          *string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

// UpdateCustomerRequest body para PUT /api/customers/:id. Solo se actualizan los campos presentes.
type UpdateCustomerRequest struct {
	DocumentNumber *string `json:"document_number,omitempty" validate:"omitempty,min=1,max=50"`
	FirstName      *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName       *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email,max=150"`
	Phone          *string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

// Empty indica que el body no trae ningún campo editable.
func (r UpdateCustomerRequest) Empty() bool {
	return r.DocumentNumber == nil && r.FirstName == nil && r.LastName == nil && r.Email == nil && r.Phone == nil
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID             int64   `json:"id"`
	DocumentNumber string  `json:"document_number"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
}
