package repository

import (
	"context"

	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	// Upsert inserta o actualiza por document_number y devuelve el id interno.
	Upsert(ctx context.Context, customer *entity.Customer) (int64, error)
	// Create inserta un cliente nuevo; devuelve domain.ErrDuplicate si el documento ya existe.
	Create(ctx context.Context, customer *entity.Customer) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Customer, error)
	List(ctx context.Context) ([]*entity.Customer, error)
	// Update reescribe los campos editables; devuelve domain.ErrNotFound si no existe.
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id int64) error
}
