// Package customers casos de uso del CRUD de clientes, incluido el borrado en cascada.
package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/Recaudo-api/internal/application/dto"
	"github.com/jhoicas/Recaudo-api/internal/domain"
	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/internal/domain/repository"
	"github.com/jhoicas/Recaudo-api/pkg/logger"
)

// UseCase casos de uso para clientes.
type UseCase struct {
	repo     repository.CustomerRepository
	tx       TxRunner
	validate *validator.Validate
	log      *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.CustomerRepository, tx TxRunner, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{repo: repo, tx: tx, validate: newValidator(), log: log}
}

// List lista los clientes, los más recientes primero.
func (uc *UseCase) List(ctx context.Context) ([]*dto.CustomerResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toResponse(c))
	}
	return out, nil
}

// GetByID obtiene un cliente; domain.ErrNotFound si no existe.
func (uc *UseCase) GetByID(ctx context.Context, id int64) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(c), nil
}

// Create crea un cliente. Documento repetido -> domain.ErrDuplicate.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	in.DocumentNumber = strings.TrimSpace(in.DocumentNumber)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = trimOptional(in.Email)
	in.Phone = trimOptional(in.Phone)
	if err := uc.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	c := &entity.Customer{
		DocumentNumber: in.DocumentNumber,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		Phone:          in.Phone,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toResponse(c), nil
}

// Update aplica una actualización parcial: solo cambian los campos presentes en el body.
func (uc *UseCase) Update(ctx context.Context, id int64, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Empty() {
		return nil, &ValidationError{Details: []dto.ValidationDetail{{Field: "body", Message: "no hay campos para actualizar"}}}
	}
	in.DocumentNumber = trimPresent(in.DocumentNumber)
	in.FirstName = trimPresent(in.FirstName)
	in.LastName = trimPresent(in.LastName)
	// Email o teléfono vacíos borran el valor guardado.
	clearEmail := isBlank(in.Email)
	clearPhone := isBlank(in.Phone)
	if clearEmail {
		in.Email = nil
	}
	if clearPhone {
		in.Phone = nil
	}
	in.Email = trimPresent(in.Email)
	in.Phone = trimPresent(in.Phone)
	if err := uc.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if in.DocumentNumber != nil {
		c.DocumentNumber = *in.DocumentNumber
	}
	if in.FirstName != nil {
		c.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		c.LastName = *in.LastName
	}
	switch {
	case clearEmail:
		c.Email = nil
	case in.Email != nil:
		c.Email = in.Email
	}
	switch {
	case clearPhone:
		c.Phone = nil
	case in.Phone != nil:
		c.Phone = in.Phone
	}
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toResponse(c), nil
}

// Delete elimina el cliente, sus facturas y asignaciones, y las transacciones que quedan sin
// asignaciones. Todo en una transacción.
func (uc *UseCase) Delete(ctx context.Context, id int64) error {
	var invoices, orphans int64
	err := uc.tx.RunCustomerDelete(ctx, func(r CascadeRepos) error {
		c, err := r.Customers.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}

		invoiceIDs, err := r.Invoices.ListIDsByCustomer(ctx, id)
		if err != nil {
			return fmt.Errorf("facturas del cliente: %w", err)
		}
		if len(invoiceIDs) > 0 {
			txIDs, err := r.Payments.TransactionIDsByInvoices(ctx, invoiceIDs)
			if err != nil {
				return fmt.Errorf("transacciones de las facturas: %w", err)
			}
			if err := r.Payments.DeleteByInvoices(ctx, invoiceIDs); err != nil {
				return fmt.Errorf("borrar pagos: %w", err)
			}
			if err := r.Invoices.DeleteByIDs(ctx, invoiceIDs); err != nil {
				return fmt.Errorf("borrar facturas: %w", err)
			}
			if len(txIDs) > 0 {
				if orphans, err = r.Transactions.DeleteOrphans(ctx, txIDs); err != nil {
					return fmt.Errorf("borrar transacciones huérfanas: %w", err)
				}
			}
			invoices = int64(len(invoiceIDs))
		}
		return r.Customers.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().
		Int64("customer_id", id).
		Int64("invoices", invoices).
		Int64("orphan_transactions", orphans).
		Msg("cliente eliminado")
	return nil
}

func toResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:             c.ID,
		DocumentNumber: c.DocumentNumber,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		Phone:          c.Phone,
	}
}

// trimOptional recorta y convierte "" en nil.
func trimOptional(s *string) *string {
	return nilIfEmpty(trimPresent(s))
}

func trimPresent(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func isBlank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) == ""
}

func nilIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
