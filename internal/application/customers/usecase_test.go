package customers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Recaudo-api/internal/application/customers"
	"github.com/jhoicas/Recaudo-api/internal/application/dto"
	"github.com/jhoicas/Recaudo-api/internal/domain"
	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/internal/infrastructure/memory"
)

func strPtr(s string) *string { return &s }

func newUseCase() (*customers.UseCase, *memory.Store) {
	store := memory.NewStore()
	return customers.NewUseCase(store.CustomerRepository(), store, nil), store
}

func TestCreate_OK(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	got, err := uc.Create(ctx, dto.CreateCustomerRequest{
		DocumentNumber: " 1020 ",
		FirstName:      "Ana",
		LastName:       "Gómez",
		Email:          strPtr("ana@mail.co"),
		Phone:          strPtr("  "),
	})
	require.NoError(t, err)
	assert.NotZero(t, got.ID)
	assert.Equal(t, "1020", got.DocumentNumber)
	require.NotNil(t, got.Email)
	assert.Equal(t, "ana@mail.co", *got.Email)
	assert.Nil(t, got.Phone, "teléfono vacío se guarda como NULL")

	byID, err := uc.GetByID(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, got, byID)
}

func TestCreate_Validacion(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.Create(context.Background(), dto.CreateCustomerRequest{
		DocumentNumber: "1",
		FirstName:      "",
		LastName:       "X",
		Email:          strPtr("no-es-email"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var verr *customers.ValidationError
	require.True(t, errors.As(err, &verr))
	fields := map[string]string{}
	for _, d := range verr.Details {
		fields[d.Field] = d.Message
	}
	assert.Contains(t, fields, "first_name")
	assert.Contains(t, fields, "email")
	assert.NotContains(t, fields, "document_number")
}

func TestCreate_DocumentoDuplicado(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	in := dto.CreateCustomerRequest{DocumentNumber: "1", FirstName: "A", LastName: "B"}

	_, err := uc.Create(ctx, in)
	require.NoError(t, err)
	_, err = uc.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestList_OrdenDescendente(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	for _, doc := range []string{"1", "2", "3"} {
		_, err := uc.Create(ctx, dto.CreateCustomerRequest{DocumentNumber: doc, FirstName: "N", LastName: "A"})
		require.NoError(t, err)
	}

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "3", list[0].DocumentNumber)
	assert.Equal(t, "1", list[2].DocumentNumber)
}

func TestGetByID_NoExiste(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_Parcial(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	c, err := uc.Create(ctx, dto.CreateCustomerRequest{
		DocumentNumber: "1", FirstName: "Ana", LastName: "Gómez", Email: strPtr("ana@mail.co"), Phone: strPtr("300"),
	})
	require.NoError(t, err)

	got, err := uc.Update(ctx, c.ID, dto.UpdateCustomerRequest{LastName: strPtr("Ruiz"), Email: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.FirstName)
	assert.Equal(t, "Ruiz", got.LastName)
	assert.Nil(t, got.Email, "email vacío borra el valor")
	require.NotNil(t, got.Phone)
	assert.Equal(t, "300", *got.Phone)
}

func TestUpdate_Errores(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	a, err := uc.Create(ctx, dto.CreateCustomerRequest{DocumentNumber: "1", FirstName: "A", LastName: "A"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateCustomerRequest{DocumentNumber: "2", FirstName: "B", LastName: "B"})
	require.NoError(t, err)

	_, err = uc.Update(ctx, a.ID, dto.UpdateCustomerRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin campos")

	_, err = uc.Update(ctx, a.ID, dto.UpdateCustomerRequest{FirstName: strPtr(" ")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "nombre vacío")

	_, err = uc.Update(ctx, a.ID, dto.UpdateCustomerRequest{Email: strPtr("x@")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(ctx, 999, dto.UpdateCustomerRequest{FirstName: strPtr("Z")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Update(ctx, a.ID, dto.UpdateCustomerRequest{DocumentNumber: strPtr("2")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// seed crea dos clientes con una factura cada uno. La transacción "shared" abona ambas facturas y
// "own" solo la del cliente A.
func seed(t *testing.T, store *memory.Store) (a, b int64) {
	t.Helper()
	ctx := context.Background()
	r := store.Repos()

	var err error
	a, err = r.Customers.Upsert(ctx, &entity.Customer{DocumentNumber: "A", FirstName: "Ana"})
	require.NoError(t, err)
	b, err = r.Customers.Upsert(ctx, &entity.Customer{DocumentNumber: "B", FirstName: "Beto"})
	require.NoError(t, err)

	issue := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	invA, err := r.Invoices.Upsert(ctx, &entity.Invoice{CustomerID: a, InvoiceNumber: "FA", IssueDate: issue, TotalAmount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	invB, err := r.Invoices.Upsert(ctx, &entity.Invoice{CustomerID: b, InvoiceNumber: "FB", IssueDate: issue, TotalAmount: decimal.NewFromInt(100)})
	require.NoError(t, err)

	p, err := r.Platforms.Upsert(ctx, entity.PlatformNequi)
	require.NoError(t, err)
	shared, err := r.Transactions.Upsert(ctx, &entity.Transaction{PlatformID: p, TransactionReference: "shared", Amount: decimal.NewFromInt(80), Currency: "COP"})
	require.NoError(t, err)
	own, err := r.Transactions.Upsert(ctx, &entity.Transaction{PlatformID: p, TransactionReference: "own", Amount: decimal.NewFromInt(20), Currency: "COP"})
	require.NoError(t, err)

	for _, ip := range []entity.InvoicePayment{
		{InvoiceID: invA, TransactionID: shared, AllocatedAmount: decimal.NewFromInt(40)},
		{InvoiceID: invB, TransactionID: shared, AllocatedAmount: decimal.NewFromInt(40)},
		{InvoiceID: invA, TransactionID: own, AllocatedAmount: decimal.NewFromInt(20)},
	} {
		ip := ip
		require.NoError(t, r.Payments.Upsert(ctx, &ip))
	}
	return a, b
}

func TestDelete_CascadaConservaTransaccionesCompartidas(t *testing.T) {
	uc, store := newUseCase()
	a, b := seed(t, store)

	require.NoError(t, uc.Delete(context.Background(), a))

	_, ok := store.CustomerByDocument("A")
	assert.False(t, ok)
	_, ok = store.InvoiceByNumber("FA")
	assert.False(t, ok)
	_, ok = store.TransactionByReference("own")
	assert.False(t, ok, "la transacción sin otras asignaciones se elimina")
	_, ok = store.TransactionByReference("shared")
	assert.True(t, ok, "la transacción que abona otra factura sobrevive")

	invB, ok := store.InvoiceByNumber("FB")
	require.True(t, ok)
	assert.Equal(t, b, invB.CustomerID)
	assert.Equal(t, memory.Counts{Customers: 1, Invoices: 1, Platforms: 1, Transactions: 1, InvoicePayments: 1}, store.Counts())
}

func TestDelete_ClienteSinFacturas(t *testing.T) {
	uc, store := newUseCase()
	c, err := uc.Create(context.Background(), dto.CreateCustomerRequest{DocumentNumber: "9", FirstName: "N", LastName: "N"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), c.ID))
	assert.Equal(t, 0, store.Counts().Customers)
}

func TestDelete_NoExiste(t *testing.T) {
	uc, _ := newUseCase()
	assert.ErrorIs(t, uc.Delete(context.Background(), 42), domain.ErrNotFound)
}
