package reports

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Recaudo-api/internal/domain"
	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
)

type fakeReportRepo struct {
	paid         []entity.CustomerPaidTotal
	pending      []entity.PendingInvoice
	byPlatform   []entity.PlatformTransaction
	err          error
	lastPlatform string
}

func (f *fakeReportRepo) TotalPaidByCustomer(context.Context) ([]entity.CustomerPaidTotal, error) {
	return f.paid, f.err
}

func (f *fakeReportRepo) PendingInvoices(context.Context) ([]entity.PendingInvoice, error) {
	return f.pending, f.err
}

func (f *fakeReportRepo) TransactionsByPlatform(_ context.Context, platform string) ([]entity.PlatformTransaction, error) {
	f.lastPlatform = platform
	return f.byPlatform, f.err
}

type fakePDF struct {
	got []entity.PendingInvoice
	at  time.Time
}

func (f *fakePDF) GeneratePendingInvoicesPDF(_ context.Context, invoices []entity.PendingInvoice, at time.Time) ([]byte, error) {
	f.got, f.at = invoices, at
	return []byte("%PDF-fake"), nil
}

func TestTransactionsByPlatform_PlataformaObligatoria(t *testing.T) {
	uc := NewUseCase(&fakeReportRepo{}, nil)
	_, err := uc.TransactionsByPlatform(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransactionsByPlatform_Mapea(t *testing.T) {
	inv := "INV1"
	repo := &fakeReportRepo{byPlatform: []entity.PlatformTransaction{{
		TransactionID:        3,
		TransactionReference: "T1",
		Amount:               decimal.NewFromInt(100),
		Currency:             "COP",
		Platform:             "Nequi",
		InvoiceNumber:        &inv,
	}}}
	uc := NewUseCase(repo, nil)

	out, err := uc.TransactionsByPlatform(context.Background(), " Nequi ")
	require.NoError(t, err)
	assert.Equal(t, "Nequi", repo.lastPlatform)
	require.Len(t, out, 1)
	assert.Equal(t, "T1", out[0].TransactionReference)
	assert.Equal(t, &inv, out[0].InvoiceNumber)
	assert.Nil(t, out[0].FirstName)
}

func TestPendingInvoices_ReferenciasNuncaNull(t *testing.T) {
	repo := &fakeReportRepo{pending: []entity.PendingInvoice{{
		InvoiceID: 1, InvoiceNumber: "F1", TotalAmount: decimal.NewFromInt(100), PendingAmount: decimal.NewFromInt(100),
	}}}
	out, err := NewUseCase(repo, nil).PendingInvoices(context.Background())
	require.NoError(t, err)

	b, err := json.Marshal(out[0])
	require.NoError(t, err)
	assert.Contains(t, string(b), `"transaction_references":[]`)
}

func TestTotalPaidByCustomer_PropagaError(t *testing.T) {
	boom := errors.New("db caída")
	_, err := NewUseCase(&fakeReportRepo{err: boom}, nil).TotalPaidByCustomer(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestPendingInvoicesPDF(t *testing.T) {
	rows := []entity.PendingInvoice{{InvoiceID: 1, InvoiceNumber: "F1"}}
	gen := &fakePDF{}
	uc := NewUseCase(&fakeReportRepo{pending: rows}, gen)
	uc.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 0, 0, time.UTC) }

	b, name, err := uc.PendingInvoicesPDF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), b)
	assert.Equal(t, "facturas_pendientes_20240506.pdf", name)
	assert.Equal(t, rows, gen.got)
}

func TestPendingInvoicesPDF_SinGenerador(t *testing.T) {
	_, _, err := NewUseCase(&fakeReportRepo{}, nil).PendingInvoicesPDF(context.Background())
	assert.Error(t, err)
}
