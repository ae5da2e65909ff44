// Package reports consultas de solo lectura sobre pagos y su exportación a PDF.
package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Recaudo-api/internal/application/dto"
	"github.com/jhoicas/Recaudo-api/internal/domain"
	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/internal/domain/repository"
)

// PendingInvoicesPDFGenerator genera el PDF del reporte de facturas pendientes.
type PendingInvoicesPDFGenerator interface {
	GeneratePendingInvoicesPDF(ctx context.Context, invoices []entity.PendingInvoice, generatedAt time.Time) ([]byte, error)
}

// UseCase reportes de recaudo.
type UseCase struct {
	repo repository.ReportRepository
	pdf  PendingInvoicesPDFGenerator
	now  func() time.Time
}

// NewUseCase construye el caso de uso. pdf puede ser nil si no se exporta a PDF.
func NewUseCase(repo repository.ReportRepository, pdf PendingInvoicesPDFGenerator) *UseCase {
	return &UseCase{repo: repo, pdf: pdf, now: time.Now}
}

// TotalPaidByCustomer total asignado por cliente, mayor primero.
func (uc *UseCase) TotalPaidByCustomer(ctx context.Context) ([]dto.CustomerPaidResponse, error) {
	rows, err := uc.repo.TotalPaidByCustomer(ctx)
	if err != nil {
		return nil, fmt.Errorf("reports: total pagado: %w", err)
	}
	out := make([]dto.CustomerPaidResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.CustomerPaidResponse{
			CustomerID:     r.CustomerID,
			DocumentNumber: r.DocumentNumber,
			FirstName:      r.FirstName,
			LastName:       r.LastName,
			TotalPaid:      r.TotalPaid,
		})
	}
	return out, nil
}

// PendingInvoices facturas con saldo pendiente, mayor saldo primero.
func (uc *UseCase) PendingInvoices(ctx context.Context) ([]dto.PendingInvoiceResponse, error) {
	rows, err := uc.repo.PendingInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("reports: facturas pendientes: %w", err)
	}
	out := make([]dto.PendingInvoiceResponse, 0, len(rows))
	for _, r := range rows {
		refs := r.TransactionReferences
		if refs == nil {
			refs = []string{}
		}
		out = append(out, dto.PendingInvoiceResponse{
			InvoiceID:             r.InvoiceID,
			InvoiceNumber:         r.InvoiceNumber,
			TotalAmount:           r.TotalAmount,
			TotalPaid:             r.TotalPaid,
			PendingAmount:         r.PendingAmount,
			FirstName:             r.FirstName,
			LastName:              r.LastName,
			TransactionReferences: refs,
		})
	}
	return out, nil
}

// TransactionsByPlatform transacciones de la plataforma (ej: Nequi, Daviplata), más recientes primero.
func (uc *UseCase) TransactionsByPlatform(ctx context.Context, platform string) ([]dto.PlatformTransactionResponse, error) {
	platform = strings.TrimSpace(platform)
	if platform == "" {
		return nil, fmt.Errorf("%w: el parámetro platform es obligatorio (ej: Nequi, Daviplata)", domain.ErrInvalidInput)
	}
	rows, err := uc.repo.TransactionsByPlatform(ctx, platform)
	if err != nil {
		return nil, fmt.Errorf("reports: transacciones de %s: %w", platform, err)
	}
	out := make([]dto.PlatformTransactionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.PlatformTransactionResponse{
			TransactionID:        r.TransactionID,
			TransactionReference: r.TransactionReference,
			TransactionDate:      r.TransactionDate,
			Amount:               r.Amount,
			Currency:             r.Currency,
			Platform:             r.Platform,
			InvoiceNumber:        r.InvoiceNumber,
			FirstName:            r.FirstName,
			LastName:             r.LastName,
		})
	}
	return out, nil
}

// PendingInvoicesPDF genera el reporte de facturas pendientes en PDF y el nombre de archivo sugerido.
func (uc *UseCase) PendingInvoicesPDF(ctx context.Context) (pdfBytes []byte, filename string, err error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("reports: generador PDF no configurado")
	}
	rows, err := uc.repo.PendingInvoices(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("reports: facturas pendientes: %w", err)
	}
	now := uc.now()
	pdfBytes, err = uc.pdf.GeneratePendingInvoicesPDF(ctx, rows, now)
	if err != nil {
		return nil, "", fmt.Errorf("reports: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("facturas_pendientes_%s.pdf", now.Format("20060102")), nil
}
