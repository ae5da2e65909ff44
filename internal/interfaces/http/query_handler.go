package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Recaudo-api/internal/application/reports"
	"github.com/jhoicas/Recaudo-api/pkg/logger"
)

// QueryHandler expone los reportes de recaudo.
type QueryHandler struct {
	uc  *reports.UseCase
	log *logger.Logger
}

// NewQueryHandler construye el handler.
func NewQueryHandler(uc *reports.UseCase, log *logger.Logger) *QueryHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &QueryHandler{uc: uc, log: log}
}

// TotalPaidByCustomer godoc
// @Summary      Total pagado por cliente
// @Description  Suma de los montos asignados a las facturas de cada cliente, mayor primero.
// @Tags         queries
// @Produce      json
// @Success      200  {array}   dto.CustomerPaidResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/queries/total-paid-by-customer [get]
func (h *QueryHandler) TotalPaidByCustomer(c *fiber.Ctx) error {
	out, err := h.uc.TotalPaidByCustomer(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// PendingInvoices godoc
// @Summary      Facturas con saldo pendiente
// @Tags         queries
// @Produce      json
// @Success      200  {array}   dto.PendingInvoiceResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/queries/pending-invoices [get]
func (h *QueryHandler) PendingInvoices(c *fiber.Ctx) error {
	out, err := h.uc.PendingInvoices(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// PendingInvoicesPDF godoc
// @Summary      Facturas con saldo pendiente en PDF
// @Tags         queries
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/queries/pending-invoices.pdf [get]
func (h *QueryHandler) PendingInvoicesPDF(c *fiber.Ctx) error {
	doc, filename, err := h.uc.PendingInvoicesPDF(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(doc)
}

// TransactionsByPlatform godoc
// @Summary      Transacciones por plataforma
// @Tags         queries
// @Produce      json
// @Param        platform  query     string  true  "Nombre de la plataforma (ej: Nequi)"
// @Success      200       {array}   dto.PlatformTransactionResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Router       /api/queries/transactions-by-platform [get]
func (h *QueryHandler) TransactionsByPlatform(c *fiber.Ctx) error {
	out, err := h.uc.TransactionsByPlatform(c.UserContext(), c.Query("platform"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
