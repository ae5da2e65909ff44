package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Recaudo-api/internal/application/customers"
	"github.com/jhoicas/Recaudo-api/internal/application/reports"
	"github.com/jhoicas/Recaudo-api/pkg/jwt"
	"github.com/jhoicas/Recaudo-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CustomerUC *customers.UseCase
	ReportUC   *reports.UseCase
	Loader     Loader
	JWTSecret  string
	UploadDir  string
	DefaultDir string
	Log        *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	health := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	}
	app.Get("/health", health)

	api := app.Group("/api")
	api.Get("/health", health)

	// Customers (público)
	customersGroup := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC, deps.Log)
	customersGroup.Get("/", customerHandler.List)
	customersGroup.Post("/", customerHandler.Create)
	customersGroup.Get("/:id", customerHandler.GetByID)
	customersGroup.Put("/:id", customerHandler.Update)
	customersGroup.Delete("/:id", customerHandler.Delete)

	// Reportes (público)
	queries := api.Group("/queries")
	queryHandler := NewQueryHandler(deps.ReportUC, deps.Log)
	queries.Get("/total-paid-by-customer", queryHandler.TotalPaidByCustomer)
	queries.Get("/pending-invoices", queryHandler.PendingInvoices)
	queries.Get("/pending-invoices.pdf", queryHandler.PendingInvoicesPDF)
	queries.Get("/transactions-by-platform", queryHandler.TransactionsByPlatform)

	// Cargas masivas (requieren Bearer Token de operador)
	upload := api.Group("/upload", AuthMiddleware(deps.JWTSecret), RequireRole(jwt.RoleOperator))
	uploadHandler := NewUploadHandler(deps.Loader, deps.UploadDir, deps.DefaultDir, deps.Log)
	upload.Post("/csv", uploadHandler.UploadCSV)
	upload.Post("/db", uploadHandler.LoadDir)
}
