package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/Recaudo-api/docs"
	"github.com/jhoicas/Recaudo-api/internal/application/customers"
	"github.com/jhoicas/Recaudo-api/internal/application/ingestion"
	"github.com/jhoicas/Recaudo-api/internal/application/reports"
	infrapdf "github.com/jhoicas/Recaudo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Recaudo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Recaudo-api/internal/infrastructure/tabular"
	httpRouter "github.com/jhoicas/Recaudo-api/internal/interfaces/http"
	"github.com/jhoicas/Recaudo-api/pkg/config"
	"github.com/jhoicas/Recaudo-api/pkg/logger"
)

// @title        Recaudo API
// @version      1.0
// @description  Carga de pagos (CSV consolidado o exportaciones heredadas), clientes y reportes de recaudo.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: las rutas /api/upload rechazarán todos los tokens")
	}

	if err := postgres.Migrate(cfg.DB.ConnectionString(), log); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	customerUC := customers.NewUseCase(postgres.NewCustomerRepository(pool), txRunner, log)
	reportUC := reports.NewUseCase(postgres.NewReportRepository(pool), infrapdf.NewMarotoPDFGenerator())
	ingestSvc := ingestion.NewService(txRunner, tabular.NewReader(), log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyMiB * 1024 * 1024,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 120,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.DocsPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.DocsPath,
			Path:     "docs",
			Title:    "Recaudo API",
		}))
	} else {
		log.Warn().Str("path", cfg.HTTP.DocsPath).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		CustomerUC: customerUC,
		ReportUC:   reportUC,
		Loader:     ingestSvc,
		JWTSecret:  cfg.JWT.Secret,
		UploadDir:  cfg.Ingest.UploadDir,
		DefaultDir: cfg.Ingest.DefaultDir,
		Log:        log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
