package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Recaudo-api/internal/application/ingestion"
	"github.com/jhoicas/Recaudo-api/internal/infrastructure/memory"
	"github.com/jhoicas/Recaudo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Recaudo-api/internal/infrastructure/tabular"
	"github.com/jhoicas/Recaudo-api/pkg/config"
	"github.com/jhoicas/Recaudo-api/pkg/jwt"
	"github.com/jhoicas/Recaudo-api/pkg/logger"
)

// env configuración y logger compartidos por los subcomandos.
type env struct {
	cfg *config.Config
	log *logger.Logger
}

// loadResult salida JSON de csv y dir.
type loadResult struct {
	DryRun  bool               `json:"dryRun"`
	Summary *ingestion.Summary `json:"summary"`
	Counts  *memory.Counts     `json:"counts,omitempty"`
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "loader",
		Short:         "Carga masiva de pagos en la base de recaudo",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			e.cfg = cfg
			e.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: cmd.ErrOrStderr()})
			return nil
		},
	}
	root.AddCommand(newCSVCmd(e), newDirCmd(e), newMigrateCmd(e), newTokenCmd(e))
	return root
}

func newCSVCmd(e *env) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "csv <archivo>",
		Short: "Carga un CSV o XLSX consolidado (una fila por pago)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.load(cmd, dryRun, func(ctx context.Context, svc *ingestion.Service) (*ingestion.Summary, error) {
				return svc.LoadSingleFile(ctx, args[0])
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "normaliza y aplica en memoria sin tocar la base de datos")
	return cmd
}

func newDirCmd(e *env) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "dir [directorio]",
		Short: "Carga las exportaciones heredadas (clientes, facturas, transacciones)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := e.cfg.Ingest.DefaultDir
			if len(args) == 1 {
				dir = args[0]
			}
			return e.load(cmd, dryRun, func(ctx context.Context, svc *ingestion.Service) (*ingestion.Summary, error) {
				return svc.LoadFromDirectory(ctx, dir)
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "normaliza y aplica en memoria sin tocar la base de datos")
	return cmd
}

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return postgres.Migrate(e.cfg.DB.ConnectionString(), e.log)
		},
	}
}

func newTokenCmd(e *env) *cobra.Command {
	var (
		subject string
		minutes int
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un JWT de operador para los endpoints /api/upload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if minutes <= 0 {
				minutes = e.cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(e.cfg.JWT.Secret, subject, jwt.RoleOperator, e.cfg.JWT.Issuer, minutes)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "loader", "sujeto del token")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "vigencia en minutos (por defecto JWT_EXPIRATION_MINUTES)")
	return cmd
}

// load ejecuta la carga contra PostgreSQL o, con dry-run, contra un almacén en memoria, e imprime
// el resumen en JSON.
func (e *env) load(cmd *cobra.Command, dryRun bool, run func(context.Context, *ingestion.Service) (*ingestion.Summary, error)) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res := loadResult{DryRun: dryRun}
	reader := tabular.NewReader()
	if dryRun {
		store := memory.NewStore()
		sum, err := run(ctx, ingestion.NewService(store, reader, e.log))
		if err != nil {
			return err
		}
		counts := store.Counts()
		res.Summary, res.Counts = sum, &counts
	} else {
		pool, err := postgres.NewPool(ctx, e.cfg.DB, e.log)
		if err != nil {
			return err
		}
		defer pool.Close()
		sum, err := run(ctx, ingestion.NewService(postgres.NewTxRunner(pool), reader, e.log))
		if err != nil {
			return err
		}
		res.Summary = sum
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
