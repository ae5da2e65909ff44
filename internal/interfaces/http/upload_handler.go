package http

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/Recaudo-api/internal/application/dto"
	"github.com/jhoicas/Recaudo-api/internal/application/ingestion"
	"github.com/jhoicas/Recaudo-api/pkg/logger"
)

// Loader cargas masivas (implementado por ingestion.Service).
type Loader interface {
	LoadSingleFile(ctx context.Context, path string) (*ingestion.Summary, error)
	LoadFromDirectory(ctx context.Context, dir string) (*ingestion.Summary, error)
}

// UploadHandler recibe CSV consolidados o dispara la carga del directorio heredado.
type UploadHandler struct {
	loader     Loader
	uploadDir  string
	defaultDir string
	log        *logger.Logger
}

// NewUploadHandler construye el handler.
func NewUploadHandler(loader Loader, uploadDir, defaultDir string, log *logger.Logger) *UploadHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &UploadHandler{loader: loader, uploadDir: uploadDir, defaultDir: defaultDir, log: log}
}

// UploadCSV godoc
// @Summary      Cargar un CSV/XLSX consolidado
// @Description  Cada fila se normaliza y se aplica con upserts en una sola transacción.
// @Tags         upload
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Archivo .csv, .txt o .xlsx"
// @Success      200   {object}  dto.LoadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/upload/csv [post]
func (h *UploadHandler) UploadCSV(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "se requiere el archivo en el campo 'file'"})
	}
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return writeError(c, h.log, err)
	}
	path := filepath.Join(h.uploadDir, uuid.NewString()+strings.ToLower(filepath.Ext(fh.Filename)))
	if err := c.SaveFile(fh, path); err != nil {
		return writeError(c, h.log, err)
	}
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			h.log.Warn().Err(err).Str("path", path).Msg("no se pudo eliminar el archivo temporal")
		}
	}()

	sum, err := h.loader.LoadSingleFile(c.UserContext(), path)
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.log.Info().Str("file", fh.Filename).Str("subject", GetSubject(c)).Str("batch_id", sum.BatchID).Msg("CSV cargado")
	return c.JSON(dto.LoadResponse{Message: "CSV cargado correctamente", Summary: sum})
}

// LoadDir godoc
// @Summary      Cargar el directorio heredado (clientes, facturas, transacciones)
// @Tags         upload
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoadDirRequest  false  "Directorio; por defecto INGEST_DEFAULT_DIR"
// @Success      200   {object}  dto.LoadResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/upload/db [post]
func (h *UploadHandler) LoadDir(c *fiber.Ctx) error {
	var in dto.LoadDirRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	dir := strings.TrimSpace(in.Dir)
	if dir == "" {
		dir = h.defaultDir
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	sum, err := h.loader.LoadFromDirectory(c.UserContext(), dir)
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.log.Info().Str("dir", dir).Str("subject", GetSubject(c)).Str("batch_id", sum.BatchID).Msg("directorio cargado")
	return c.JSON(dto.LoadResponse{Message: "Base de datos cargada correctamente", Dir: dir, Summary: sum})
}
