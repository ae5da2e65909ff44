package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Recaudo-api/internal/application/customers"
	"github.com/jhoicas/Recaudo-api/internal/application/ingestion"
	"github.com/jhoicas/Recaudo-api/internal/application/reports"
	"github.com/jhoicas/Recaudo-api/internal/infrastructure/memory"
	"github.com/jhoicas/Recaudo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Recaudo-api/internal/infrastructure/tabular"
	apphttp "github.com/jhoicas/Recaudo-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Recaudo-api/pkg/jwt"
)

const pagosCSV = "customer_document,first_name,last_name,invoice_number,total_amount,issue_date,platform,transaction_reference,transaction_amount,allocated_amount\n" +
	"C1,Ana,Gómez,INV1,100,2024-01-01,Nequi,T1,100,40\n"

type testEnv struct {
	app       *fiber.App
	store     *memory.Store
	uploadDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	uploadDir := t.TempDir()
	app := fiber.New()
	app.Use(apphttp.RequestLogger(nil))
	apphttp.Router(app, apphttp.RouterDeps{
		CustomerUC: customers.NewUseCase(store.CustomerRepository(), store, nil),
		ReportUC:   reports.NewUseCase(store.ReportRepository(), pdf.NewMarotoPDFGenerator()),
		Loader:     ingestion.NewService(store, tabular.NewReader(), nil),
		JWTSecret:  testJWTSecret,
		UploadDir:  uploadDir,
		DefaultDir: filepath.Join(t.TempDir(), "db"),
	})
	return &testEnv{app: app, store: store, uploadDir: uploadDir}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(t, req)
}

func (e *testEnv) send(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func uploadRequest(t *testing.T, filename, content, auth string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload/csv", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	return req
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/health", "/api/health"} {
		resp, body := env.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.JSONEq(t, `{"status":"ok"}`, string(body))
		assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderRequestID))
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(apphttp.HeaderRequestID, "req-1")
	resp, _ := env.send(t, req)
	assert.Equal(t, "req-1", resp.Header.Get(apphttp.HeaderRequestID))
}

func TestCustomers_CRUD(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/customers",
		`{"document_number":"1020","first_name":"Ana","last_name":"Gómez","email":"ana@mail.co"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &created))
	id := int64(created["id"].(float64))
	assert.Equal(t, "1020", created["document_number"])

	path := "/api/customers/" + strconv.FormatInt(id, 10)
	resp, body = env.do(t, http.MethodGet, path, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"first_name":"Ana"`)

	resp, body = env.do(t, http.MethodPut, path, `{"last_name":"Ruiz"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"last_name":"Ruiz"`)

	resp, body = env.do(t, http.MethodGet, "/api/customers", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list, 1)

	resp, _ = env.do(t, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "NOT_FOUND")
}

func TestCustomers_Errores(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/customers", `{"document_number":"1","first_name":"","last_name":"X","email":"malo"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp struct {
		Code    string `json:"code"`
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "VALIDATION", errResp.Code)
	assert.NotEmpty(t, errResp.Details)

	resp, _ = env.do(t, http.MethodPost, "/api/customers", `{"document_number":"1","first_name":"A","last_name":"B"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, body = env.do(t, http.MethodPost, "/api/customers", `{"document_number":"1","first_name":"A","last_name":"B"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "DUPLICATE")

	resp, _ = env.do(t, http.MethodPost, "/api/customers", `{"document_number":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/api/customers/abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "INVALID_ID")

	resp, _ = env.do(t, http.MethodDelete, "/api/customers/999", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUploadCSV_RequiereToken(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.send(t, uploadRequest(t, "pagos.csv", pagosCSV, ""))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, env.store.Counts().Customers)
}

func TestUploadCSV_ErrorInternoNoExponeDetalle(t *testing.T) {
	env := newTestEnv(t)
	env.store.FailOn("payments.upsert", errors.New("pq: password authentication failed for user recaudo"))

	resp, body := env.send(t, uploadRequest(t, "pagos.csv", pagosCSV, tokenForRole(t, pkgjwt.RoleOperator)))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), "INTERNAL")
	assert.NotContains(t, string(body), "password")
	assert.NotContains(t, string(body), "fila")
	assert.Equal(t, memory.Counts{}, env.store.Counts())
}

func TestUploadCSV_YConsultas(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.send(t, uploadRequest(t, "pagos.csv", pagosCSV, tokenForRole(t, pkgjwt.RoleOperator)))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var loaded struct {
		Summary ingestion.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(body, &loaded))
	assert.Equal(t, 1, loaded.Summary.ProcessedRows)
	assert.Equal(t, 1, loaded.Summary.InvoicePayments)

	entries, err := os.ReadDir(env.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "el archivo temporal se elimina tras la carga")

	resp, body = env.do(t, http.MethodGet, "/api/queries/total-paid-by-customer", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"total_paid":"40"`)

	resp, body = env.do(t, http.MethodGet, "/api/queries/pending-invoices", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pending []map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "60", pending[0]["pending_amount"])
	assert.Equal(t, []interface{}{"T1"}, pending[0]["transaction_references"])

	resp, body = env.do(t, http.MethodGet, "/api/queries/transactions-by-platform?platform=Nequi", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"invoice_number":"INV1"`)

	resp, body = env.do(t, http.MethodGet, "/api/queries/pending-invoices.pdf", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "facturas_pendientes_")
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestUploadCSV_Errores(t *testing.T) {
	env := newTestEnv(t)
	auth := tokenForRole(t, pkgjwt.RoleOperator)

	resp, body := env.send(t, uploadRequest(t, "pagos.json", "{}", auth))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "UNSUPPORTED_FILE")

	req := httptest.NewRequest(http.MethodPost, "/api/upload/csv", strings.NewReader(""))
	req.Header.Set("Authorization", auth)
	resp, body = env.send(t, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "MISSING_FILE")

	resp, _ = env.send(t, uploadRequest(t, "pagos.csv", pagosCSV, tokenForRole(t, "lector")))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLoadDir_ArchivosFaltantes(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/api/upload/db", nil)
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleOperator))
	resp, body := env.send(t, req)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), "MISSING_SOURCE_FILE")
}

func TestLoadDir_OK(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	files := map[string]string{
		"clientes.csv":      "ID_Cliente,Nombre,Email\n100,Ana Gómez,ana@mail.co\n",
		"facturas.csv":      "ID_Factura,Periodo,Monto_Facturado\nF1,2024-03,150000\n",
		"transacciones.csv": "ID_Transaccion,Fecha_Hora,Monto_Pagado,Estado,Tipo,ID_Cliente,ID_Factura,ID_Plataforma\nTX1,2024-03-05 10:00:00,150000,Completada,Pago,100,F1,1\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload/db", strings.NewReader(`{"dir":"`+filepath.ToSlash(dir)+`"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleOperator))
	resp, body := env.send(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, 1, env.store.Counts().Customers)
	assert.Equal(t, 1, env.store.Counts().InvoicePayments)
}
