// Package tabular lee archivos CSV y XLSX completos a memoria como registros encabezado -> valor.
package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Recaudo-api/internal/domain"
	"github.com/jhoicas/Recaudo-api/internal/domain/ingest"
)

// Reader implementa ingestion.SourceReader.
type Reader struct{}

// NewReader construye el lector.
func NewReader() *Reader { return &Reader{} }

// ReadFile lee el archivo según su extensión (.csv, .txt o .xlsx). La primera fila es el encabezado.
func (r *Reader) ReadFile(path string) ([]ingest.Record, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		return readCSV(path)
	case ".xlsx":
		return readXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedSource, ext)
	}
}

func readCSV(path string) ([]ingest.Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffDelimiter(data)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return toRecords(rows), nil
}

// decode quita el BOM UTF-8. Si el contenido no es UTF-8 válido se asume una exportación
// Windows-1252 (Excel en español).
func decode(raw []byte) ([]byte, error) {
	if !utf8.Valid(raw) {
		out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
		return out, err
	}
	out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), raw)
	return out, err
}

// sniffDelimiter elige ';' si el encabezado tiene más ';' que ','.
func sniffDelimiter(data []byte) rune {
	header := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		header = data[:i]
	}
	if bytes.Count(header, []byte{';'}) > bytes.Count(header, []byte{','}) {
		return ';'
	}
	return ','
}

func readXLSX(path string) ([]ingest.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("rows %s: %w", sheets[0], err)
	}
	return toRecords(rows), nil
}

// toRecords usa la primera fila como encabezado. Columnas sin nombre y filas vacías se ignoran.
func toRecords(rows [][]string) []ingest.Record {
	if len(rows) == 0 {
		return nil
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	out := make([]ingest.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rec := make(ingest.Record, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(row) {
				rec[name] = row[i]
			} else {
				rec[name] = ""
			}
		}
		out = append(out, rec)
	}
	return out
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
