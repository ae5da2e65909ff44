package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
)

// StatusCompleted estado que habilita registrar la asignación de un pago.
const StatusCompleted = "completada"

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"02/01/2006",
	"02/01/2006 15:04:05",
	"2006/01/02",
}

// Row resultado de normalizar una fila del CSV consolidado.
// Invoice, Transaction y Allocated son nil cuando la fila no trae los campos que los habilitan.
type Row struct {
	Customer     entity.Customer
	Invoice      *entity.Invoice
	PlatformName string
	Transaction  *entity.Transaction
	Allocated    *decimal.Decimal
}

// NormalizeRow convierte una fila del CSV consolidado a su forma canónica.
// Devuelve false si la fila no tiene número de documento: se omite completa.
func NormalizeRow(r Record) (Row, bool) {
	doc := r.First(DocumentAliases)
	if doc == "" {
		return Row{}, false
	}
	out := Row{Customer: customerFrom(r, doc)}

	if number := r.First(InvoiceNumberAliases); number != "" {
		total, hasTotal := ParseAmount(r.First(InvoiceTotalAliases))
		issue, due, hasIssue := invoiceDates(r)
		if hasTotal && hasIssue {
			out.Invoice = &entity.Invoice{
				InvoiceNumber: number,
				IssueDate:     issue,
				DueDate:       due,
				TotalAmount:   total,
			}
		}
	}

	platform := r.First(PlatformNameAliases)
	if platform == "" {
		if code := r.First(PlatformCodeAliases); code != "" {
			platform = PlatformName(code)
		}
	}
	ref := r.First(TxReferenceAliases)
	amount, hasAmount := ParseAmount(r.First(TxAmountAliases))
	if platform != "" && ref != "" && hasAmount {
		out.PlatformName = platform
		out.Transaction = &entity.Transaction{
			TransactionReference: ref,
			TransactionDate:      optionalDate(r.First(TxDateAliases)),
			Amount:               amount,
			Currency:             Currency(r.First(CurrencyAliases)),
			Description:          optional(r.First(DescriptionAliases)),
		}
	}

	if allocated, ok := ParseAmount(r.First(AllocatedAmountAliases)); ok {
		if status := r.First(StatusAliases); status == "" || IsCompleted(status) {
			out.Allocated = &allocated
		}
	}
	return out, true
}

func customerFrom(r Record, doc string) entity.Customer {
	first := r.First(FirstNameAliases)
	last := r.First(LastNameAliases)
	if first == "" && last == "" {
		first, last = SplitName(r.First(FullNameAliases))
	}
	return entity.Customer{
		DocumentNumber: doc,
		FirstName:      first,
		LastName:       last,
		Email:          optional(r.First(EmailAliases)),
		Phone:          optional(r.First(PhoneAliases)),
	}
}

// invoiceDates prioriza issue_date/due_date explícitos; si falta issue_date usa el periodo YYYY-MM.
func invoiceDates(r Record) (issue time.Time, due *time.Time, ok bool) {
	if issue, ok = ParseDate(r.First(IssueDateAliases)); ok {
		return issue, optionalDate(r.First(DueDateAliases)), true
	}
	first, last, ok := PeriodDates(r.First(PeriodAliases))
	if !ok {
		return time.Time{}, nil, false
	}
	if d := optionalDate(r.First(DueDateAliases)); d != nil {
		return first, d, true
	}
	return first, &last, true
}

// SplitName separa el primer nombre del resto: "Ana María Gómez" -> ("Ana", "María Gómez").
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// PeriodDates convierte "YYYY-MM" en el primer y último día de ese mes (UTC).
func PeriodDates(period string) (first, last time.Time, ok bool) {
	parts := strings.Split(strings.TrimSpace(period), "-")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year <= 0 {
		return time.Time{}, time.Time{}, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, time.Time{}, false
	}
	first = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1), true
}

// ParseDate interpreta las variantes de fecha vistas en las fuentes. Sin zona horaria se asume UTC.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseAmount convierte un monto a decimal. Acepta "$", sufijo "COP", separadores de miles
// y coma decimal ("1.234,56" o "1,234.56"). Un único punto seguido de tres dígitos es separador de
// miles, como en pesos: "25.000" -> 25000.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	if strings.HasSuffix(strings.ToUpper(s), "COP") {
		s = s[:len(s)-3]
	}
	s = strings.NewReplacer(" ", "", "\u00a0", "").Replace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 <= 2 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	case lastDot >= 0 && thousandsGroup(s, lastDot):
		s = strings.Replace(s, ".", "", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// Currency normaliza un código ISO 4217 de tres letras; cualquier otro valor ("pesos", "") cae a
// entity.DefaultCurrency.
func Currency(raw string) string {
	c := strings.ToUpper(strings.TrimSpace(raw))
	if len(c) != 3 {
		return entity.DefaultCurrency
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return entity.DefaultCurrency
		}
	}
	return c
}

// thousandsGroup indica si el separador en sep parte un entero de 1 a 3 dígitos (sin cero inicial)
// de un grupo de exactamente tres dígitos: "1.500", "25.000", pero no "0.500" ni "1.5".
func thousandsGroup(s string, sep int) bool {
	intPart := strings.TrimPrefix(s[:sep], "-")
	frac := s[sep+1:]
	if len(frac) != 3 || len(intPart) < 1 || len(intPart) > 3 || intPart[0] == '0' {
		return false
	}
	return allDigits(intPart) && allDigits(frac)
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// PlatformName traduce el código numérico de plataforma de las exportaciones heredadas.
func PlatformName(code string) string {
	code = strings.TrimSpace(code)
	switch code {
	case "1":
		return entity.PlatformNequi
	case "2":
		return entity.PlatformDaviplata
	case "":
		return "Unknown-0"
	default:
		return "Unknown-" + code
	}
}

// IsCompleted compara el estado con StatusCompleted sin distinguir mayúsculas ni espacios.
func IsCompleted(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), StatusCompleted)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalDate(raw string) *time.Time {
	t, ok := ParseDate(raw)
	if !ok {
		return nil
	}
	return &t
}
