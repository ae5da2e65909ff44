// Package ingest contiene la normalización de filas tabulares y la resolución de referencias
// entre archivos usadas por la carga masiva de CSV. Es código puro: no toca la base de datos.
package ingest

import "strings"

// Record una fila tal como viene del archivo: encabezado -> valor crudo.
type Record map[string]string

// Aliases nombres de columna aceptados para un campo canónico, en orden de preferencia.
type Aliases []string

// First devuelve el primer valor no vacío (tras recortar espacios) entre los alias, o "".
func (r Record) First(aliases Aliases) string {
	for _, a := range aliases {
		if v := strings.TrimSpace(r[a]); v != "" {
			return v
		}
	}
	return ""
}

// Tablas de alias por campo canónico. Cubren el CSV consolidado (inglés) y las exportaciones
// heredadas (clientes/facturas/transacciones, en español).
var (
	DocumentAliases  = Aliases{"customer_document", "document_number", "ID_Cliente", "id_cliente", "ID"}
	FirstNameAliases = Aliases{"customer_first_name", "first_name"}
	LastNameAliases  = Aliases{"customer_last_name", "last_name"}
	FullNameAliases  = Aliases{"customer_name", "full_name", "Nombre", "nombre", "name"}
	EmailAliases     = Aliases{"email", "Email", "customer_email"}
	PhoneAliases     = Aliases{"phone", "Teléfono", "Telefono", "telefono", "customer_phone"}

	InvoiceNumberAliases = Aliases{"invoice_number", "ID_Factura", "id_factura"}
	InvoiceTotalAliases  = Aliases{"invoice_total", "invoice_total_amount", "total_amount", "invoice_amount", "Monto_Facturado", "monto_facturado"}
	IssueDateAliases     = Aliases{"issue_date", "fecha_emision"}
	DueDateAliases       = Aliases{"due_date", "fecha_vencimiento"}
	PeriodAliases        = Aliases{"period", "Periodo", "periodo"}

	PlatformNameAliases    = Aliases{"platform", "platform_name", "Plataforma"}
	PlatformCodeAliases    = Aliases{"platform_code", "ID_Plataforma", "id_plataforma"}
	TxReferenceAliases     = Aliases{"transaction_reference", "tx_reference", "ID_Transaccion", "id_transaccion"}
	TxDateAliases          = Aliases{"transaction_date", "Fecha_Hora", "fecha_hora"}
	TxAmountAliases        = Aliases{"transaction_amount", "amount", "Monto_Pagado", "monto_pagado"}
	CurrencyAliases        = Aliases{"currency", "moneda"}
	DescriptionAliases     = Aliases{"description", "note", "descripcion"}
	AllocatedAmountAliases = Aliases{"allocated_amount", "payment_amount"}
	StatusAliases          = Aliases{"status", "Estado", "estado"}
)

// Alias propios de las exportaciones heredadas (modo multi-archivo).
var (
	legacyCustomerIDAliases = Aliases{"ID_Cliente", "id_cliente", "ID"}
	legacyInvoiceIDAliases  = Aliases{"ID_Factura", "id_factura"}
	legacyInvoiceTotal      = Aliases{"Monto_Facturado", "monto_facturado", "monto", "total"}
	legacyTxRefAliases      = Aliases{"ID_Transaccion", "id_transaccion", "id"}
	legacyTxDateAliases     = Aliases{"Fecha_Hora", "fecha_hora", "fecha", "date"}
	legacyTxAmountAliases   = Aliases{"Monto_Pagado", "monto_pagado", "monto"}
	legacyTxTypeAliases     = Aliases{"Tipo", "tipo"}
	legacyTxCustomerAliases = Aliases{"ID_Cliente", "id_cliente"}
	legacyTxInvoiceAliases  = Aliases{"ID_Factura", "id_factura"}
)
