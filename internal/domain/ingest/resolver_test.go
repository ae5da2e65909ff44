package ingest_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Recaudo-api/internal/domain/ingest"
)

func legacyFixture() (clientes, facturas, transacciones []ingest.Record) {
	clientes = []ingest.Record{
		{"ID_Cliente": "100", "Nombre": "Ana Gómez", "Email": "ana@mail.co", "Teléfono": "3001234567"},
		{"ID_Cliente": "200", "Nombre": "Luis"},
		{"ID_Cliente": "", "Nombre": "Sin id"},
	}
	facturas = []ingest.Record{
		{"ID_Factura": "F1", "Periodo": "2024-03", "Monto_Facturado": "150000"},
		{"ID_Factura": "F2", "Periodo": "2024-04", "Monto_Facturado": "80000"},
		{"ID_Factura": "F3", "Periodo": "", "Monto_Facturado": "10"},
	}
	transacciones = []ingest.Record{
		{"ID_Transaccion": "TX1", "Fecha_Hora": "2024-03-05 10:00:00", "Monto_Pagado": "150000", "Estado": "Completada", "Tipo": "Pago", "ID_Cliente": "100", "ID_Factura": "F1", "ID_Plataforma": "1"},
		{"ID_Transaccion": "TX2", "Fecha_Hora": "2024-04-06 11:00:00", "Monto_Pagado": "40000", "Estado": "Pendiente", "Tipo": "Pago", "ID_Cliente": "200", "ID_Factura": "F2", "ID_Plataforma": "2"},
		{"ID_Transaccion": "TX3", "Monto_Pagado": "1", "Estado": "Completada", "ID_Cliente": "200", "ID_Factura": "F1", "ID_Plataforma": "9"},
		{"ID_Transaccion": "", "Monto_Pagado": "5"},
	}
	return
}

func TestBuildLegacyPlan_IndicesYOrden(t *testing.T) {
	plan := ingest.BuildLegacyPlan(legacyFixture())

	require.Len(t, plan.Customers, 2)
	assert.Equal(t, "100", plan.Customers[0].NativeID)
	assert.Equal(t, "Ana", plan.Customers[0].Customer.FirstName)
	assert.Equal(t, "Gómez", plan.Customers[0].Customer.LastName)
	require.NotNil(t, plan.Customers[0].Customer.Phone)
	assert.Equal(t, "3001234567", *plan.Customers[0].Customer.Phone)

	require.Len(t, plan.Invoices, 3)
	assert.Equal(t, "100", plan.Invoices[0].OwnerNativeID)
	assert.Equal(t, "200", plan.Invoices[1].OwnerNativeID)
	assert.Empty(t, plan.Invoices[2].OwnerNativeID)
	assert.Nil(t, plan.Invoices[2].Invoice, "sin periodo no hay issue_date")
	require.NotNil(t, plan.Invoices[0].Invoice.DueDate)
	assert.Equal(t, date(2024, 3, 31), *plan.Invoices[0].Invoice.DueDate)

	require.Len(t, plan.Transactions, 3)
	assert.Equal(t, 2, plan.Skipped, "un cliente y una transacción sin id")
}

func TestBuildLegacyPlan_PrimeraTransaccionGanaYSeReportaConflicto(t *testing.T) {
	plan := ingest.BuildLegacyPlan(legacyFixture())

	assert.Equal(t, "100", plan.Invoices[0].OwnerNativeID, "TX1 aparece antes que TX3")
	require.Len(t, plan.Conflicts, 1)
	assert.Equal(t, ingest.OwnerConflict{InvoiceID: "F1", Chosen: "100", Other: "200"}, plan.Conflicts[0])
}

func TestBuildLegacyPlan_TransaccionSinClienteNoDefineDueno(t *testing.T) {
	plan := ingest.BuildLegacyPlan(
		[]ingest.Record{{"ID_Cliente": "1"}},
		[]ingest.Record{{"ID_Factura": "F9", "Periodo": "2024-01"}},
		[]ingest.Record{
			{"ID_Transaccion": "A", "ID_Factura": "F9", "ID_Cliente": " "},
			{"ID_Transaccion": "B", "ID_Factura": "F9", "ID_Cliente": "1"},
		},
	)
	assert.Equal(t, "1", plan.Invoices[0].OwnerNativeID)
	assert.Empty(t, plan.Conflicts)
}

func TestBuildLegacyPlan_IDRepetidoConservaPosicionYUltimoContenido(t *testing.T) {
	plan := ingest.BuildLegacyPlan(
		[]ingest.Record{
			{"ID_Cliente": "1", "Nombre": "Primero"},
			{"ID_Cliente": "2", "Nombre": "Otro"},
			{"ID_Cliente": "1", "Nombre": "Último"},
		}, nil, nil)

	require.Len(t, plan.Customers, 2)
	assert.Equal(t, "1", plan.Customers[0].NativeID)
	assert.Equal(t, "Último", plan.Customers[0].Customer.FirstName)
}

func TestBuildLegacyPlan_Transacciones(t *testing.T) {
	plan := ingest.BuildLegacyPlan(legacyFixture())

	tx1 := plan.Transactions[0]
	assert.Equal(t, "Nequi", tx1.PlatformName)
	assert.True(t, tx1.Completed)
	assert.Equal(t, "F1", tx1.NativeInvoiceID)
	assert.True(t, tx1.Transaction.Amount.Equal(decimal.NewFromInt(150000)))
	assert.Equal(t, "COP", tx1.Transaction.Currency)
	require.NotNil(t, tx1.Transaction.Description)
	assert.Equal(t, "Estado: Completada; Tipo: Pago", *tx1.Transaction.Description)
	require.NotNil(t, tx1.Transaction.TransactionDate)

	tx2 := plan.Transactions[1]
	assert.Equal(t, "Daviplata", tx2.PlatformName)
	assert.False(t, tx2.Completed)

	tx3 := plan.Transactions[2]
	assert.Equal(t, "Unknown-9", tx3.PlatformName)
	assert.Nil(t, tx3.Transaction.TransactionDate)
	assert.Equal(t, "Estado: Completada; Tipo: N/A", *tx3.Transaction.Description)
}

func TestResolver(t *testing.T) {
	r := ingest.NewResolver()
	r.BindCustomer("100", 7)

	id, ok := r.OwnerOf(ingest.LegacyInvoice{NativeID: "F1", OwnerNativeID: "100"})
	require.True(t, ok)
	assert.Equal(t, int64(7), id)

	_, ok = r.OwnerOf(ingest.LegacyInvoice{NativeID: "F2", OwnerNativeID: "300"})
	assert.False(t, ok)
	_, ok = r.OwnerOf(ingest.LegacyInvoice{NativeID: "F3"})
	assert.False(t, ok)

	_, ok = r.InvoiceID("F1")
	assert.False(t, ok)
	r.BindInvoice("F1", 11)
	id, ok = r.InvoiceID("F1")
	require.True(t, ok)
	assert.Equal(t, int64(11), id)
}
