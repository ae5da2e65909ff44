// Command loader carga archivos de pagos desde la terminal y emite tokens de operador para la API.
//
//	loader csv <archivo> [--dry-run]   carga un CSV/XLSX consolidado
//	loader dir [directorio] [--dry-run] carga clientes.csv, facturas.csv y transacciones.csv
//	loader migrate                     aplica las migraciones
//	loader token [--subject s]         emite un JWT de operador para /api/upload
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
