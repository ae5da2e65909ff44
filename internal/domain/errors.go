package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrMissingSourceFile = errors.New("faltan archivos CSV de origen")
	ErrSourceUnreadable  = errors.New("no se pudo leer el archivo de origen")
	ErrUnsupportedSource = errors.New("formato de archivo no soportado")
)
