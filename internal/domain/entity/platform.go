package entity

// Plataformas de pago conocidas por código numérico en las exportaciones heredadas.
const (
	PlatformNequi     = "Nequi"
	PlatformDaviplata = "Daviplata"
)

// Platform canal de pago (Nequi, Daviplata, ...). Se crea en la primera referencia.
type Platform struct {
	ID   int64
	Name string
}
