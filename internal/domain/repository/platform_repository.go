package repository

import "context"

// PlatformRepository define el puerto de persistencia para Platform.
type PlatformRepository interface {
	// Upsert crea la plataforma si no existe y devuelve su id.
	Upsert(ctx context.Context, name string) (int64, error)
}
