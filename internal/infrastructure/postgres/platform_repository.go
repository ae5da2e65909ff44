package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Recaudo-api/internal/domain/repository"
)

var _ repository.PlatformRepository = (*PlatformRepo)(nil)

// PlatformRepo implementación de PlatformRepository (usable con pool o tx).
type PlatformRepo struct {
	q Querier
}

// NewPlatformRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPlatformRepository(q Querier) *PlatformRepo {
	return &PlatformRepo{q: q}
}

// Upsert devuelve el id de la plataforma, creándola si no existe. El DO UPDATE no cambia nada pero
// permite que RETURNING devuelva el id existente.
func (r *PlatformRepo) Upsert(ctx context.Context, name string) (int64, error) {
	query := `
		INSERT INTO platforms (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`
	var id int64
	if err := r.q.QueryRow(ctx, query, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert platform %q: %w", name, err)
	}
	return id, nil
}
