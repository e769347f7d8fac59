package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/taller-pos/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo generador de consecutivos sobre una fila contadora por scope.
// El UPDATE del upsert toma row lock sobre la fila del scope: dos creaciones
// concurrentes del mismo año se serializan y nunca reciben el mismo valor.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el generador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el contador del scope de forma atómica.
func (r *SequenceRepo) Next(scope string) (int64, error) {
	query := `
		INSERT INTO sequences (scope, value) VALUES ($1, 1)
		ON CONFLICT (scope) DO UPDATE SET value = sequences.value + 1
		RETURNING value`
	var value int64
	if err := r.q.QueryRow(context.Background(), query, scope).Scan(&value); err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", scope, err)
	}
	return value, nil
}
