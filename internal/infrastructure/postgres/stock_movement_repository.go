package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/taller-pos/internal/domain/entity"
	"github.com/tu-usuario/taller-pos/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación de StockMovementRepository sobre PostgreSQL.
// El libro de movimientos es append-only: solo INSERT y SELECT.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta un movimiento en el libro.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, location_id, type, quantity, quantity_before, quantity_after,
			reference_id, reference_kind, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.LocationID, movement.Type,
		movement.Quantity, movement.QuantityBefore, movement.QuantityAfter,
		movement.ReferenceID, movement.ReferenceKind, movement.Note, movement.CreatedBy, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProductLocation lista el libro en orden de creación ascendente.
func (r *StockMovementRepo) ListByProductLocation(productID, locationID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, location_id, type, quantity, quantity_before, quantity_after,
			reference_id, reference_kind, note, created_by, created_at
		FROM stock_movements
		WHERE product_id = $1 AND location_id = $2
		ORDER BY created_at ASC, id ASC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, productID, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var movements []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.LocationID, &m.Type, &m.Quantity, &m.QuantityBefore, &m.QuantityAfter,
			&m.ReferenceID, &m.ReferenceKind, &m.Note, &m.CreatedBy, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		movements = append(movements, &m)
	}
	return movements, rows.Err()
}
