package repository

import "github.com/tu-usuario/taller-pos/internal/domain/entity"

// StockMovementRepository define el puerto del libro de movimientos.
// Solo inserta y lista: los movimientos nunca se actualizan ni se borran.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	// ListByProductLocation lista en orden de creación ascendente, para poder
	// reproducir el libro y reconstruir la existencia actual.
	ListByProductLocation(productID, locationID string, limit, offset int) ([]*entity.StockMovement, error)
}
