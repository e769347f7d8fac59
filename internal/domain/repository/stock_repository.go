package repository

import "github.com/tu-usuario/taller-pos/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar la fila de
// inventario por producto+sede. Usado dentro de transacciones para garantizar
// consistencia; retorna nil (sin error) si la fila no existe.
type StockRepository interface {
	Get(productID, locationID string) (*entity.Stock, error)
	Upsert(stock *entity.Stock) error
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(productID, locationID string) (*entity.Stock, error)
}
