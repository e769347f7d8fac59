package repository

import "github.com/tu-usuario/taller-pos/internal/domain/entity"

// WarrantyRepository define el puerto de persistencia de garantías.
type WarrantyRepository interface {
	Create(card *entity.WarrantyCard) error
	// GetBySaleItem devuelve la garantía de la línea, o nil si no existe.
	GetBySaleItem(saleItemID string) (*entity.WarrantyCard, error)
}
