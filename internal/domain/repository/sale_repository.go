package repository

import (
	"time"

	"github.com/tu-usuario/taller-pos/internal/domain/entity"
)

// SaleFilter filtros de búsqueda para el listado de ventas.
// Search aplica sobre número de venta, nombre y teléfono del cliente.
type SaleFilter struct {
	LocationID    string
	CustomerID    string
	SellerID      string
	Status        string
	PaymentStatus string
	From          *time.Time
	To            *time.Time
	Search        string
}

// SaleRepository define el puerto de persistencia para Sale y sus líneas.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	// Update actualiza los campos mutables de la cabecera:
	// paid, balance, payment_status, status, notes, updated_at.
	Update(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	GetItems(saleID string) ([]*entity.SaleItem, error)
	List(filter SaleFilter, limit, offset int) ([]*entity.Sale, error)
	// LinkItemWarranty enlaza la garantía emitida a su línea de venta.
	LinkItemWarranty(itemID, warrantyID string) error
}
