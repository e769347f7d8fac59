package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa la fila de inventario de un producto en una sede.
// Solo se muta a través del InventoryLedger, nunca directamente.
// Invariante: AvailableQuantity = Quantity - ReservedQuantity, siempre >= 0.
type Stock struct {
	ProductID         string
	LocationID        string
	Quantity          decimal.Decimal // existencia física
	ReservedQuantity  decimal.Decimal // apartados (órdenes de taller, separados)
	AvailableQuantity decimal.Decimal
	UpdatedAt         time.Time
}

// Recalculate recalcula la cantidad disponible a partir de existencia y reserva.
func (s *Stock) Recalculate() {
	s.AvailableQuantity = s.Quantity.Sub(s.ReservedQuantity)
}
