package entity

import "time"

// WarrantyCard representa la garantía emitida para una línea de venta.
// La emisión es idempotente: una línea tiene a lo sumo una tarjeta (constraint
// único sobre SaleItemID); reintentar la emisión devuelve la existente.
type WarrantyCard struct {
	ID         string
	SaleItemID string
	SaleID     string
	ProductID  string
	CustomerID string
	Months     int
	StartsAt   time.Time
	ExpiresAt  time.Time
	CreatedAt  time.Time
}
