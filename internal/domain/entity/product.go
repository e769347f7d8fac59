package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo (directorio maestro, solo
// lectura para el núcleo de ventas).
type Product struct {
	ID             string
	SKU            string
	Name           string
	Description    string
	Cost           decimal.Decimal
	Price          decimal.Decimal
	TaxRate        decimal.Decimal // fracción: 0.19 = 19%
	WarrantyMonths int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
