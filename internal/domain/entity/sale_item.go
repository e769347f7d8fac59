package entity

import "github.com/shopspring/decimal"

// SaleItem representa una línea de venta con snapshot de precio, costo y
// garantía al momento de la venta (inmune a cambios posteriores del producto).
// Inmutable después de creada, salvo el enlace a la garantía emitida.
// Subtotal = UnitPrice*Quantity - Discount + Tax.
type SaleItem struct {
	ID             string
	SaleID         string
	ProductID      string
	ProductName    string
	ProductSKU     string
	UnitCost       decimal.Decimal
	UnitPrice      decimal.Decimal
	Quantity       decimal.Decimal
	Discount       decimal.Decimal
	Tax            decimal.Decimal
	Subtotal       decimal.Decimal
	WarrantyMonths int
	WarrantyID     string // se enlaza después del commit, cuando se emite la garantía
}
