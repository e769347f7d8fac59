package dto

import "github.com/shopspring/decimal"

// RegisterEntryRequest entrada de mercancía o ajuste de inventario.
// adjust=true permite cantidad negativa (merma, conteo físico).
type RegisterEntryRequest struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Adjust     bool            `json:"adjust"`
	Note       string          `json:"note"`
}

// StockResponse existencia de un producto en una sede.
type StockResponse struct {
	ProductID         string          `json:"product_id"`
	LocationID        string          `json:"location_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
}
