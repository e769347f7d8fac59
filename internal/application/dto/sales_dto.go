package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta en el request.
type SaleItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Tax       decimal.Decimal `json:"tax"`
}

// SalePaymentRequest pago incluido en la creación de la venta.
type SalePaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference"`
}

// CreateSaleRequest entrada para crear una venta.
// CustomerID es opcional; los campos Customer* permiten venta de mostrador o
// completan el snapshot cuando el cliente está registrado.
// Payments (formato nuevo) tiene prioridad sobre PaidAmount (formato legado).
type CreateSaleRequest struct {
	CustomerID    string               `json:"customer_id"`
	CustomerName  string               `json:"customer_name"`
	CustomerPhone string               `json:"customer_phone"`
	CustomerEmail string               `json:"customer_email"`
	LocationID    string               `json:"location_id"`
	Discount      decimal.Decimal      `json:"discount"`
	Items         []SaleItemRequest    `json:"items"`
	Payments      []SalePaymentRequest `json:"payments"`
	PaidAmount    *decimal.Decimal     `json:"paid_amount"`
	Notes         string               `json:"notes"`
}

// AddPaymentRequest abono a una venta existente.
type AddPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference"`
}

// RefundItemRequest ítem devuelto físicamente (repone inventario).
type RefundItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateRefundRequest devolución contra una venta.
type CreateRefundRequest struct {
	Amount decimal.Decimal     `json:"amount"`
	Reason string              `json:"reason"`
	Method string              `json:"method"`
	Items  []RefundItemRequest `json:"items"`
}

// CancelSaleRequest cancelación de una venta sin pagos.
type CancelSaleRequest struct {
	Reason string `json:"reason"`
}

// ListSalesRequest filtros del listado de ventas.
type ListSalesRequest struct {
	PageRequest
	LocationID    string `query:"location_id"`
	CustomerID    string `query:"customer_id"`
	SellerID      string `query:"seller_id"`
	Status        string `query:"status"`
	PaymentStatus string `query:"payment_status"`
	From          string `query:"from"` // YYYY-MM-DD
	To            string `query:"to"`
	Search        string `query:"search"`
}

// SaleItemResponse línea de venta en la respuesta.
type SaleItemResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	ProductSKU     string          `json:"product_sku"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Quantity       decimal.Decimal `json:"quantity"`
	Discount       decimal.Decimal `json:"discount"`
	Tax            decimal.Decimal `json:"tax"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	WarrantyMonths int             `json:"warranty_months"`
	WarrantyID     string          `json:"warranty_id,omitempty"`
}

// PaymentResponse pago en la respuesta.
type PaymentResponse struct {
	ID        string          `json:"id"`
	Number    string          `json:"number"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// RefundResponse devolución en la respuesta.
type RefundResponse struct {
	ID        string          `json:"id"`
	Number    string          `json:"number"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason"`
	Method    string          `json:"method"`
	CreatedAt time.Time       `json:"created_at"`
}

// SaleResponse venta completa (cabecera + líneas + pagos + devoluciones).
type SaleResponse struct {
	ID            string             `json:"id"`
	Number        string             `json:"number"`
	CustomerID    string             `json:"customer_id,omitempty"`
	CustomerName  string             `json:"customer_name,omitempty"`
	CustomerPhone string             `json:"customer_phone,omitempty"`
	LocationID    string             `json:"location_id"`
	SellerID      string             `json:"seller_id"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	Tax           decimal.Decimal    `json:"tax"`
	Total         decimal.Decimal    `json:"total"`
	Paid          decimal.Decimal    `json:"paid"`
	Balance       decimal.Decimal    `json:"balance"`
	PaymentStatus string             `json:"payment_status"`
	Status        string             `json:"status"`
	Notes         string             `json:"notes,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	Items         []SaleItemResponse `json:"items,omitempty"`
	Payments      []PaymentResponse  `json:"payments,omitempty"`
	Refunds       []RefundResponse   `json:"refunds,omitempty"`
}
