package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una venta.
// CANCELLED y REFUNDED son terminales; PARTIAL_REFUND solo avanza a REFUNDED.
const (
	SaleStatusDraft         = "DRAFT"
	SaleStatusCompleted     = "COMPLETED"
	SaleStatusCancelled     = "CANCELLED"
	SaleStatusRefunded      = "REFUNDED"
	SaleStatusPartialRefund = "PARTIAL_REFUND"
)

// Estados de pago de una venta.
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusPartial   = "PARTIAL"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusRefunded  = "REFUNDED"
)

// Sale representa la cabecera de una venta en un punto de venta (tienda o taller).
// Los campos Customer* son un snapshot al momento de la venta: si el cliente
// cambia después, la venta conserva los datos históricos.
// Invariante: Balance = Paid - Total (positivo = vuelto, negativo = saldo pendiente).
type Sale struct {
	ID            string
	Number        string // SALE-<año>-<consecutivo de 4 dígitos>, único
	CustomerID    string // opcional: venta de mostrador sin cliente registrado
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	LocationID    string
	SellerID      string
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal // descuento a nivel cabecera
	Tax           decimal.Decimal
	Total         decimal.Decimal
	Paid          decimal.Decimal
	Balance       decimal.Decimal
	PaymentStatus string
	Status        string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DerivePaymentStatus calcula el estado de pago a partir de paid vs total.
func DerivePaymentStatus(paid, total decimal.Decimal) string {
	switch {
	case paid.GreaterThanOrEqual(total) && total.GreaterThan(decimal.Zero):
		return PaymentStatusCompleted
	case paid.GreaterThan(decimal.Zero) && paid.LessThan(total):
		return PaymentStatusPartial
	case total.IsZero() && paid.GreaterThanOrEqual(decimal.Zero):
		return PaymentStatusCompleted
	default:
		return PaymentStatusPending
	}
}
