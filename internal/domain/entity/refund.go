package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Refund representa una devolución de dinero contra una venta.
// Invariante (verificada por el caso de uso): la suma de devoluciones de una
// venta nunca supera el límite configurado (total de la venta o monto pagado).
type Refund struct {
	ID          string
	SaleID      string
	Number      string // REF-<año>-<epoch-millis>
	Amount      decimal.Decimal
	Reason      string
	Method      string
	ProcessedBy string // UserID
	CreatedAt   time.Time
}
