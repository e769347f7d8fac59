package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeSaleOut       = "SALE_OUT"       // salida por venta
	MovementTypeReturnIn      = "RETURN_IN"      // entrada por devolución
	MovementTypeCancelRestore = "CANCEL_RESTORE" // reversa por cancelación de venta
	MovementTypeEntryIn       = "ENTRY_IN"       // entrada por recepción de mercancía
	MovementTypeAdjust        = "ADJUST"         // ajuste manual (cualquier signo)
)

// Clases de referencia del movimiento.
const (
	ReferenceKindSale   = "sale"
	ReferenceKindRefund = "refund"
	ReferenceKindEntry  = "entry"
)

// StockMovement es una entrada inmutable del libro de inventario: nunca se
// actualiza ni se borra. Reproducir los movimientos de un producto/sede en
// orden de creación reconstruye la existencia actual (fuente de verdad para
// auditoría y conciliación).
type StockMovement struct {
	ID             string
	ProductID      string
	LocationID     string
	Type           string
	Quantity       decimal.Decimal // magnitud con signo: negativa en salidas
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	ReferenceID    string // venta, devolución o entrada que lo originó
	ReferenceKind  string
	Note           string
	CreatedBy      string // UserID
	CreatedAt      time.Time
}

// MovementSign devuelve el signo esperado de Quantity para un tipo de
// movimiento: -1 salida, +1 entrada, 0 cuando admite ambos (ADJUST).
func MovementSign(movementType string) int {
	switch movementType {
	case MovementTypeSaleOut:
		return -1
	case MovementTypeReturnIn, MovementTypeCancelRestore, MovementTypeEntryIn:
		return 1
	default:
		return 0
	}
}
