package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/taller-pos/internal/domain"
	"github.com/tu-usuario/taller-pos/internal/domain/entity"
	"github.com/tu-usuario/taller-pos/internal/domain/repository"
)

// Ledger es el único punto de mutación del inventario: verifica
// disponibilidad, descuenta o repone existencia y deja cada mutación pareada
// con su movimiento en la misma transacción. Opera sobre repositorios atados
// a la transacción del caller; el bloqueo de fila (SELECT FOR UPDATE)
// serializa ventas concurrentes sobre el mismo producto/sede.
type Ledger struct {
	recorder *Recorder
}

// NewLedger construye el ledger con su recorder.
func NewLedger(recorder *Recorder) *Ledger {
	return &Ledger{recorder: recorder}
}

// LedgerOp describe una operación de inventario a aplicar.
type LedgerOp struct {
	ProductID     string
	ProductName   string // para el mensaje de faltante
	LocationID    string
	Quantity      decimal.Decimal // magnitud positiva
	MovementType  string
	ReferenceID   string
	ReferenceKind string
	Note          string
	ActorID       string
	Now           time.Time
}

// CheckAvailable verifica si hay disponibilidad suficiente sin bloquear la fila.
// Solo informativo: la verificación definitiva ocurre bajo el lock en Decrement.
func (l *Ledger) CheckAvailable(stockRepo repository.StockRepository, productID, locationID string, qty decimal.Decimal) (bool, error) {
	stock, err := stockRepo.Get(productID, locationID)
	if err != nil {
		return false, err
	}
	if stock == nil {
		return false, nil
	}
	return stock.AvailableQuantity.GreaterThanOrEqual(qty), nil
}

// Decrement bloquea la fila, verifica disponibilidad y descuenta existencia.
// Retorna ErrNotFound si el producto no tiene fila de inventario en la sede y
// StockShortageError (envuelve ErrInsufficientStock) si la disponibilidad es
// insuficiente. Devuelve existencia antes y después para auditoría.
func (l *Ledger) Decrement(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	op LedgerOp,
) (before, after decimal.Decimal, err error) {
	if !op.Quantity.IsPositive() {
		return decimal.Zero, decimal.Zero, domain.ErrInvalidInput
	}
	stock, err := stockRepo.GetForUpdate(op.ProductID, op.LocationID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if stock == nil {
		return decimal.Zero, decimal.Zero, domain.ErrNotFound
	}
	if stock.AvailableQuantity.LessThan(op.Quantity) {
		return decimal.Zero, decimal.Zero, &domain.StockShortageError{
			ProductID:   op.ProductID,
			ProductName: op.ProductName,
			LocationID:  op.LocationID,
			Available:   stock.AvailableQuantity,
			Required:    op.Quantity,
		}
	}
	before = stock.Quantity
	stock.Quantity = stock.Quantity.Sub(op.Quantity)
	stock.Recalculate()
	stock.UpdatedAt = op.Now
	if err := stockRepo.Upsert(stock); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	after = stock.Quantity
	err = l.recorder.Append(movRepo, MovementEntry{
		ProductID:      op.ProductID,
		LocationID:     op.LocationID,
		Type:           op.MovementType,
		Quantity:       op.Quantity.Neg(),
		QuantityBefore: before,
		QuantityAfter:  after,
		ReferenceID:    op.ReferenceID,
		ReferenceKind:  op.ReferenceKind,
		Note:           op.Note,
		CreatedBy:      op.ActorID,
		Now:            op.Now,
	})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return before, after, nil
}

// Increment bloquea la fila (creándola en cero si no existe) y repone
// existencia. Usado por devoluciones, cancelaciones y recepción de mercancía.
func (l *Ledger) Increment(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	op LedgerOp,
) (before, after decimal.Decimal, err error) {
	if !op.Quantity.IsPositive() {
		return decimal.Zero, decimal.Zero, domain.ErrInvalidInput
	}
	stock, err := stockRepo.GetForUpdate(op.ProductID, op.LocationID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if stock == nil {
		stock = &entity.Stock{
			ProductID:  op.ProductID,
			LocationID: op.LocationID,
			Quantity:   decimal.Zero,
		}
	}
	before = stock.Quantity
	stock.Quantity = stock.Quantity.Add(op.Quantity)
	stock.Recalculate()
	stock.UpdatedAt = op.Now
	if err := stockRepo.Upsert(stock); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	after = stock.Quantity
	err = l.recorder.Append(movRepo, MovementEntry{
		ProductID:      op.ProductID,
		LocationID:     op.LocationID,
		Type:           op.MovementType,
		Quantity:       op.Quantity,
		QuantityBefore: before,
		QuantityAfter:  after,
		ReferenceID:    op.ReferenceID,
		ReferenceKind:  op.ReferenceKind,
		Note:           op.Note,
		CreatedBy:      op.ActorID,
		Now:            op.Now,
	})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return before, after, nil
}
