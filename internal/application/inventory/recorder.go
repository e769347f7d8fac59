package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/taller-pos/internal/domain"
	"github.com/tu-usuario/taller-pos/internal/domain/entity"
	"github.com/tu-usuario/taller-pos/internal/domain/repository"
)

// Recorder escribe entradas en el libro de movimientos de inventario.
// Solo inserta: verifica la consistencia aritmética de la entrada y la
// persiste. Ninguna otra pieza del sistema escribe movimientos.
type Recorder struct{}

// NewRecorder construye el recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// MovementEntry datos para una entrada del libro.
type MovementEntry struct {
	ProductID      string
	LocationID     string
	Type           string
	Quantity       decimal.Decimal // con signo
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	ReferenceID    string
	ReferenceKind  string
	Note           string
	CreatedBy      string
	Now            time.Time
}

// Append valida y persiste la entrada usando el repositorio atado a la
// transacción del caller. Verifica que QuantityAfter == QuantityBefore +
// Quantity y que el signo de Quantity corresponda al tipo de movimiento.
func (r *Recorder) Append(movRepo repository.StockMovementRepository, e MovementEntry) error {
	if e.Quantity.IsZero() {
		return fmt.Errorf("%w: movimiento con cantidad cero", domain.ErrInvalidInput)
	}
	switch sign := entity.MovementSign(e.Type); {
	case sign < 0 && !e.Quantity.IsNegative():
		return fmt.Errorf("%w: movimiento %s requiere cantidad negativa", domain.ErrInvalidInput, e.Type)
	case sign > 0 && !e.Quantity.IsPositive():
		return fmt.Errorf("%w: movimiento %s requiere cantidad positiva", domain.ErrInvalidInput, e.Type)
	}
	if !e.QuantityAfter.Equal(e.QuantityBefore.Add(e.Quantity)) {
		return fmt.Errorf("%w: movimiento inconsistente: %s + %s != %s",
			domain.ErrInvalidInput, e.QuantityBefore, e.Quantity, e.QuantityAfter)
	}
	return movRepo.Create(&entity.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      e.ProductID,
		LocationID:     e.LocationID,
		Type:           e.Type,
		Quantity:       e.Quantity,
		QuantityBefore: e.QuantityBefore,
		QuantityAfter:  e.QuantityAfter,
		ReferenceID:    e.ReferenceID,
		ReferenceKind:  e.ReferenceKind,
		Note:           e.Note,
		CreatedBy:      e.CreatedBy,
		CreatedAt:      e.Now,
	})
}

// Replay reproduce los movimientos de un producto/sede en orden de creación a
// partir de una existencia inicial y devuelve la existencia resultante.
// Herramienta de conciliación: el resultado debe coincidir con stock.Quantity.
func Replay(initial decimal.Decimal, movements []*entity.StockMovement) decimal.Decimal {
	qty := initial
	for _, m := range movements {
		qty = qty.Add(m.Quantity)
	}
	return qty
}
