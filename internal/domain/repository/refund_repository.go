package repository

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/taller-pos/internal/domain/entity"
)

// RefundRepository define el puerto de persistencia para devoluciones.
type RefundRepository interface {
	Create(refund *entity.Refund) error
	ListBySale(saleID string) ([]*entity.Refund, error)
	// SumBySale devuelve el acumulado de devoluciones de la venta.
	SumBySale(saleID string) (decimal.Decimal, error)
}
