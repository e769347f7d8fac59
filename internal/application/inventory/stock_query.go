package inventory

import (
	"context"

	"github.com/tu-usuario/taller-pos/internal/domain"
	"github.com/tu-usuario/taller-pos/internal/domain/entity"
	"github.com/tu-usuario/taller-pos/internal/domain/repository"
)

// StockQueryUseCase consulta de existencia por producto y sede. Solo lectura,
// fuera de transacción: la verificación definitiva para vender sigue ocurriendo
// bajo el lock del ledger.
type StockQueryUseCase struct {
	stockRepo repository.StockRepository
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(stockRepo repository.StockRepository) *StockQueryUseCase {
	return &StockQueryUseCase{stockRepo: stockRepo}
}

// GetStock devuelve la fila de inventario del producto en la sede.
// Un producto sin fila en la sede nunca ha tenido existencia: ErrNotFound.
func (uc *StockQueryUseCase) GetStock(ctx context.Context, productID, locationID string) (*entity.Stock, error) {
	if productID == "" || locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	stock, err := uc.stockRepo.Get(productID, locationID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, domain.ErrNotFound
	}
	return stock, nil
}
