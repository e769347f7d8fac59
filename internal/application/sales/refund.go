package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/taller-pos/internal/application/dto"
	"github.com/tu-usuario/taller-pos/internal/application/inventory"
	"github.com/tu-usuario/taller-pos/internal/domain"
	"github.com/tu-usuario/taller-pos/internal/domain/entity"
	"github.com/tu-usuario/taller-pos/internal/domain/repository"
)

// Límites configurables para el acumulado de devoluciones.
// "total": nunca devolver más que el total de la venta (comportamiento
// histórico). "paid": más estricto, nunca devolver más de lo cobrado.
const (
	RefundBoundTotal = "total"
	RefundBoundPaid  = "paid"
)

// RefundUseCase procesa devoluciones: valida el límite acumulado, repone
// inventario de los ítems devueltos físicamente y deriva el nuevo estado de
// la venta (REFUNDED o PARTIAL_REFUND). No toca paid/balance: quedan como
// registro histórico de lo cobrado.
type RefundUseCase struct {
	txRunner    TxRunner
	ledger      *inventory.Ledger
	saleRepo    repository.SaleRepository
	refundBound string
}

// NewRefundUseCase construye el caso de uso. bound debe ser RefundBoundTotal
// o RefundBoundPaid; vacío equivale a RefundBoundTotal.
func NewRefundUseCase(txRunner TxRunner, ledger *inventory.Ledger, saleRepo repository.SaleRepository, bound string) *RefundUseCase {
	if bound == "" {
		bound = RefundBoundTotal
	}
	return &RefundUseCase{txRunner: txRunner, ledger: ledger, saleRepo: saleRepo, refundBound: bound}
}

// CreateRefund inserta la devolución y aplica sus efectos en una transacción.
func (uc *RefundUseCase) CreateRefund(ctx context.Context, saleID, processedBy string, in dto.CreateRefundRequest) (*dto.RefundResponse, error) {
	if saleID == "" || !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	method, ok := entity.NormalizePaymentMethod(in.Method)
	if !ok {
		return nil, fmt.Errorf("%w: método de devolución desconocido: %q", domain.ErrInvalidInput, in.Method)
	}

	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.Status == entity.SaleStatusCancelled {
		return nil, fmt.Errorf("%w: la venta está cancelada", domain.ErrInvalidState)
	}

	// Ítems devueltos: deben corresponder a líneas de la venta y no exceder
	// la cantidad vendida del producto.
	items, err := uc.saleRepo.GetItems(saleID)
	if err != nil {
		return nil, err
	}
	soldByProduct := make(map[string]decimal.Decimal, len(items))
	nameByProduct := make(map[string]string, len(items))
	for _, it := range items {
		soldByProduct[it.ProductID] = soldByProduct[it.ProductID].Add(it.Quantity)
		nameByProduct[it.ProductID] = it.ProductName
	}
	for _, r := range in.Items {
		if !r.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		sold, ok := soldByProduct[r.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: el producto %s no pertenece a la venta", domain.ErrInvalidInput, r.ProductID)
		}
		if r.Quantity.GreaterThan(sold) {
			return nil, fmt.Errorf("%w: devolución mayor a lo vendido para %s", domain.ErrInvalidInput, r.ProductID)
		}
	}

	now := time.Now()
	refund := &entity.Refund{
		ID:          uuid.New().String(),
		SaleID:      saleID,
		Number:      FormatRefundNumber(now),
		Amount:      in.Amount,
		Reason:      in.Reason,
		Method:      method,
		ProcessedBy: processedBy,
		CreatedAt:   now,
	}

	err = uc.txRunner.RunSales(ctx, func(
		saleRepo repository.SaleRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		_ repository.PaymentRepository,
		refundRepo repository.RefundRepository,
	) error {
		current, err := saleRepo.GetByID(saleID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		// La venta pudo cancelarse entre la lectura inicial y la tx
		if current.Status == entity.SaleStatusCancelled {
			return fmt.Errorf("%w: la venta está cancelada", domain.ErrInvalidState)
		}

		prior, err := refundRepo.SumBySale(saleID)
		if err != nil {
			return err
		}
		bound := current.Total
		if uc.refundBound == RefundBoundPaid {
			bound = current.Paid
		}
		if prior.Add(in.Amount).GreaterThan(bound) {
			return fmt.Errorf("%w: devoluciones acumuladas %s + %s exceden el límite %s",
				domain.ErrInvalidInput, prior, in.Amount, bound)
		}

		if err := refundRepo.Create(refund); err != nil {
			return err
		}

		// Reponer inventario de los ítems devueltos físicamente
		for _, r := range in.Items {
			if _, _, err := uc.ledger.Increment(stockRepo, movRepo, inventory.LedgerOp{
				ProductID:     r.ProductID,
				ProductName:   nameByProduct[r.ProductID],
				LocationID:    current.LocationID,
				Quantity:      r.Quantity,
				MovementType:  entity.MovementTypeReturnIn,
				ReferenceID:   refund.ID,
				ReferenceKind: entity.ReferenceKindRefund,
				Note:          "devolución " + refund.Number,
				ActorID:       processedBy,
				Now:           now,
			}); err != nil {
				return err
			}
		}

		// PARTIAL_REFUND es re-entrante; al cubrir el total pasa a REFUNDED
		// (terminal, nunca vuelve a COMPLETED).
		cumulative := prior.Add(in.Amount)
		if cumulative.GreaterThanOrEqual(current.Total) {
			current.Status = entity.SaleStatusRefunded
			current.PaymentStatus = entity.PaymentStatusRefunded
		} else {
			current.Status = entity.SaleStatusPartialRefund
		}
		current.UpdatedAt = now
		return saleRepo.Update(current)
	})
	if err != nil {
		return nil, err
	}

	return &dto.RefundResponse{
		ID:        refund.ID,
		Number:    refund.Number,
		Amount:    refund.Amount,
		Reason:    refund.Reason,
		Method:    refund.Method,
		CreatedAt: refund.CreatedAt,
	}, nil
}
