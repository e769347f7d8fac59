package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/taller-pos/internal/application/inventory"
	"github.com/tu-usuario/taller-pos/internal/domain"
	"github.com/tu-usuario/taller-pos/internal/domain/entity"
	"github.com/tu-usuario/taller-pos/internal/domain/repository"
	"github.com/tu-usuario/taller-pos/pkg/logger"
)

// CancelSaleUseCase cancela una venta sin pagos: marca CANCELLED, anota la
// razón y repone todo el inventario descontado, con movimientos pareados.
// Una venta con pagos no se cancela: se devuelve (CreateRefund).
type CancelSaleUseCase struct {
	txRunner TxRunner
	ledger   *inventory.Ledger
	saleRepo repository.SaleRepository
	notifier Notifier
	log      *logger.Logger
}

// NewCancelSaleUseCase construye el caso de uso.
func NewCancelSaleUseCase(txRunner TxRunner, ledger *inventory.Ledger, saleRepo repository.SaleRepository, notifier Notifier, log *logger.Logger) *CancelSaleUseCase {
	return &CancelSaleUseCase{txRunner: txRunner, ledger: ledger, saleRepo: saleRepo, notifier: notifier, log: log}
}

// CancelSale valida el estado, revierte stock y marca la venta cancelada.
// CANCELLED es terminal: el doble cancelar falla con ErrInvalidState.
func (uc *CancelSaleUseCase) CancelSale(ctx context.Context, saleID, actorID, reason string) error {
	if saleID == "" || actorID == "" {
		return domain.ErrInvalidInput
	}
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return domain.ErrNotFound
	}
	if sale.Status == entity.SaleStatusCancelled {
		return fmt.Errorf("%w: la venta ya está cancelada", domain.ErrInvalidState)
	}
	if sale.Status == entity.SaleStatusRefunded || sale.Status == entity.SaleStatusPartialRefund {
		return fmt.Errorf("%w: la venta tiene devoluciones", domain.ErrInvalidState)
	}
	if sale.Paid.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: la venta tiene pagos; debe devolverse, no cancelarse", domain.ErrInvalidState)
	}

	now := time.Now()

	err = uc.txRunner.RunSales(ctx, func(
		saleRepo repository.SaleRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		_ repository.PaymentRepository,
		_ repository.RefundRepository,
	) error {
		current, err := saleRepo.GetByID(saleID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if current.Status == entity.SaleStatusCancelled {
			return fmt.Errorf("%w: la venta ya está cancelada", domain.ErrInvalidState)
		}

		items, err := saleRepo.GetItems(saleID)
		if err != nil {
			return err
		}
		// Reversa completa del descuento original, línea por línea
		for _, item := range items {
			if _, _, err := uc.ledger.Increment(stockRepo, movRepo, inventory.LedgerOp{
				ProductID:     item.ProductID,
				ProductName:   item.ProductName,
				LocationID:    current.LocationID,
				Quantity:      item.Quantity,
				MovementType:  entity.MovementTypeCancelRestore,
				ReferenceID:   current.ID,
				ReferenceKind: entity.ReferenceKindSale,
				Note:          "cancelación " + current.Number,
				ActorID:       actorID,
				Now:           now,
			}); err != nil {
				return err
			}
		}

		current.Status = entity.SaleStatusCancelled
		if reason != "" {
			if current.Notes != "" {
				current.Notes += "\n"
			}
			current.Notes += "Cancelada: " + reason
		}
		current.UpdatedAt = now
		return saleRepo.Update(current)
	})
	if err != nil {
		return err
	}

	// Notificación de cancelación: best-effort después del commit
	go func() {
		defer func() {
			if r := recover(); r != nil {
				uc.log.Error().Str("sale", sale.Number).Interface("panic", r).
					Msg("pánico notificando cancelación")
			}
		}()
		nctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := uc.notifier.NotifySaleCancelled(nctx, sale, reason); err != nil {
			uc.log.Warn().Err(err).Str("sale", sale.Number).Msg("notificación de cancelación falló")
		}
	}()

	return nil
}
