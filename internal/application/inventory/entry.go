package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/taller-pos/internal/domain"
	"github.com/tu-usuario/taller-pos/internal/domain/entity"
	"github.com/tu-usuario/taller-pos/internal/domain/repository"
)

// EntryUseCase registra entradas de mercancía (recepción y ajustes) a una
// sede, con la misma disciplina de transacción y bloqueo que las ventas.
type EntryUseCase struct {
	txRunner    TxRunner
	ledger      *Ledger
	productRepo repository.ProductRepository
}

// NewEntryUseCase construye el caso de uso.
func NewEntryUseCase(txRunner TxRunner, ledger *Ledger, productRepo repository.ProductRepository) *EntryUseCase {
	return &EntryUseCase{txRunner: txRunner, ledger: ledger, productRepo: productRepo}
}

// EntryInput entrada de mercancía: cantidad positiva para ENTRY_IN; ADJUST
// admite negativo (merma, conteo físico).
type EntryInput struct {
	ProductID  string
	LocationID string
	Quantity   decimal.Decimal
	Adjust     bool
	Note       string
	ActorID    string
}

// RegisterEntry valida el producto, abre una transacción y aplica la entrada
// (o ajuste) con su movimiento pareado.
func (uc *EntryUseCase) RegisterEntry(ctx context.Context, in EntryInput) error {
	if in.ProductID == "" || in.LocationID == "" || in.Quantity.IsZero() {
		return domain.ErrInvalidInput
	}
	if !in.Adjust && !in.Quantity.IsPositive() {
		return fmt.Errorf("%w: la recepción requiere cantidad positiva", domain.ErrInvalidInput)
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}

	now := time.Now()
	entryID := uuid.New().String()

	return uc.txRunner.RunInventory(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		movementType := entity.MovementTypeEntryIn
		if in.Adjust {
			movementType = entity.MovementTypeAdjust
		}
		op := LedgerOp{
			ProductID:     in.ProductID,
			ProductName:   product.Name,
			LocationID:    in.LocationID,
			Quantity:      in.Quantity.Abs(),
			MovementType:  movementType,
			ReferenceID:   entryID,
			ReferenceKind: entity.ReferenceKindEntry,
			Note:          in.Note,
			ActorID:       in.ActorID,
			Now:           now,
		}
		if in.Adjust && in.Quantity.IsNegative() {
			_, _, err := uc.ledger.Decrement(stockRepo, movRepo, op)
			return err
		}
		_, _, err := uc.ledger.Increment(stockRepo, movRepo, op)
		return err
	})
}
