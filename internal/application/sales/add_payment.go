package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/taller-pos/internal/application/dto"
	"github.com/tu-usuario/taller-pos/internal/domain"
	"github.com/tu-usuario/taller-pos/internal/domain/entity"
	"github.com/tu-usuario/taller-pos/internal/domain/repository"
)

// AddPaymentUseCase agrega un abono a una venta existente y recalcula
// paid/balance/estado de pago en la misma transacción.
// El estado de la venta (Status) no cambia por un pago.
type AddPaymentUseCase struct {
	txRunner TxRunner
	saleRepo repository.SaleRepository
}

// NewAddPaymentUseCase construye el caso de uso.
func NewAddPaymentUseCase(txRunner TxRunner, saleRepo repository.SaleRepository) *AddPaymentUseCase {
	return &AddPaymentUseCase{txRunner: txRunner, saleRepo: saleRepo}
}

// AddPayment valida la venta y el método, inserta el pago con su número
// derivado (PAY-<venta>-<n>) y actualiza la cabecera.
// Invariante después de cada abono: balance = paid - total.
func (uc *AddPaymentUseCase) AddPayment(ctx context.Context, saleID, receivedBy string, in dto.AddPaymentRequest) (*dto.PaymentResponse, error) {
	if saleID == "" || !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	method, ok := entity.NormalizePaymentMethod(in.Method)
	if !ok {
		return nil, fmt.Errorf("%w: método de pago desconocido: %q", domain.ErrInvalidInput, in.Method)
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

	now := time.Now()
	var payment *entity.Payment

	err = uc.txRunner.RunSales(ctx, func(
		saleRepo repository.SaleRepository,
		_ repository.StockRepository,
		_ repository.StockMovementRepository,
		paymentRepo repository.PaymentRepository,
		_ repository.RefundRepository,
	) error {
		// Releer dentro de la tx: el conteo y la cabecera deben ser los vigentes
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
		count, err := paymentRepo.CountBySale(saleID)
		if err != nil {
			return err
		}
		payment = &entity.Payment{
			ID:         uuid.New().String(),
			SaleID:     saleID,
			Number:     FormatPaymentNumber(current.Number, count+1),
			Amount:     in.Amount,
			Method:     method,
			Reference:  in.Reference,
			Status:     entity.PaymentConfirmed,
			ReceivedBy: receivedBy,
			CreatedAt:  now,
		}
		if err := paymentRepo.Create(payment); err != nil {
			return err
		}

		current.Paid = current.Paid.Add(in.Amount)
		current.Balance = current.Paid.Sub(current.Total)
		if current.Paid.GreaterThanOrEqual(current.Total) {
			current.PaymentStatus = entity.PaymentStatusCompleted
		} else {
			current.PaymentStatus = entity.PaymentStatusPartial
		}
		current.UpdatedAt = now
		return saleRepo.Update(current)
	})
	if err != nil {
		return nil, err
	}

	return &dto.PaymentResponse{
		ID:        payment.ID,
		Number:    payment.Number,
		Amount:    payment.Amount,
		Method:    payment.Method,
		Reference: payment.Reference,
		Status:    payment.Status,
		CreatedAt: payment.CreatedAt,
	}, nil
}
