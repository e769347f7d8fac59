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
	"github.com/tu-usuario/taller-pos/pkg/logger"
)

// CreateSaleUseCase coordina la creación de una venta: valida ítems, calcula
// totales, descuenta inventario con su movimiento pareado, registra pagos y
// deriva el estado de pago — todo en una sola transacción. Los efectos
// colaterales (garantías, notificaciones, SMS) se despachan después del
// commit y nunca afectan el resultado de la venta.
type CreateSaleUseCase struct {
	txRunner     TxRunner
	ledger       *inventory.Ledger
	products     ProductDirectory
	customerRepo repository.CustomerRepository
	locationRepo repository.LocationRepository
	sequenceRepo repository.SequenceRepository
	warranty     WarrantyIssuer
	notifier     Notifier
	sms          SMSSender
	log          *logger.Logger
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(
	txRunner TxRunner,
	ledger *inventory.Ledger,
	products ProductDirectory,
	customerRepo repository.CustomerRepository,
	locationRepo repository.LocationRepository,
	sequenceRepo repository.SequenceRepository,
	warranty WarrantyIssuer,
	notifier Notifier,
	sms SMSSender,
	log *logger.Logger,
) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		products:     products,
		customerRepo: customerRepo,
		locationRepo: locationRepo,
		sequenceRepo: sequenceRepo,
		warranty:     warranty,
		notifier:     notifier,
		sms:          sms,
		log:          log,
	}
}

// CreateSale ejecuta el algoritmo completo de venta. Ver el flujo en el
// comentario del tipo. sellerID viene del token de la petición.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, sellerID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 || in.LocationID == "" || sellerID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Discount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	// Sede
	location, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}

	// Snapshot de cliente: si viene id y faltan campos, se completan del
	// directorio; la venta conserva los valores al momento de crearla.
	customerName, customerPhone, customerEmail := in.CustomerName, in.CustomerPhone, in.CustomerEmail
	if in.CustomerID != "" && (customerName == "" || customerPhone == "" || customerEmail == "") {
		customer, err := uc.customerRepo.GetByID(in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, domain.ErrNotFound
		}
		if customerName == "" {
			customerName = customer.Name
		}
		if customerPhone == "" {
			customerPhone = customer.Phone
		}
		if customerEmail == "" {
			customerEmail = customer.Email
		}
	}

	// Validar productos y precios (fuera de la tx, solo lectura)
	productsByID := make(map[string]*entity.Product, len(in.Items))
	for i := range in.Items {
		item := &in.Items[i]
		if item.ProductID == "" || !item.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		if item.UnitPrice.IsNegative() || item.Discount.IsNegative() || item.Tax.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.products.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if item.UnitPrice.IsZero() {
			item.UnitPrice = product.Price
		}
		productsByID[item.ProductID] = product
	}

	// Normalizar métodos de pago antes de tocar la BD
	type paymentPlan struct {
		amount    decimal.Decimal
		method    string
		reference string
	}
	var payments []paymentPlan
	if len(in.Payments) > 0 {
		for _, p := range in.Payments {
			if !p.Amount.IsPositive() {
				return nil, domain.ErrInvalidInput
			}
			method, ok := entity.NormalizePaymentMethod(p.Method)
			if !ok {
				return nil, fmt.Errorf("%w: método de pago desconocido: %q", domain.ErrInvalidInput, p.Method)
			}
			payments = append(payments, paymentPlan{amount: p.Amount, method: method, reference: p.Reference})
		}
	} else if in.PaidAmount != nil && in.PaidAmount.IsPositive() {
		// Formato legado: un solo monto pagado, efectivo por defecto
		payments = append(payments, paymentPlan{amount: *in.PaidAmount, method: entity.PaymentMethodCash})
	}

	// Totales: subtotal acumula precio*cantidad - descuento por línea; el
	// impuesto se acumula aparte y el descuento de cabecera se resta al final.
	var subtotal, taxTotal decimal.Decimal
	for _, item := range in.Items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(item.Quantity).Sub(item.Discount))
		taxTotal = taxTotal.Add(item.Tax)
	}
	total := subtotal.Add(taxTotal).Sub(in.Discount)
	if total.IsNegative() {
		return nil, fmt.Errorf("%w: el descuento excede el valor de la venta", domain.ErrInvalidInput)
	}

	var paid decimal.Decimal
	for _, p := range payments {
		paid = paid.Add(p.amount)
	}
	balance := paid.Sub(total)

	now := time.Now()
	seq, err := uc.sequenceRepo.Next(SaleScope(now.Year()))
	if err != nil {
		return nil, fmt.Errorf("consecutivo de venta: %w", err)
	}
	number := FormatSaleNumber(now.Year(), seq)

	sale := &entity.Sale{
		ID:            uuid.New().String(),
		Number:        number,
		CustomerID:    in.CustomerID,
		CustomerName:  customerName,
		CustomerPhone: customerPhone,
		CustomerEmail: customerEmail,
		LocationID:    in.LocationID,
		SellerID:      sellerID,
		Subtotal:      subtotal,
		Discount:      in.Discount,
		Tax:           taxTotal,
		Total:         total,
		Paid:          paid,
		Balance:       balance,
		PaymentStatus: entity.DerivePaymentStatus(paid, total),
		Status:        entity.SaleStatusCompleted,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var items []*entity.SaleItem
	var persistedPayments []*entity.Payment

	err = uc.txRunner.RunSales(ctx, func(
		saleRepo repository.SaleRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		paymentRepo repository.PaymentRepository,
		_ repository.RefundRepository,
	) error {
		if err := saleRepo.Create(sale); err != nil {
			return err
		}

		// Por cada línea: bloquear fila de stock, descontar, movimiento
		// pareado y línea con snapshot. Cualquier error hace rollback total.
		for _, item := range in.Items {
			product := productsByID[item.ProductID]
			if _, _, err := uc.ledger.Decrement(stockRepo, movRepo, inventory.LedgerOp{
				ProductID:     item.ProductID,
				ProductName:   product.Name,
				LocationID:    in.LocationID,
				Quantity:      item.Quantity,
				MovementType:  entity.MovementTypeSaleOut,
				ReferenceID:   sale.ID,
				ReferenceKind: entity.ReferenceKindSale,
				Note:          "venta " + number,
				ActorID:       sellerID,
				Now:           now,
			}); err != nil {
				return err
			}
			line := &entity.SaleItem{
				ID:             uuid.New().String(),
				SaleID:         sale.ID,
				ProductID:      item.ProductID,
				ProductName:    product.Name,
				ProductSKU:     product.SKU,
				UnitCost:       product.Cost,
				UnitPrice:      item.UnitPrice,
				Quantity:       item.Quantity,
				Discount:       item.Discount,
				Tax:            item.Tax,
				Subtotal:       item.UnitPrice.Mul(item.Quantity).Sub(item.Discount).Add(item.Tax),
				WarrantyMonths: product.WarrantyMonths,
			}
			if err := saleRepo.CreateItem(line); err != nil {
				return err
			}
			items = append(items, line)
		}

		for i, p := range payments {
			payment := &entity.Payment{
				ID:         uuid.New().String(),
				SaleID:     sale.ID,
				Number:     FormatPaymentNumber(number, i+1),
				Amount:     p.amount,
				Method:     p.method,
				Reference:  p.reference,
				Status:     entity.PaymentConfirmed,
				ReceivedBy: sellerID,
				CreatedAt:  now,
			}
			if err := paymentRepo.Create(payment); err != nil {
				return err
			}
			persistedPayments = append(persistedPayments, payment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Efectos colaterales después del commit: best-effort, nunca fallan la venta.
	go uc.dispatchSideEffects(sale, items, location)

	return toSaleResponse(sale, items, persistedPayments, nil), nil
}

// dispatchSideEffects emite garantías, despacha notificaciones y, si el canal
// primario no confirmó llegada al cliente y hay teléfono, intenta el SMS.
// Corre fuera de la petición: contexto propio y panic contenido.
func (uc *CreateSaleUseCase) dispatchSideEffects(sale *entity.Sale, items []*entity.SaleItem, location *entity.Location) {
	defer func() {
		if r := recover(); r != nil {
			uc.log.Error().Str("sale", sale.Number).Interface("panic", r).
				Msg("pánico en efectos colaterales de venta")
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, item := range items {
		if item.WarrantyMonths <= 0 {
			continue
		}
		if _, err := uc.warranty.IssueFromSaleItem(ctx, sale, item); err != nil {
			uc.log.Warn().Err(err).Str("sale", sale.Number).Str("item", item.ID).
				Msg("emisión de garantía falló")
		}
	}

	reached, err := uc.notifier.NotifySaleCreated(ctx, sale)
	if err != nil {
		uc.log.Warn().Err(err).Str("sale", sale.Number).Msg("notificación de venta falló")
	}
	if !reached && sale.CustomerPhone != "" {
		locationName := ""
		if location != nil {
			locationName = location.Name
		}
		ok, msg, err := uc.sms.SendPlainConfirmation(ctx, sale.CustomerPhone, sale.CustomerName, sale.Number, sale.Total, locationName)
		if err != nil || !ok {
			uc.log.Warn().Err(err).Str("sale", sale.Number).Str("detail", msg).
				Msg("fallback SMS falló")
		}
	}
}
