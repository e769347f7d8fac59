package sales

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/taller-pos/internal/domain/entity"
	"github.com/tu-usuario/taller-pos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye los
// repositorios del núcleo de ventas. Cualquier error en fn hace rollback
// completo: nunca persisten descuentos de stock ni líneas parciales.
type TxRunner interface {
	RunSales(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		paymentRepo repository.PaymentRepository,
		refundRepo repository.RefundRepository,
	) error) error
}

// ProductDirectory resuelve productos del catálogo (posiblemente con caché).
type ProductDirectory interface {
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
}

// WarrantyIssuer emite la garantía de una línea de venta después del commit.
// Debe ser idempotente: dos llamadas para la misma línea devuelven la misma
// tarjeta, nunca duplican.
type WarrantyIssuer interface {
	IssueFromSaleItem(ctx context.Context, sale *entity.Sale, item *entity.SaleItem) (*entity.WarrantyCard, error)
}

// Notifier despacha avisos de venta creada/cancelada (best-effort, después
// del commit). customerReached indica si se confirmó un canal directo al
// cliente; si es false y hay teléfono conocido, el coordinador intenta el
// fallback por SMS.
type Notifier interface {
	NotifySaleCreated(ctx context.Context, sale *entity.Sale) (customerReached bool, err error)
	NotifySaleCancelled(ctx context.Context, sale *entity.Sale, reason string) error
}

// SMSSender envía la confirmación simple por SMS (fallback del canal primario).
type SMSSender interface {
	SendPlainConfirmation(ctx context.Context, phone, customerName, saleNumber string, total decimal.Decimal, locationName string) (ok bool, message string, err error)
}
