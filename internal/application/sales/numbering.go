package sales

import (
	"fmt"
	"time"
)

// Formatos de identificadores legibles. Deben preservarse tal cual:
// SALE-<año>-<consecutivo de 4 dígitos>, PAY-<número de venta>-<n>,
// REF-<año>-<epoch-millis>.

// SaleScope scope anual del consecutivo de ventas (ej. "SALE-2026").
func SaleScope(year int) string {
	return fmt.Sprintf("SALE-%d", year)
}

// FormatSaleNumber arma el número legible de la venta.
func FormatSaleNumber(year int, seq int64) string {
	return fmt.Sprintf("SALE-%d-%04d", year, seq)
}

// FormatPaymentNumber arma el número del n-ésimo pago de una venta.
func FormatPaymentNumber(saleNumber string, n int) string {
	return fmt.Sprintf("PAY-%s-%d", saleNumber, n)
}

// FormatRefundNumber arma el número de devolución con marca de tiempo.
func FormatRefundNumber(at time.Time) string {
	return fmt.Sprintf("REF-%d-%d", at.Year(), at.UnixMilli())
}
