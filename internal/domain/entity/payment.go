package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago válidos (conjunto cerrado).
const (
	PaymentMethodCash     = "CASH"
	PaymentMethodCard     = "CARD"
	PaymentMethodTransfer = "TRANSFER"
	PaymentMethodWallet   = "WALLET"
)

// Estados de un pago individual.
const (
	PaymentConfirmed = "CONFIRMED"
	PaymentVoided    = "VOIDED"
)

// Payment representa un pago recibido contra una venta. Una venta puede tener
// varios pagos (abonos, pago dividido).
type Payment struct {
	ID         string
	SaleID     string
	Number     string // PAY-<saleNumber>-<n>
	Amount     decimal.Decimal
	Method     string
	Reference  string // voucher, número de transferencia, etc.
	Status     string
	ReceivedBy string // UserID
	CreatedAt  time.Time
}

// methodAliases normaliza entradas libres de los clientes al conjunto cerrado.
var methodAliases = map[string]string{
	"cash":          PaymentMethodCash,
	"efectivo":      PaymentMethodCash,
	"contado":       PaymentMethodCash,
	"card":          PaymentMethodCard,
	"tarjeta":       PaymentMethodCard,
	"credit_card":   PaymentMethodCard,
	"debit_card":    PaymentMethodCard,
	"transfer":      PaymentMethodTransfer,
	"transferencia": PaymentMethodTransfer,
	"bank":          PaymentMethodTransfer,
	"bank_transfer": PaymentMethodTransfer,
	"consignacion":  PaymentMethodTransfer,
	"wallet":        PaymentMethodWallet,
	"billetera":     PaymentMethodWallet,
	"nequi":         PaymentMethodWallet,
	"daviplata":     PaymentMethodWallet,
}

// NormalizePaymentMethod convierte un método en texto libre al conjunto cerrado.
// Vacío se interpreta como efectivo (pago legado por monto). Un valor no
// reconocido retorna ok=false: nunca se persiste un método fuera del conjunto.
func NormalizePaymentMethod(raw string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return PaymentMethodCash, true
	}
	switch strings.ToUpper(s) {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodWallet:
		return strings.ToUpper(s), true
	}
	if m, ok := methodAliases[s]; ok {
		return m, true
	}
	return "", false
}
