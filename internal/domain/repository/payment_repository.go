package repository

import "github.com/tu-usuario/taller-pos/internal/domain/entity"

// PaymentRepository define el puerto de persistencia para pagos.
type PaymentRepository interface {
	Create(payment *entity.Payment) error
	ListBySale(saleID string) ([]*entity.Payment, error)
	// CountBySale cuenta los pagos existentes (para derivar PAY-<venta>-<n>).
	CountBySale(saleID string) (int, error)
}
