package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/taller-pos/internal/domain"
	"github.com/tu-usuario/taller-pos/internal/domain/entity"
	"github.com/tu-usuario/taller-pos/internal/domain/repository"
)

var _ repository.RefundRepository = (*RefundRepo)(nil)

// RefundRepo implementación de RefundRepository sobre PostgreSQL (usable con pool o tx).
type RefundRepo struct {
	q Querier
}

// NewRefundRepository construye el adaptador de devoluciones. Pasar pool o tx (Querier).
func NewRefundRepository(q Querier) *RefundRepo {
	return &RefundRepo{q: q}
}

// Create persiste una devolución.
func (r *RefundRepo) Create(refund *entity.Refund) error {
	query := `
		INSERT INTO refunds (id, sale_id, number, amount, reason, method, processed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		refund.ID, refund.SaleID, refund.Number, refund.Amount, refund.Reason,
		refund.Method, refund.ProcessedBy, refund.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert refund: %w", err)
	}
	return nil
}

// ListBySale lista las devoluciones de la venta en orden de creación.
func (r *RefundRepo) ListBySale(saleID string) ([]*entity.Refund, error) {
	query := `
		SELECT id, sale_id, number, amount, reason, method, processed_by, created_at
		FROM refunds WHERE sale_id = $1 ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list refunds: %w", err)
	}
	defer rows.Close()

	var refunds []*entity.Refund
	for rows.Next() {
		var rf entity.Refund
		if err := rows.Scan(
			&rf.ID, &rf.SaleID, &rf.Number, &rf.Amount, &rf.Reason, &rf.Method, &rf.ProcessedBy, &rf.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan refund: %w", err)
		}
		refunds = append(refunds, &rf)
	}
	return refunds, rows.Err()
}

// SumBySale devuelve el acumulado de devoluciones de la venta.
func (r *RefundRepo) SumBySale(saleID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(amount), 0) FROM refunds WHERE sale_id = $1`, saleID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum refunds: %w", err)
	}
	return sum, nil
}
