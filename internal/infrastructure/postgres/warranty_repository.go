package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/taller-pos/internal/domain"
	"github.com/tu-usuario/taller-pos/internal/domain/entity"
	"github.com/tu-usuario/taller-pos/internal/domain/repository"
)

var _ repository.WarrantyRepository = (*WarrantyRepo)(nil)

// WarrantyRepo implementación de WarrantyRepository sobre PostgreSQL.
// sale_item_id tiene constraint único: la base garantiza la idempotencia de
// la emisión aun si dos procesos la intentan a la vez.
type WarrantyRepo struct {
	q Querier
}

// NewWarrantyRepository construye el adaptador de garantías. Pasar pool o tx (Querier).
func NewWarrantyRepository(q Querier) *WarrantyRepo {
	return &WarrantyRepo{q: q}
}

// Create persiste una tarjeta de garantía. ErrDuplicate si la línea ya tiene una.
func (r *WarrantyRepo) Create(card *entity.WarrantyCard) error {
	query := `
		INSERT INTO warranty_cards (id, sale_item_id, sale_id, product_id, customer_id, months, starts_at, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		card.ID, card.SaleItemID, card.SaleID, card.ProductID, nullable(card.CustomerID),
		card.Months, card.StartsAt, card.ExpiresAt, card.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert warranty card: %w", err)
	}
	return nil
}

// GetBySaleItem obtiene la garantía de una línea, nil si no existe.
func (r *WarrantyRepo) GetBySaleItem(saleItemID string) (*entity.WarrantyCard, error) {
	query := `
		SELECT id, sale_item_id, sale_id, product_id, COALESCE(customer_id, ''), months, starts_at, expires_at, created_at
		FROM warranty_cards WHERE sale_item_id = $1`
	var c entity.WarrantyCard
	err := r.q.QueryRow(context.Background(), query, saleItemID).Scan(
		&c.ID, &c.SaleItemID, &c.SaleID, &c.ProductID, &c.CustomerID,
		&c.Months, &c.StartsAt, &c.ExpiresAt, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warranty card: %w", err)
	}
	return &c, nil
}
