package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/taller-pos/internal/domain/entity"
	"github.com/tu-usuario/taller-pos/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo implementación de NotificationRepository sobre PostgreSQL.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador de notificaciones. Pasar pool o tx (Querier).
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// Create persiste una notificación.
func (r *NotificationRepo) Create(notification *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, sale_id, customer_id, location_id, channel, kind, status, body, parent_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		notification.ID, notification.SaleID, nullable(notification.CustomerID), notification.LocationID,
		notification.Channel, notification.Kind, notification.Status, notification.Body,
		nullable(notification.ParentID), notification.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListBySale lista las notificaciones de una venta en orden de creación.
func (r *NotificationRepo) ListBySale(saleID string) ([]*entity.Notification, error) {
	query := `
		SELECT id, sale_id, COALESCE(customer_id, ''), location_id, channel, kind, status, body, COALESCE(parent_id, ''), created_at
		FROM notifications WHERE sale_id = $1 ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(
			&n.ID, &n.SaleID, &n.CustomerID, &n.LocationID, &n.Channel, &n.Kind, &n.Status, &n.Body, &n.ParentID, &n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}
