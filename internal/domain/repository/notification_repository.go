package repository

import "github.com/tu-usuario/taller-pos/internal/domain/entity"

// NotificationRepository define el puerto de persistencia de notificaciones.
type NotificationRepository interface {
	Create(notification *entity.Notification) error
	ListBySale(saleID string) ([]*entity.Notification, error)
}
