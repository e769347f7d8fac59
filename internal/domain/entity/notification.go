package entity

import "time"

// Canales y clases de notificación.
const (
	NotificationChannelInternal = "INTERNAL"
	NotificationChannelEmail    = "EMAIL"
	NotificationChannelSMS      = "SMS"

	NotificationKindSaleCreated   = "SALE_CREATED"
	NotificationKindSaleCancelled = "SALE_CANCELLED"
)

// Estados de una notificación.
const (
	NotificationSent   = "SENT"
	NotificationFailed = "FAILED"
)

// Notification registra un aviso generado por el sistema (venta creada,
// venta cancelada). ParentID es una referencia opcional por id a la
// notificación que originó esta (hilo), nunca una arista de propiedad.
type Notification struct {
	ID         string
	SaleID     string
	CustomerID string
	LocationID string
	Channel    string
	Kind       string
	Status     string
	Body       string
	ParentID   string
	CreatedAt  time.Time
}
