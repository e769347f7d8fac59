package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/taller-pos/internal/domain/entity"
	"github.com/tu-usuario/taller-pos/internal/domain/repository"
	"github.com/tu-usuario/taller-pos/pkg/logger"
)

// EmailSender envía el correo al cliente. Una implementación nula (sin
// configurar) devuelve ok=false y el despachador lo registra como FAILED.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) (ok bool, err error)
}

// NoopEmailSender no envía nada; útil sin proveedor de correo configurado.
type NoopEmailSender struct{}

func (NoopEmailSender) Send(ctx context.Context, to, subject, body string) (bool, error) {
	return false, nil
}

// Dispatcher persiste las notificaciones de venta y despacha los canales.
// Siempre crea el registro INTERNAL; si hay email del cliente crea además el
// registro EMAIL hijo (ParentID apunta al interno) con el resultado del envío.
type Dispatcher struct {
	notificationRepo repository.NotificationRepository
	email            EmailSender
	log              *logger.Logger
}

// NewDispatcher construye el despachador.
func NewDispatcher(notificationRepo repository.NotificationRepository, email EmailSender, log *logger.Logger) *Dispatcher {
	if email == nil {
		email = NoopEmailSender{}
	}
	return &Dispatcher{notificationRepo: notificationRepo, email: email, log: log}
}

// NotifySaleCreated registra el aviso de venta creada. customerReached es true
// solo si un canal directo al cliente (email) confirmó el envío.
func (d *Dispatcher) NotifySaleCreated(ctx context.Context, sale *entity.Sale) (bool, error) {
	body := fmt.Sprintf("Venta %s por %s registrada en la sede %s", sale.Number, sale.Total, sale.LocationID)
	return d.dispatch(ctx, sale, entity.NotificationKindSaleCreated, body)
}

// NotifySaleCancelled registra el aviso de cancelación.
func (d *Dispatcher) NotifySaleCancelled(ctx context.Context, sale *entity.Sale, reason string) error {
	body := fmt.Sprintf("Venta %s cancelada", sale.Number)
	if reason != "" {
		body += ": " + reason
	}
	_, err := d.dispatch(ctx, sale, entity.NotificationKindSaleCancelled, body)
	return err
}

func (d *Dispatcher) dispatch(ctx context.Context, sale *entity.Sale, kind, body string) (bool, error) {
	now := time.Now()
	internal := &entity.Notification{
		ID:         uuid.New().String(),
		SaleID:     sale.ID,
		CustomerID: sale.CustomerID,
		LocationID: sale.LocationID,
		Channel:    entity.NotificationChannelInternal,
		Kind:       kind,
		Status:     entity.NotificationSent,
		Body:       body,
		CreatedAt:  now,
	}
	if err := d.notificationRepo.Create(internal); err != nil {
		return false, err
	}

	if sale.CustomerEmail == "" {
		return false, nil
	}

	sent, err := d.email.Send(ctx, sale.CustomerEmail, "Venta "+sale.Number, body)
	status := entity.NotificationSent
	if err != nil || !sent {
		status = entity.NotificationFailed
	}
	emailNote := &entity.Notification{
		ID:         uuid.New().String(),
		SaleID:     sale.ID,
		CustomerID: sale.CustomerID,
		LocationID: sale.LocationID,
		Channel:    entity.NotificationChannelEmail,
		Kind:       kind,
		Status:     status,
		Body:       body,
		ParentID:   internal.ID,
		CreatedAt:  time.Now(),
	}
	if cerr := d.notificationRepo.Create(emailNote); cerr != nil {
		d.log.Warn().Err(cerr).Str("sale", sale.Number).Msg("no se pudo registrar la notificación de email")
	}
	if err != nil {
		return false, err
	}
	return sent, nil
}
