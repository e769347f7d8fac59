package sms

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/taller-pos/internal/application/sales"
	"github.com/tu-usuario/taller-pos/pkg/config"
	"github.com/tu-usuario/taller-pos/pkg/logger"
)

var _ sales.SMSSender = (*Client)(nil)

// Client envía SMS vía un gateway HTTP genérico (POST /messages con API key).
// Sin BaseURL configurada el cliente queda desactivado: responde ok=false con
// un mensaje descriptivo y sin error, para que el coordinador solo lo registre.
type Client struct {
	http   *resty.Client
	sender string
	log    *logger.Logger
}

type sendRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
}

type sendResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error"`
}

// NewClient construye el cliente del gateway.
func NewClient(cfg config.SMSConfig, log *logger.Logger) *Client {
	c := &Client{sender: cfg.Sender, log: log}
	if cfg.BaseURL == "" {
		return c
	}
	c.http = resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Authorization", "Bearer "+cfg.APIKey).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return c
}

// SendPlainConfirmation envía la confirmación simple de venta.
func (c *Client) SendPlainConfirmation(ctx context.Context, phone, customerName, saleNumber string, total decimal.Decimal, locationName string) (bool, string, error) {
	if c.http == nil {
		return false, "gateway SMS no configurado", nil
	}
	if phone == "" {
		return false, "sin teléfono de destino", nil
	}

	name := customerName
	if name == "" {
		name = "cliente"
	}
	body := fmt.Sprintf("Hola %s, tu compra %s por %s quedó registrada", name, saleNumber, total)
	if locationName != "" {
		body += " en " + locationName
	}
	body += ". Gracias por tu visita."

	var out sendResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(sendRequest{To: phone, From: c.sender, Message: body}).
		SetResult(&out).
		Post("/messages")
	if err != nil {
		return false, "", fmt.Errorf("enviar SMS: %w", err)
	}
	if resp.IsError() {
		return false, out.Error, fmt.Errorf("gateway SMS respondió %s", resp.Status())
	}

	c.log.Debug().Str("sale", saleNumber).Str("sms_id", out.ID).Msg("SMS de confirmación enviado")
	return true, out.ID, nil
}
