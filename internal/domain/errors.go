package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInvalidState       = errors.New("operación no permitida en el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
)

// StockShortageError detalla un faltante de stock: producto, disponible y requerido.
// Envuelve ErrInsufficientStock para que errors.Is siga funcionando en los handlers.
type StockShortageError struct {
	ProductID   string
	ProductName string
	LocationID  string
	Available   decimal.Decimal
	Required    decimal.Decimal
}

func (e *StockShortageError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("stock insuficiente para %s. Disponible: %s, Requerido: %s",
		name, e.Available.String(), e.Required.String())
}

func (e *StockShortageError) Unwrap() error { return ErrInsufficientStock }
