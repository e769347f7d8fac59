package repository

import "github.com/tu-usuario/taller-pos/internal/domain/entity"

// CustomerRepository define el puerto de lectura del directorio de clientes.
type CustomerRepository interface {
	GetByID(id string) (*entity.Customer, error)
}
