package repository

import "github.com/tu-usuario/taller-pos/internal/domain/entity"

// ProductRepository define el puerto de lectura del catálogo de productos.
// El núcleo de ventas solo lee: el CRUD del catálogo vive fuera de este módulo.
type ProductRepository interface {
	GetByID(id string) (*entity.Product, error)
}
