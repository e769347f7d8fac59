package repository

import "github.com/tu-usuario/taller-pos/internal/domain/entity"

// LocationRepository define el puerto de lectura de sedes.
type LocationRepository interface {
	GetByID(id string) (*entity.Location, error)
}
