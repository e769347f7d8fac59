package entity

import "time"

// Customer representa un cliente registrado (directorio maestro).
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
