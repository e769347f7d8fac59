package entity

import "time"

// Location representa una sede: tienda o taller de reparación.
type Location struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
