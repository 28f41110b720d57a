package entity

import "time"

// Location representa una ubicación de almacenamiento (bodega o piso de venta)
// asociada a una sucursal.
type Location struct {
	ID        string
	BranchID  string // sucursal a la que pertenece (ej: "PWD-1")
	Code      string
	Name      string
	CreatedAt time.Time
}
