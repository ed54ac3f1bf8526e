package entity

// Warehouse representa una bodega donde se almacena inventario.
type Warehouse struct {
	ID          string
	Code        string // código único
	Name        string
	Description string
	Audit
}
