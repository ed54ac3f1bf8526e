package entity

import "time"

// Dirección del movimiento. La cantidad siempre es positiva; el signo lo da la dirección.
const (
	DirectionIn  = 0 // entrada: suma stock
	DirectionOut = 1 // salida: resta stock
)

// ValidDirection indica si d es IN u OUT.
func ValidDirection(d int) bool {
	return d == DirectionIn || d == DirectionOut
}

// DirectionLabel etiqueta legible de la dirección (métricas y reportes).
func DirectionLabel(d int) string {
	if d == DirectionOut {
		return "out"
	}
	return "in"
}

// Transaction es un registro inmutable del libro de movimientos (append-only).
// KitID/KitQuantity solo se llenan cuando la fila proviene de un despacho de kit.
type Transaction struct {
	ID             string
	BatchID        string // agrupa las filas escritas por una misma operación
	ProductID      string
	WarehouseID    string
	Direction      int
	Quantity       int64
	KitID          *string
	KitQuantity    *int64
	ExternalRef    *string // referencia externa (ej. solicitud de gasto)
	ExpirationDate *time.Time
	Note           string
	Audit
}

// Signed devuelve la cantidad con signo según la dirección.
func (t Transaction) Signed() int64 {
	if t.Direction == DirectionOut {
		return -t.Quantity
	}
	return t.Quantity
}

// TransactionView proyección de lectura con nombres de producto, bodega y kit (JOIN, nunca almacenada).
type TransactionView struct {
	Transaction
	ProductName   string
	WarehouseName string
	KitName       string
}
