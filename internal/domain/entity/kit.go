package entity

// Kit agrupa cantidades fijas de productos que se despachan como una unidad.
type Kit struct {
	ID          string
	Code        string // código único
	Name        string
	Description string
	Photo       string
	Audit
}

// KitComponent indica cuántas unidades de un producto requiere una unidad del kit.
// Un kit lista cada producto a lo sumo una vez; Quantity siempre >= 1.
type KitComponent struct {
	ID        string
	KitID     string
	ProductID string
	Quantity  int64
	Audit
}

// KitComponentView proyección de lectura con los datos del producto (no se persiste).
type KitComponentView struct {
	KitComponent
	ProductCode string
	ProductName string
}
