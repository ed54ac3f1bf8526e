package repository

// ListFilter filtros comunes de listados del catálogo (búsqueda por texto y paginación).
type ListFilter struct {
	Query  string // busca en code o name
	Offset int
	Limit  int
}

// TransactionFilter filtros del listado de movimientos.
type TransactionFilter struct {
	Query       string // busca en la nota (case-insensitive)
	Direction   *int
	ProductID   string
	WarehouseID string
	KitID       string
	Offset      int
	Limit       int
}
