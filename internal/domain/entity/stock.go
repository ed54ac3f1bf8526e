package entity

// StockRow fila agregada de stock: por producto, o por producto y bodega.
// WarehouseID vacío cuando el resumen no se agrupa por bodega.
type StockRow struct {
	ProductID     string
	ProductCode   string
	ProductName   string
	WarehouseID   string
	WarehouseName string
	Stock         int64
}

// StockTotals totales de entradas y salidas de un par producto/bodega.
type StockTotals struct {
	Received int64
	Issued   int64
}

// OnHand existencias = entradas - salidas.
func (t StockTotals) OnHand() int64 {
	return t.Received - t.Issued
}
