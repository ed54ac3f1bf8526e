package dto

// OnHandResponse existencias actuales de un producto (en una bodega o en todas).
type OnHandResponse struct {
	ProductID   string `json:"productId"`
	WarehouseID string `json:"warehouseId,omitempty"`
	OnHand      int64  `json:"onHand"`
}

// StockRowResponse fila del resumen de inventario.
type StockRowResponse struct {
	ProductID     string `json:"productId"`
	ProductCode   string `json:"productCode,omitempty"`
	ProductName   string `json:"productName,omitempty"`
	WarehouseID   string `json:"warehouseId,omitempty"`
	WarehouseName string `json:"warehouseName,omitempty"`
	Stock         int64  `json:"stock"`
}

// KardexResponse totales de entradas/salidas de un producto en una bodega.
type KardexResponse struct {
	WarehouseID string `json:"warehouseId"`
	ProductID   string `json:"productId"`
	Stock       int64  `json:"stock"`
	Received    int64  `json:"received"`
	Issued      int64  `json:"issued"`
}
