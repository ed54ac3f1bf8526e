package dto

// CreateKitRequest entrada para crear un kit.
type CreateKitRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Photo       string `json:"photo"`
}

// UpdateKitRequest actualización parcial de un kit.
type UpdateKitRequest struct {
	Code        *string `json:"code"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Photo       *string `json:"photo"`
}

// KitResponse salida de un kit.
type KitResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Photo       string `json:"photo"`
	AuditResponse
}

// KitListResponse lista paginada de kits.
type KitListResponse struct {
	Items []KitResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}

// AddKitComponentRequest body para POST /kits/{id}/composition.
type AddKitComponentRequest struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

// UpdateKitComponentRequest body para PUT /kits/{id}/composition/{compId}.
type UpdateKitComponentRequest struct {
	Quantity *int64 `json:"quantity"`
}

// KitComponentResponse fila de composición con datos del producto.
type KitComponentResponse struct {
	ID          string `json:"id"`
	KitID       string `json:"kitId"`
	ProductID   string `json:"productId"`
	Quantity    int64  `json:"quantity"`
	ProductCode string `json:"productCode,omitempty"`
	ProductName string `json:"productName,omitempty"`
	AuditResponse
}

// KitLineResponse línea de expansión del kit.
type KitLineResponse struct {
	ProductID   string `json:"productId"`
	UnitsPerKit int64  `json:"unitsPerKit"`
}

// IssuableResponse kits despachables en una bodega con el stock actual.
type IssuableResponse struct {
	KitID       string `json:"kitId"`
	WarehouseID string `json:"warehouseId"`
	Issuable    int64  `json:"issuable"`
}
