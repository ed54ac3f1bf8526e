package dto

import "time"

// CreateTransactionRequest body para POST /transactions.
// Direction: 0 = entrada, 1 = salida. KitID/KitQuantity van juntos y solo en salidas de un componente del kit.
type CreateTransactionRequest struct {
	ProductID      string     `json:"productId"`
	WarehouseID    string     `json:"warehouseId"`
	Direction      *int       `json:"direction"`
	Quantity       int64      `json:"quantity"`
	KitID          *string    `json:"kitId,omitempty"`
	KitQuantity    *int64     `json:"kitQuantity,omitempty"`
	ExternalRef    *string    `json:"externalRef,omitempty"`
	Note           string     `json:"note"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
}

// IssueKitRequest body para POST /transactions/issue-kit.
type IssueKitRequest struct {
	KitID       string  `json:"kitId"`
	WarehouseID string  `json:"warehouseId"`
	KitQuantity int64   `json:"kitQuantity"`
	ExternalRef *string `json:"externalRef,omitempty"`
	Note        string  `json:"note"`
}

// UpdateTransactionRequest corrección permitida: solo la nota.
type UpdateTransactionRequest struct {
	Note *string `json:"note"`
}

// TransactionResponse movimiento con nombres denormalizados.
type TransactionResponse struct {
	ID             string     `json:"id"`
	BatchID        string     `json:"batchId"`
	ProductID      string     `json:"productId"`
	WarehouseID    string     `json:"warehouseId"`
	Direction      int        `json:"direction"`
	Quantity       int64      `json:"quantity"`
	KitID          *string    `json:"kitId"`
	KitQuantity    *int64     `json:"kitQuantity"`
	ExternalRef    *string    `json:"externalRef"`
	ExpirationDate *time.Time `json:"expirationDate"`
	Note           string     `json:"note"`
	ProductName    string     `json:"productName,omitempty"`
	WarehouseName  string     `json:"warehouseName,omitempty"`
	KitName        string     `json:"kitName,omitempty"`
	AuditResponse
}

// TransactionListResponse lista paginada de movimientos.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// IssueKitResponse resultado de un despacho de kit: una salida por componente.
type IssueKitResponse struct {
	BatchID      string                `json:"batchId"`
	KitID        string                `json:"kitId"`
	WarehouseID  string                `json:"warehouseId"`
	KitQuantity  int64                 `json:"kitQuantity"`
	Transactions []TransactionResponse `json:"transactions"`
}

// ImportReceiptsResponse resultado de la carga masiva de entradas.
type ImportReceiptsResponse struct {
	BatchID string `json:"batchId"`
	Count   int    `json:"count"`
}
