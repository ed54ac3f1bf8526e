package dto

import "github.com/shopspring/decimal"

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	ProductTypeID *int64           `json:"productTypeId"`
	UnitMeasureID *int64           `json:"unitMeasureId"`
	UnitCost      *decimal.Decimal `json:"unitCost"`
	Photo         string           `json:"photo"`
}

// UpdateProductRequest actualización parcial: solo cambian los campos enviados.
type UpdateProductRequest struct {
	Code          *string          `json:"code"`
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	ProductTypeID *int64           `json:"productTypeId"`
	UnitMeasureID *int64           `json:"unitMeasureId"`
	UnitCost      *decimal.Decimal `json:"unitCost"`
	Photo         *string          `json:"photo"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string           `json:"id"`
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	ProductTypeID *int64           `json:"productTypeId"`
	UnitMeasureID *int64           `json:"unitMeasureId"`
	UnitCost      *decimal.Decimal `json:"unitCost"`
	Photo         string           `json:"photo"`
	AuditResponse
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
