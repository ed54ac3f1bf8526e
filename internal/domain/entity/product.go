package entity

import "github.com/shopspring/decimal"

// Product representa un producto del catálogo. El stock no vive aquí: se deriva del libro de movimientos.
type Product struct {
	ID            string
	Code          string // código único
	Name          string
	Description   string
	ProductTypeID *int64
	UnitMeasureID *int64
	UnitCost      decimal.NullDecimal
	Photo         string // URL (Firebase u otro almacenamiento)
	Audit
}
