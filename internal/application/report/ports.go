package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StockReportLine fila del reporte de existencias, valorizada al costo unitario del producto.
type StockReportLine struct {
	ProductCode   string
	ProductName   string
	WarehouseName string
	Stock         int64
	UnitCost      decimal.NullDecimal
	Value         decimal.Decimal
}

// StockReport datos completos del reporte antes de renderizar.
type StockReport struct {
	Title       string
	GeneratedAt time.Time
	ByWarehouse bool
	Lines       []StockReportLine
	TotalUnits  int64
	TotalValue  decimal.Decimal
}

// StockPDFGenerator puerto del generador PDF (implementado con Maroto en infrastructure/pdf).
type StockPDFGenerator interface {
	GenerateStockPDF(ctx context.Context, report *StockReport) ([]byte, error)
}

// StockSheetWriter puerto del generador de hoja de cálculo (excelize en infrastructure/xlsx).
type StockSheetWriter interface {
	WriteStockSheet(ctx context.Context, report *StockReport) ([]byte, error)
}
