// Package xlsx lee y escribe hojas de cálculo con excelize: reporte de existencias,
// plantilla y lectura de la carga masiva de entradas.
package xlsx

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/warehouse-api/internal/application/report"
)

var _ report.StockSheetWriter = (*StockSheet)(nil)

// StockSheet implementa report.StockSheetWriter.
type StockSheet struct{}

// NewStockSheet construye el escritor.
func NewStockSheet() *StockSheet { return &StockSheet{} }

// WriteStockSheet una fila por línea del reporte y una fila final de totales.
func (w *StockSheet) WriteStockSheet(_ context.Context, rep *report.StockReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := "Existencias"
	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheet); err != nil {
		return nil, fmt.Errorf("xlsx: nombre de hoja: %w", err)
	}

	header := []interface{}{"Código", "Producto"}
	if rep.ByWarehouse {
		header = append(header, "Bodega")
	}
	header = append(header, "Stock", "Costo unitario", "Valor")
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("xlsx: encabezado: %w", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = f.SetCellStyle(sheet, "A1", last, style)
	}

	row := 2
	for _, l := range rep.Lines {
		values := []interface{}{l.ProductCode, l.ProductName}
		if rep.ByWarehouse {
			values = append(values, l.WarehouseName)
		}
		var cost interface{} = ""
		if l.UnitCost.Valid {
			cost = l.UnitCost.Decimal.InexactFloat64()
		}
		values = append(values, l.Stock, cost, l.Value.InexactFloat64())
		if err := setRow(f, sheet, row, values); err != nil {
			return nil, err
		}
		row++
	}

	totals := []interface{}{"TOTAL", ""}
	if rep.ByWarehouse {
		totals = append(totals, "")
	}
	totals = append(totals, rep.TotalUnits, "", rep.TotalValue.InexactFloat64())
	if err := setRow(f, sheet, row, totals); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(sheet, "B", "B", 40)

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir archivo: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("xlsx: celda: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("xlsx: fila %d: %w", row, err)
	}
	return nil
}
