package xlsx

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/warehouse-api/internal/application/report"
	"github.com/jhoicas/warehouse-api/internal/domain"
)

func buildSheet(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for i, r := range rows {
		r := r
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf := &bytes.Buffer{}
	require.NoError(t, f.Write(buf))
	return buf.Bytes()
}

func TestParse_ValidRows(t *testing.T) {
	data := buildSheet(t, [][]interface{}{
		{"Codigo_Producto", "codigo_bodega", "cantidad", "referencia", "vencimiento", "nota"},
		{"A", "W", 10, "OC-7", "2027-01-31", "compra"},
		{"", "", "", "", "", ""},
		{"B", "W", "3", "", "", ""},
	})
	rows, err := NewReceiptImporter().Parse(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "A", rows[0].ProductCode)
	assert.Equal(t, int64(10), rows[0].Quantity)
	require.NotNil(t, rows[0].ExternalRef)
	assert.Equal(t, "OC-7", *rows[0].ExternalRef)
	require.NotNil(t, rows[0].ExpirationDate)
	assert.Equal(t, 2027, rows[0].ExpirationDate.Year())

	assert.Equal(t, 4, rows[1].Line)
	assert.Nil(t, rows[1].ExternalRef)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string][][]interface{}{
		"sin columna cantidad": {{"codigo_producto", "codigo_bodega"}, {"A", "W"}},
		"cantidad negativa":    {{"codigo_producto", "codigo_bodega", "cantidad"}, {"A", "W", -2}},
		"fecha inválida":       {{"codigo_producto", "codigo_bodega", "cantidad", "vencimiento"}, {"A", "W", 1, "31/01/2027"}},
		"solo encabezado":      {{"codigo_producto", "codigo_bodega", "cantidad"}},
	}
	for name, rows := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewReceiptImporter().Parse(bytes.NewReader(buildSheet(t, rows)))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err := NewReceiptImporter().Parse(bytes.NewReader([]byte("no es excel")))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTemplate_RoundTripsHeaders(t *testing.T) {
	data, err := NewReceiptImporter().Template()
	require.NoError(t, err)
	_, err = NewReceiptImporter().Parse(bytes.NewReader(data))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "plantilla sin datos")
}

func TestWriteStockSheet(t *testing.T) {
	rep := &report.StockReport{
		ByWarehouse: true,
		Lines: []report.StockReportLine{
			{ProductCode: "A", ProductName: "Guantes", WarehouseName: "Principal", Stock: 4,
				UnitCost: decimal.NewNullDecimal(decimal.NewFromInt(1000)), Value: decimal.NewFromInt(4000)},
		},
		TotalUnits: 4,
		TotalValue: decimal.NewFromInt(4000),
	}
	data, err := NewStockSheet().WriteStockSheet(context.Background(), rep)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Existencias")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Bodega", rows[0][2])
	assert.Equal(t, "Guantes", rows[1][1])
	assert.Equal(t, "4", rows[1][3])
	assert.Equal(t, "TOTAL", rows[2][0])
}
