package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-api/internal/application/report"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "25.000", formatMoney("25000"))
	assert.Equal(t, "1.000.000", formatMoney("1000000"))
	assert.Equal(t, "-1.500", formatMoney("-1500"))
	assert.Equal(t, "999", formatMoney("999"))
}

func TestGenerateStockPDF(t *testing.T) {
	rep := &report.StockReport{
		Title:       "warehouse-api",
		GeneratedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		ByWarehouse: true,
		Lines: []report.StockReportLine{
			{ProductCode: "A", ProductName: "Guantes", WarehouseName: "Principal", Stock: 4,
				UnitCost: decimal.NewNullDecimal(decimal.NewFromInt(1200)), Value: decimal.NewFromInt(4800)},
			{ProductCode: "B", ProductName: "Tapabocas", WarehouseName: "Principal", Stock: 0, Value: decimal.Zero},
		},
		TotalUnits: 4,
		TotalValue: decimal.NewFromInt(4800),
	}
	doc, err := NewMarotoStockReport().GenerateStockPDF(context.Background(), rep)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}
