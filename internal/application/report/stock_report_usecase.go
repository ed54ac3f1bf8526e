package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// StockReportUseCase arma el reporte de existencias a partir del resumen del libro de movimientos.
type StockReportUseCase struct {
	txRepo      repository.TransactionRepository
	productRepo repository.ProductRepository
	pdf         StockPDFGenerator
	sheet       StockSheetWriter
	title       string
}

// NewStockReportUseCase construye el caso de uso; title encabeza los documentos (nombre de la app).
func NewStockReportUseCase(
	txRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	pdf StockPDFGenerator,
	sheet StockSheetWriter,
	title string,
) *StockReportUseCase {
	return &StockReportUseCase{txRepo: txRepo, productRepo: productRepo, pdf: pdf, sheet: sheet, title: title}
}

// Build carga el resumen y valoriza cada fila con el costo unitario vigente (si el producto lo tiene).
func (uc *StockReportUseCase) Build(ctx context.Context, byWarehouse bool) (*StockReport, error) {
	rows, err := uc.txRepo.Summary(ctx, byWarehouse)
	if err != nil {
		return nil, fmt.Errorf("reporte: resumen de stock: %w", err)
	}
	out := &StockReport{
		Title:       uc.title,
		GeneratedAt: time.Now(),
		ByWarehouse: byWarehouse,
		Lines:       make([]StockReportLine, 0, len(rows)),
		TotalValue:  decimal.Zero,
	}
	costs := map[string]decimal.NullDecimal{}
	for _, r := range rows {
		cost, ok := costs[r.ProductID]
		if !ok {
			p, err := uc.productRepo.GetByID(ctx, r.ProductID)
			if err != nil {
				return nil, fmt.Errorf("reporte: obtener producto: %w", err)
			}
			if p != nil {
				cost = p.UnitCost
			}
			costs[r.ProductID] = cost
		}
		line := StockReportLine{
			ProductCode:   r.ProductCode,
			ProductName:   r.ProductName,
			WarehouseName: r.WarehouseName,
			Stock:         r.Stock,
			UnitCost:      cost,
			Value:         decimal.Zero,
		}
		if cost.Valid {
			line.Value = cost.Decimal.Mul(decimal.NewFromInt(r.Stock))
		}
		out.Lines = append(out.Lines, line)
		out.TotalUnits += r.Stock
		out.TotalValue = out.TotalValue.Add(line.Value)
	}
	return out, nil
}

// PDF genera el reporte en PDF. Retorna bytes y nombre de archivo sugerido.
func (uc *StockReportUseCase) PDF(ctx context.Context, byWarehouse bool) ([]byte, string, error) {
	rep, err := uc.Build(ctx, byWarehouse)
	if err != nil {
		return nil, "", err
	}
	doc, err := uc.pdf.GenerateStockPDF(ctx, rep)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generación PDF fallida: %w", err)
	}
	return doc, fileName(rep, "pdf"), nil
}

// XLSX genera el reporte como hoja de cálculo.
func (uc *StockReportUseCase) XLSX(ctx context.Context, byWarehouse bool) ([]byte, string, error) {
	rep, err := uc.Build(ctx, byWarehouse)
	if err != nil {
		return nil, "", err
	}
	doc, err := uc.sheet.WriteStockSheet(ctx, rep)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generación XLSX fallida: %w", err)
	}
	return doc, fileName(rep, "xlsx"), nil
}

func fileName(rep *StockReport, ext string) string {
	return fmt.Sprintf("existencias_%s.%s", rep.GeneratedAt.Format("20060102_1504"), ext)
}
