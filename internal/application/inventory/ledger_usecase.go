package inventory

import (
	"context"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// LedgerUseCase consulta existencias agregando el libro de movimientos en cada llamada (sin caché).
type LedgerUseCase struct {
	txRepo        repository.TransactionRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) *LedgerUseCase {
	return &LedgerUseCase{txRepo: txRepo, productRepo: productRepo, warehouseRepo: warehouseRepo}
}

// OnHand existencias de un producto en una bodega; warehouseID vacío suma todas las bodegas.
// Devuelve 0 si no hay movimientos.
func (uc *LedgerUseCase) OnHand(ctx context.Context, productID, warehouseID string) (*dto.OnHandResponse, error) {
	if err := uc.checkRefs(ctx, productID, warehouseID); err != nil {
		return nil, err
	}
	totals, err := uc.txRepo.Totals(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	return &dto.OnHandResponse{ProductID: productID, WarehouseID: warehouseID, OnHand: totals.OnHand()}, nil
}

// Kardex entradas, salidas y saldo de un producto en una bodega.
func (uc *LedgerUseCase) Kardex(ctx context.Context, warehouseID, productID string) (*dto.KardexResponse, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkRefs(ctx, productID, warehouseID); err != nil {
		return nil, err
	}
	totals, err := uc.txRepo.Totals(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	return &dto.KardexResponse{
		WarehouseID: warehouseID,
		ProductID:   productID,
		Stock:       totals.OnHand(),
		Received:    totals.Received,
		Issued:      totals.Issued,
	}, nil
}

// StockSummary una fila por producto (o por producto y bodega) con al menos un movimiento.
func (uc *LedgerUseCase) StockSummary(ctx context.Context, byWarehouse bool) ([]dto.StockRowResponse, error) {
	rows, err := uc.txRepo.Summary(ctx, byWarehouse)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.StockRowResponse{
			ProductID:     r.ProductID,
			ProductCode:   r.ProductCode,
			ProductName:   r.ProductName,
			WarehouseID:   r.WarehouseID,
			WarehouseName: r.WarehouseName,
			Stock:         r.Stock,
		})
	}
	return out, nil
}

func (uc *LedgerUseCase) checkRefs(ctx context.Context, productID, warehouseID string) error {
	if productID == "" {
		return domain.ErrInvalidInput
	}
	return ensureRefs(ctx, uc.productRepo, uc.warehouseRepo, productID, warehouseID)
}

// ensureRefs valida que producto y bodega existan; warehouseID vacío no se valida.
func ensureRefs(
	ctx context.Context,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	productID, warehouseID string,
) error {
	p, err := productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	if warehouseID == "" {
		return nil
	}
	w, err := warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return err
	}
	if w == nil {
		return domain.ErrNotFound
	}
	return nil
}
