package inventory

import (
	"context"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/inventory"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// KitResolver expande kits y calcula cuántos se pueden despachar con el stock actual.
type KitResolver struct {
	kitRepo       repository.KitRepository
	txRepo        repository.TransactionRepository
	warehouseRepo repository.WarehouseRepository
}

// NewKitResolver construye el caso de uso.
func NewKitResolver(
	kitRepo repository.KitRepository,
	txRepo repository.TransactionRepository,
	warehouseRepo repository.WarehouseRepository,
) *KitResolver {
	return &KitResolver{kitRepo: kitRepo, txRepo: txRepo, warehouseRepo: warehouseRepo}
}

// Expand devuelve (producto, unidades por kit). Lista vacía si el kit no tiene composición.
func (r *KitResolver) Expand(ctx context.Context, kitID string) ([]dto.KitLineResponse, error) {
	lines, err := r.lines(ctx, kitID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.KitLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.KitLineResponse{ProductID: l.ProductID, UnitsPerKit: l.UnitsPerKit})
	}
	return out, nil
}

// IssuableQuantity kits despachables en la bodega: el componente más escaso limita el resultado.
func (r *KitResolver) IssuableQuantity(ctx context.Context, kitID, warehouseID string) (*dto.IssuableResponse, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	wh, err := r.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := r.lines(ctx, kitID)
	if err != nil {
		return nil, err
	}
	issuable, err := issuableIn(ctx, r.txRepo, lines, warehouseID)
	if err != nil {
		return nil, err
	}
	return &dto.IssuableResponse{KitID: kitID, WarehouseID: warehouseID, Issuable: issuable}, nil
}

func (r *KitResolver) lines(ctx context.Context, kitID string) ([]inventory.KitLine, error) {
	kit, err := r.kitRepo.GetByID(ctx, kitID)
	if err != nil {
		return nil, err
	}
	if kit == nil {
		return nil, domain.ErrNotFound
	}
	components, err := r.kitRepo.ListComponents(ctx, kitID)
	if err != nil {
		return nil, err
	}
	return inventory.LinesFromComponents(components), nil
}

// issuableIn agrega el stock de cada componente en la bodega y aplica la regla del mínimo.
// Dentro de una transacción los pares ya deben estar bloqueados.
func issuableIn(ctx context.Context, txRepo repository.TransactionRepository, lines []inventory.KitLine, warehouseID string) (int64, error) {
	onHand := make(map[string]int64, len(lines))
	for _, l := range lines {
		totals, err := txRepo.Totals(ctx, l.ProductID, warehouseID)
		if err != nil {
			return 0, err
		}
		onHand[l.ProductID] = totals.OnHand()
	}
	return inventory.IssuableKits(lines, onHand), nil
}
