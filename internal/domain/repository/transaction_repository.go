package repository

import (
	"context"
	"time"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// TransactionRepository define el puerto del libro de movimientos (append-only).
// El stock nunca se guarda: Totals y Summary agregan los movimientos en cada llamada.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	GetView(ctx context.Context, id string) (*entity.TransactionView, error)
	ListViews(ctx context.Context, filter TransactionFilter) ([]*entity.TransactionView, error)
	// UpdateNote única corrección permitida sobre un movimiento registrado.
	UpdateNote(ctx context.Context, id, note, userID string, at time.Time) error

	// Totals entradas y salidas de un producto; warehouseID vacío = todas las bodegas.
	Totals(ctx context.Context, productID, warehouseID string) (entity.StockTotals, error)
	// Summary una fila por producto (o producto+bodega) con al menos un movimiento.
	Summary(ctx context.Context, byWarehouse bool) ([]*entity.StockRow, error)
	// LockStock serializa lectura-verificación-escritura sobre el par producto/bodega
	// hasta el fin de la transacción en curso.
	LockStock(ctx context.Context, productID, warehouseID string) error
}
