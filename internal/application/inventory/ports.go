package inventory

import (
	"context"

	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad de la secuencia leer-verificar-registrar del libro de movimientos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		txRepo repository.TransactionRepository,
		kitRepo repository.KitRepository,
	) error) error
}

// MovementObserver recibe los movimientos confirmados y los rechazos por stock (métricas).
type MovementObserver interface {
	MovementRecorded(direction int, quantity int64)
	StockRejected(operation string)
}

// NopObserver no hace nada; se usa cuando las métricas están deshabilitadas.
type NopObserver struct{}

func (NopObserver) MovementRecorded(int, int64) {}
func (NopObserver) StockRejected(string)        {}
