package memory

import (
	"context"

	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// TxRunner implementa inventory.TxRunner: una transacción a la vez, escrituras en staging
// hasta que fn termina sin error. Si fn falla no se confirma nada.
type TxRunner struct {
	s *Store
}

// Run ejecuta fn y confirma sus filas de forma atómica.
func (r *TxRunner) Run(ctx context.Context, fn func(
	txRepo repository.TransactionRepository,
	kitRepo repository.KitRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	txRepo := &txTransactionRepository{TransactionRepository: &TransactionRepository{s: r.s}}
	if err := fn(txRepo, &KitRepository{s: r.s}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.appendTransactions(txRepo.staged)
}
