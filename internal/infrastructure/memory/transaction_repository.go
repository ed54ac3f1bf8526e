package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// TransactionRepository libro de movimientos en memoria (filas confirmadas).
type TransactionRepository struct {
	s *Store
}

// Create agrega el movimiento directamente (fuera de transacción).
func (r *TransactionRepository) Create(_ context.Context, t *entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.appendTransactions([]entity.Transaction{*t})
}

func (r *TransactionRepository) GetView(_ context.Context, id string) (*entity.TransactionView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	i, ok := r.s.txIndex[id]
	if !ok {
		return nil, nil
	}
	return r.s.view(r.s.transactions[i]), nil
}

// ListViews más recientes primero.
func (r *TransactionRepository) ListViews(_ context.Context, f repository.TransactionFilter) ([]*entity.TransactionView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.TransactionView, 0)
	skipped := 0
	for i := len(r.s.transactions) - 1; i >= 0; i-- {
		t := r.s.transactions[i]
		if !txMatches(t, f) {
			continue
		}
		if skipped < f.Offset {
			skipped++
			continue
		}
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
		out = append(out, r.s.view(t))
	}
	return out, nil
}

func (r *TransactionRepository) UpdateNote(_ context.Context, id, note, userID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.txIndex[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.s.transactions[i].Note = note
	r.s.transactions[i].Touch(userID, at)
	return nil
}

func (r *TransactionRepository) Totals(_ context.Context, productID, warehouseID string) (entity.StockTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return totals(r.s.transactions, nil, productID, warehouseID), nil
}

func (r *TransactionRepository) Summary(_ context.Context, byWarehouse bool) ([]*entity.StockRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.summary(nil, byWarehouse), nil
}

// LockStock no hace nada: TxRunner ya serializa las transacciones.
func (r *TransactionRepository) LockStock(context.Context, string, string) error {
	return nil
}

// txTransactionRepository ve las filas confirmadas más las escritas en la transacción en curso.
type txTransactionRepository struct {
	*TransactionRepository
	staged []entity.Transaction
}

func (r *txTransactionRepository) Create(_ context.Context, t *entity.Transaction) error {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkRefs(*t); err != nil {
		return err
	}
	r.staged = append(r.staged, *t)
	return nil
}

func (r *txTransactionRepository) Totals(_ context.Context, productID, warehouseID string) (entity.StockTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return totals(r.s.transactions, r.staged, productID, warehouseID), nil
}

func (r *txTransactionRepository) Summary(_ context.Context, byWarehouse bool) ([]*entity.StockRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.summary(r.staged, byWarehouse), nil
}

// appendTransactions confirma filas validando referencias (equivalente a las FK). Requiere mu tomado.
func (s *Store) appendTransactions(rows []entity.Transaction) error {
	for _, t := range rows {
		if err := s.checkRefs(t); err != nil {
			return err
		}
	}
	for _, t := range rows {
		s.txIndex[t.ID] = len(s.transactions)
		s.transactions = append(s.transactions, t)
	}
	return nil
}

func (s *Store) checkRefs(t entity.Transaction) error {
	if _, dup := s.txIndex[t.ID]; dup {
		return domain.ErrConflict
	}
	if _, ok := s.products[t.ProductID]; !ok {
		return domain.ErrConflict
	}
	if _, ok := s.warehouses[t.WarehouseID]; !ok {
		return domain.ErrConflict
	}
	if t.KitID != nil {
		if _, ok := s.kits[*t.KitID]; !ok {
			return domain.ErrConflict
		}
	}
	return nil
}

func (s *Store) view(t entity.Transaction) *entity.TransactionView {
	v := &entity.TransactionView{
		Transaction:   t,
		ProductName:   s.products[t.ProductID].Name,
		WarehouseName: s.warehouses[t.WarehouseID].Name,
	}
	if t.KitID != nil {
		v.KitName = s.kits[*t.KitID].Name
	}
	return v
}

type stockKey struct {
	productID   string
	warehouseID string
}

// summary agrega confirmadas + staged. Orden: nombre de producto, luego nombre de bodega.
func (s *Store) summary(staged []entity.Transaction, byWarehouse bool) []*entity.StockRow {
	acc := map[stockKey]int64{}
	add := func(t entity.Transaction) {
		k := stockKey{productID: t.ProductID}
		if byWarehouse {
			k.warehouseID = t.WarehouseID
		}
		acc[k] += t.Signed()
	}
	for _, t := range s.transactions {
		add(t)
	}
	for _, t := range staged {
		add(t)
	}
	rows := make([]*entity.StockRow, 0, len(acc))
	for k, stock := range acc {
		p := s.products[k.productID]
		row := &entity.StockRow{
			ProductID:   k.productID,
			ProductCode: p.Code,
			ProductName: p.Name,
			WarehouseID: k.warehouseID,
			Stock:       stock,
		}
		if byWarehouse {
			row.WarehouseName = s.warehouses[k.warehouseID].Name
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.ProductName != b.ProductName {
			return a.ProductName < b.ProductName
		}
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		if a.WarehouseName != b.WarehouseName {
			return a.WarehouseName < b.WarehouseName
		}
		return a.WarehouseID < b.WarehouseID
	})
	return rows
}

func totals(committed, staged []entity.Transaction, productID, warehouseID string) entity.StockTotals {
	var out entity.StockTotals
	add := func(t entity.Transaction) {
		if t.ProductID != productID || (warehouseID != "" && t.WarehouseID != warehouseID) {
			return
		}
		if t.Direction == entity.DirectionOut {
			out.Issued += t.Quantity
		} else {
			out.Received += t.Quantity
		}
	}
	for _, t := range committed {
		add(t)
	}
	for _, t := range staged {
		add(t)
	}
	return out
}

func txMatches(t entity.Transaction, f repository.TransactionFilter) bool {
	if f.Direction != nil && t.Direction != *f.Direction {
		return false
	}
	if f.ProductID != "" && t.ProductID != f.ProductID {
		return false
	}
	if f.WarehouseID != "" && t.WarehouseID != f.WarehouseID {
		return false
	}
	if f.KitID != "" && (t.KitID == nil || *t.KitID != f.KitID) {
		return false
	}
	return matches(f.Query, t.Note)
}
