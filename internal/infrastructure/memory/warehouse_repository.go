package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// WarehouseRepository implementa repository.WarehouseRepository en memoria.
type WarehouseRepository struct {
	s *Store
}

func (r *WarehouseRepository) Create(_ context.Context, w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.warehouses {
		if existing.Code == w.Code {
			return domain.ErrConflict
		}
	}
	r.s.warehouses[w.ID] = *w
	return nil
}

func (r *WarehouseRepository) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *WarehouseRepository) GetByCode(_ context.Context, code string) (*entity.Warehouse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, w := range r.s.warehouses {
		if w.Code == code {
			return &w, nil
		}
	}
	return nil, nil
}

func (r *WarehouseRepository) Update(_ context.Context, w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.warehouses[w.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, existing := range r.s.warehouses {
		if id != w.ID && existing.Code == w.Code {
			return domain.ErrConflict
		}
	}
	r.s.warehouses[w.ID] = *w
	return nil
}

func (r *WarehouseRepository) List(_ context.Context, f repository.ListFilter) ([]*entity.Warehouse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Warehouse, 0, len(r.s.warehouses))
	for _, w := range r.s.warehouses {
		if matches(f.Query, w.Code, w.Name) {
			w := w
			list = append(list, &w)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	from, to := page(len(list), f.Offset, f.Limit)
	return list[from:to], nil
}

func (r *WarehouseRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.warehouses[id]; !ok {
		return domain.ErrNotFound
	}
	for _, t := range r.s.transactions {
		if t.WarehouseID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.warehouses, id)
	return nil
}
