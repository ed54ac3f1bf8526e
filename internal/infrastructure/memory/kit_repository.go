package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// KitRepository implementa repository.KitRepository en memoria.
type KitRepository struct {
	s *Store
}

func (r *KitRepository) Create(_ context.Context, k *entity.Kit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.kits {
		if existing.Code == k.Code {
			return domain.ErrConflict
		}
	}
	r.s.kits[k.ID] = *k
	return nil
}

func (r *KitRepository) GetByID(_ context.Context, id string) (*entity.Kit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	k, ok := r.s.kits[id]
	if !ok {
		return nil, nil
	}
	return &k, nil
}

func (r *KitRepository) GetByCode(_ context.Context, code string) (*entity.Kit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, k := range r.s.kits {
		if k.Code == code {
			return &k, nil
		}
	}
	return nil, nil
}

func (r *KitRepository) Update(_ context.Context, k *entity.Kit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.kits[k.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, existing := range r.s.kits {
		if id != k.ID && existing.Code == k.Code {
			return domain.ErrConflict
		}
	}
	r.s.kits[k.ID] = *k
	return nil
}

func (r *KitRepository) List(_ context.Context, f repository.ListFilter) ([]*entity.Kit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Kit, 0, len(r.s.kits))
	for _, k := range r.s.kits {
		if matches(f.Query, k.Code, k.Name) {
			k := k
			list = append(list, &k)
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

// Delete borra el kit y su composición; los despachos ya registrados lo siguen referenciando.
func (r *KitRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.kits[id]; !ok {
		return domain.ErrNotFound
	}
	for _, t := range r.s.transactions {
		if t.KitID != nil && *t.KitID == id {
			return domain.ErrConflict
		}
	}
	for cid, c := range r.s.components {
		if c.KitID == id {
			delete(r.s.components, cid)
		}
	}
	delete(r.s.kits, id)
	return nil
}

func (r *KitRepository) ListComponents(_ context.Context, kitID string) ([]*entity.KitComponent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.componentsOf(kitID), nil
}

func (r *KitRepository) ListComponentViews(_ context.Context, kitID string) ([]*entity.KitComponentView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	comps := r.s.componentsOf(kitID)
	out := make([]*entity.KitComponentView, 0, len(comps))
	for _, c := range comps {
		p := r.s.products[c.ProductID]
		out = append(out, &entity.KitComponentView{KitComponent: *c, ProductCode: p.Code, ProductName: p.Name})
	}
	return out, nil
}

func (r *KitRepository) GetComponent(_ context.Context, id string) (*entity.KitComponent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.components[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *KitRepository) GetComponentByProduct(_ context.Context, kitID, productID string) (*entity.KitComponent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.components {
		if c.KitID == kitID && c.ProductID == productID {
			return &c, nil
		}
	}
	return nil, nil
}

// AddComponent aplica las mismas restricciones que la BD: kit y producto existentes, par único.
func (r *KitRepository) AddComponent(_ context.Context, c *entity.KitComponent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.kits[c.KitID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.s.products[c.ProductID]; !ok {
		return domain.ErrNotFound
	}
	for _, existing := range r.s.components {
		if existing.KitID == c.KitID && existing.ProductID == c.ProductID {
			return domain.ErrConflict
		}
	}
	r.s.components[c.ID] = *c
	return nil
}

func (r *KitRepository) UpdateComponent(_ context.Context, c *entity.KitComponent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.components[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.components[c.ID] = *c
	return nil
}

func (r *KitRepository) DeleteComponent(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.components[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.components, id)
	return nil
}

// componentsOf composición de un kit en orden de alta. Requiere mu tomado.
func (s *Store) componentsOf(kitID string) []*entity.KitComponent {
	out := make([]*entity.KitComponent, 0)
	for _, c := range s.components {
		if c.KitID == kitID {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
