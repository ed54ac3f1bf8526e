package repository

import (
	"context"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// KitRepository define el puerto de persistencia para kits y su composición.
// Borrar un kit borra sus componentes.
type KitRepository interface {
	Create(ctx context.Context, kit *entity.Kit) error
	GetByID(ctx context.Context, id string) (*entity.Kit, error)
	GetByCode(ctx context.Context, code string) (*entity.Kit, error)
	Update(ctx context.Context, kit *entity.Kit) error
	List(ctx context.Context, filter ListFilter) ([]*entity.Kit, error)
	Delete(ctx context.Context, id string) error

	ListComponents(ctx context.Context, kitID string) ([]*entity.KitComponent, error)
	ListComponentViews(ctx context.Context, kitID string) ([]*entity.KitComponentView, error)
	GetComponent(ctx context.Context, id string) (*entity.KitComponent, error)
	GetComponentByProduct(ctx context.Context, kitID, productID string) (*entity.KitComponent, error)
	AddComponent(ctx context.Context, component *entity.KitComponent) error
	UpdateComponent(ctx context.Context, component *entity.KitComponent) error
	DeleteComponent(ctx context.Context, id string) error
}
