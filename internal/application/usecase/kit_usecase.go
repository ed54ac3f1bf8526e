package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// KitUseCase CRUD de kits y de su composición (productos y cantidades por kit).
type KitUseCase struct {
	repo        repository.KitRepository
	productRepo repository.ProductRepository
}

// NewKitUseCase construye el caso de uso.
func NewKitUseCase(repo repository.KitRepository, productRepo repository.ProductRepository) *KitUseCase {
	return &KitUseCase{repo: repo, productRepo: productRepo}
}

// Create crea un kit vacío; la composición se agrega aparte.
func (uc *KitUseCase) Create(ctx context.Context, userID string, in dto.CreateKitRequest) (*dto.KitResponse, error) {
	code := normalizeCode(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrConflict
	}
	kit := &entity.Kit{
		ID:          uuid.New().String(),
		Code:        code,
		Name:        name,
		Description: in.Description,
		Photo:       in.Photo,
		Audit:       entity.NewAudit(userID, time.Now()),
	}
	if err := uc.repo.Create(ctx, kit); err != nil {
		return nil, err
	}
	return toKitResponse(kit), nil
}

// GetByID obtiene un kit por ID.
func (uc *KitUseCase) GetByID(ctx context.Context, id string) (*dto.KitResponse, error) {
	kit, err := uc.getKit(ctx, id)
	if err != nil {
		return nil, err
	}
	return toKitResponse(kit), nil
}

// Update actualiza los campos enviados del kit.
func (uc *KitUseCase) Update(ctx context.Context, userID, id string, in dto.UpdateKitRequest) (*dto.KitResponse, error) {
	kit, err := uc.getKit(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Code != nil {
		code := normalizeCode(*in.Code)
		if code == "" {
			return nil, domain.ErrInvalidInput
		}
		if code != kit.Code {
			clash, err := uc.repo.GetByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if clash != nil && clash.ID != kit.ID {
				return nil, domain.ErrConflict
			}
			kit.Code = code
		}
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		kit.Name = name
	}
	if in.Description != nil {
		kit.Description = *in.Description
	}
	if in.Photo != nil {
		kit.Photo = *in.Photo
	}
	kit.Touch(userID, time.Now())
	if err := uc.repo.Update(ctx, kit); err != nil {
		return nil, err
	}
	return toKitResponse(kit), nil
}

// List lista kits con búsqueda por nombre/código.
func (uc *KitUseCase) List(ctx context.Context, q string, page dto.PageRequest) (*dto.KitListResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, listFilter(q, page))
	if err != nil {
		return nil, err
	}
	items := make([]dto.KitResponse, 0, len(list))
	for _, k := range list {
		items = append(items, *toKitResponse(k))
	}
	return &dto.KitListResponse{
		Items: items,
		Page:  dto.PageResponse{Skip: page.Skip, Limit: page.Limit, Count: len(items)},
	}, nil
}

// Delete elimina el kit y, en cascada, su composición.
func (uc *KitUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.getKit(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// ListComposition lista la composición del kit con código y nombre de cada producto.
func (uc *KitUseCase) ListComposition(ctx context.Context, kitID string) ([]dto.KitComponentResponse, error) {
	if _, err := uc.getKit(ctx, kitID); err != nil {
		return nil, err
	}
	views, err := uc.repo.ListComponentViews(ctx, kitID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.KitComponentResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toKitComponentResponse(&v.KitComponent, v.ProductCode, v.ProductName))
	}
	return out, nil
}

// AddComponent agrega un producto al kit. Quantity >= 1; un producto no puede repetirse en el mismo kit.
func (uc *KitUseCase) AddComponent(ctx context.Context, userID, kitID string, in dto.AddKitComponentRequest) (*dto.KitComponentResponse, error) {
	if in.ProductID == "" || in.Quantity < 1 {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.getKit(ctx, kitID); err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	dup, err := uc.repo.GetComponentByProduct(ctx, kitID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if dup != nil {
		return nil, domain.ErrConflict
	}
	comp := &entity.KitComponent{
		ID:        uuid.New().String(),
		KitID:     kitID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Audit:     entity.NewAudit(userID, time.Now()),
	}
	if err := uc.repo.AddComponent(ctx, comp); err != nil {
		return nil, err
	}
	out := toKitComponentResponse(comp, product.Code, product.Name)
	return &out, nil
}

// UpdateComponent cambia la cantidad de una fila de composición del kit.
func (uc *KitUseCase) UpdateComponent(ctx context.Context, userID, kitID, compID string, in dto.UpdateKitComponentRequest) (*dto.KitComponentResponse, error) {
	comp, err := uc.getComponent(ctx, kitID, compID)
	if err != nil {
		return nil, err
	}
	if in.Quantity != nil {
		if *in.Quantity < 1 {
			return nil, domain.ErrInvalidInput
		}
		comp.Quantity = *in.Quantity
	}
	comp.Touch(userID, time.Now())
	if err := uc.repo.UpdateComponent(ctx, comp); err != nil {
		return nil, err
	}
	var code, name string
	if p, _ := uc.productRepo.GetByID(ctx, comp.ProductID); p != nil {
		code, name = p.Code, p.Name
	}
	out := toKitComponentResponse(comp, code, name)
	return &out, nil
}

// DeleteComponent quita una fila de composición del kit.
func (uc *KitUseCase) DeleteComponent(ctx context.Context, kitID, compID string) error {
	if _, err := uc.getComponent(ctx, kitID, compID); err != nil {
		return err
	}
	return uc.repo.DeleteComponent(ctx, compID)
}

func (uc *KitUseCase) getKit(ctx context.Context, id string) (*entity.Kit, error) {
	kit, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if kit == nil {
		return nil, domain.ErrNotFound
	}
	return kit, nil
}

// getComponent exige que la fila pertenezca al kit indicado.
func (uc *KitUseCase) getComponent(ctx context.Context, kitID, compID string) (*entity.KitComponent, error) {
	comp, err := uc.repo.GetComponent(ctx, compID)
	if err != nil {
		return nil, err
	}
	if comp == nil || comp.KitID != kitID {
		return nil, domain.ErrNotFound
	}
	return comp, nil
}

func toKitResponse(k *entity.Kit) *dto.KitResponse {
	if k == nil {
		return nil
	}
	return &dto.KitResponse{
		ID:            k.ID,
		Code:          k.Code,
		Name:          k.Name,
		Description:   k.Description,
		Photo:         k.Photo,
		AuditResponse: toAuditResponse(k.Audit),
	}
}

func toKitComponentResponse(c *entity.KitComponent, productCode, productName string) dto.KitComponentResponse {
	return dto.KitComponentResponse{
		ID:            c.ID,
		KitID:         c.KitID,
		ProductID:     c.ProductID,
		Quantity:      c.Quantity,
		ProductCode:   productCode,
		ProductName:   productName,
		AuditResponse: toAuditResponse(c.Audit),
	}
}
