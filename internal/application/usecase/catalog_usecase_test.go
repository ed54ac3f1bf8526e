package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/memory"
)

func strPtr(s string) *string { return &s }

func TestProductUseCase_CodeConflictLeavesExistingRow(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.NewStore())
	uc := usecase.NewProductUseCase(repos.Products)

	cost := decimal.RequireFromString("1250.50")
	first, err := uc.Create(ctx, "u1", dto.CreateProductRequest{Code: " P-1 ", Name: "Jeringa", UnitCost: &cost})
	require.NoError(t, err)
	assert.Equal(t, "P-1", first.Code)
	require.NotNil(t, first.UnitCost)
	assert.True(t, cost.Equal(*first.UnitCost))

	_, err = uc.Create(ctx, "u2", dto.CreateProductRequest{Code: "P-1", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := uc.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jeringa", got.Name)
	assert.Equal(t, "u1", got.CreatedBy)
}

func TestProductUseCase_UpdateIsPartial(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.NewStore())
	uc := usecase.NewProductUseCase(repos.Products)

	a, err := uc.Create(ctx, "u1", dto.CreateProductRequest{Code: "A", Name: "Alcohol", Description: "500ml"})
	require.NoError(t, err)
	b, err := uc.Create(ctx, "u1", dto.CreateProductRequest{Code: "B", Name: "Gasa"})
	require.NoError(t, err)

	upd, err := uc.Update(ctx, "u2", a.ID, dto.UpdateProductRequest{Name: strPtr("Alcohol antiséptico")})
	require.NoError(t, err)
	assert.Equal(t, "Alcohol antiséptico", upd.Name)
	assert.Equal(t, "500ml", upd.Description)
	assert.Equal(t, "A", upd.Code)
	assert.Equal(t, "u2", upd.UpdatedBy)

	_, err = uc.Update(ctx, "u2", b.ID, dto.UpdateProductRequest{Code: strPtr("A")})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.Update(ctx, "u2", "nope", dto.UpdateProductRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_RejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewProductUseCase(memory.NewRepositories(memory.NewStore()).Products)

	_, err := uc.Create(ctx, "", dto.CreateProductRequest{Code: "  ", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	neg := decimal.NewFromInt(-1)
	_, err = uc.Create(ctx, "", dto.CreateProductRequest{Code: "X", Name: "x", UnitCost: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUseCase_ListSearchAndDelete(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewProductUseCase(memory.NewRepositories(memory.NewStore()).Products)

	p, err := uc.Create(ctx, "", dto.CreateProductRequest{Code: "GU-01", Name: "Guantes nitrilo"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, "", dto.CreateProductRequest{Code: "TA-01", Name: "Tapabocas"})
	require.NoError(t, err)

	list, err := uc.List(ctx, "nitrilo", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, p.ID, list.Items[0].ID)

	list, err = uc.List(ctx, "", dto.PageRequest{Limit: 1000})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, dto.MaxLimit, list.Page.Limit)

	require.NoError(t, uc.Delete(ctx, p.ID))
	_, err = uc.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, p.ID), domain.ErrNotFound)
}

func TestWarehouseUseCase_CodeConflict(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewWarehouseUseCase(memory.NewRepositories(memory.NewStore()).Warehouses)

	w, err := uc.Create(ctx, "u1", dto.CreateWarehouseRequest{Code: "BOD-1", Name: "Central"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, "u1", dto.CreateWarehouseRequest{Code: "BOD-1", Name: "Norte"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := uc.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Central", got.Name)
}

func TestKitUseCase_Composition(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.NewStore())
	products := usecase.NewProductUseCase(repos.Products)
	kits := usecase.NewKitUseCase(repos.Kits, repos.Products)

	p, err := products.Create(ctx, "", dto.CreateProductRequest{Code: "A", Name: "Guantes"})
	require.NoError(t, err)
	k, err := kits.Create(ctx, "", dto.CreateKitRequest{Code: "K1", Name: "Kit curación"})
	require.NoError(t, err)

	_, err = kits.Create(ctx, "", dto.CreateKitRequest{Code: "K1", Name: "Repetido"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	comp, err := kits.AddComponent(ctx, "", k.ID, dto.AddKitComponentRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, "A", comp.ProductCode)
	assert.Equal(t, "Guantes", comp.ProductName)

	_, err = kits.AddComponent(ctx, "", k.ID, dto.AddKitComponentRequest{ProductID: p.ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = kits.AddComponent(ctx, "", k.ID, dto.AddKitComponentRequest{ProductID: p.ID, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = kits.AddComponent(ctx, "", k.ID, dto.AddKitComponentRequest{ProductID: "nope", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	qty := int64(5)
	upd, err := kits.UpdateComponent(ctx, "", k.ID, comp.ID, dto.UpdateKitComponentRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, int64(5), upd.Quantity)

	zero := int64(0)
	_, err = kits.UpdateComponent(ctx, "", k.ID, comp.ID, dto.UpdateKitComponentRequest{Quantity: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = kits.UpdateComponent(ctx, "", "otro-kit", comp.ID, dto.UpdateKitComponentRequest{Quantity: &qty})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := kits.ListComposition(ctx, k.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(5), list[0].Quantity)

	require.NoError(t, kits.Delete(ctx, k.ID))
	gone, err := repos.Kits.GetComponent(ctx, comp.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	comps, err := repos.Kits.ListComponents(ctx, k.ID)
	require.NoError(t, err)
	assert.Empty(t, comps)
}
