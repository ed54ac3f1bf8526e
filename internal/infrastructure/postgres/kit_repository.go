package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var _ repository.KitRepository = (*KitRepo)(nil)

// KitRepo kits y su composición (kit_components, ON DELETE CASCADE desde kits).
type KitRepo struct {
	q Querier
}

// NewKitRepository construye el adaptador. Pasar pool o tx.
func NewKitRepository(q Querier) *KitRepo {
	return &KitRepo{q: q}
}

const (
	kitColumns       = `id, code, name, description, photo, created_by, created_at, updated_by, updated_at`
	componentColumns = `id, kit_id, product_id, quantity, created_by, created_at, updated_by, updated_at`
)

func scanKit(row pgx.Row) (*entity.Kit, error) {
	var k entity.Kit
	if err := row.Scan(&k.ID, &k.Code, &k.Name, &k.Description, &k.Photo,
		&k.CreatedBy, &k.CreatedAt, &k.UpdatedBy, &k.UpdatedAt); err != nil {
		return nil, err
	}
	return &k, nil
}

func scanComponent(row pgx.Row, extra ...any) (*entity.KitComponent, error) {
	var c entity.KitComponent
	dest := append([]any{&c.ID, &c.KitID, &c.ProductID, &c.Quantity,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedBy, &c.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *KitRepo) Create(ctx context.Context, k *entity.Kit) error {
	query := `INSERT INTO kits (` + kitColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, k.ID, k.Code, k.Name, k.Description, k.Photo,
		k.CreatedBy, k.CreatedAt, k.UpdatedBy, k.UpdatedAt)
	if err != nil {
		return writeError("insert kit", err)
	}
	return nil
}

func (r *KitRepo) GetByID(ctx context.Context, id string) (*entity.Kit, error) {
	k, err := scanKit(r.q.QueryRow(ctx, `SELECT `+kitColumns+` FROM kits WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get kit: %w", err)
	}
	return k, nil
}

func (r *KitRepo) GetByCode(ctx context.Context, code string) (*entity.Kit, error) {
	k, err := scanKit(r.q.QueryRow(ctx, `SELECT `+kitColumns+` FROM kits WHERE code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get kit by code: %w", err)
	}
	return k, nil
}

func (r *KitRepo) Update(ctx context.Context, k *entity.Kit) error {
	query := `
		UPDATE kits SET code = $2, name = $3, description = $4, photo = $5, updated_by = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, k.ID, k.Code, k.Name, k.Description, k.Photo, k.UpdatedBy, k.UpdatedAt)
	if err != nil {
		return writeError("update kit", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *KitRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Kit, error) {
	query := `
		SELECT ` + kitColumns + ` FROM kits
		WHERE $1::text = '' OR code ILIKE $2 OR name ILIKE $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, f.Query, searchPattern(f.Query), f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list kits: %w", err)
	}
	defer rows.Close()
	var list []*entity.Kit
	for rows.Next() {
		k, err := scanKit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan kit: %w", err)
		}
		list = append(list, k)
	}
	return list, rows.Err()
}

// Delete borra el kit; la composición cae por cascada. Despachos registrados del kit -> ErrConflict.
func (r *KitRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM kits WHERE id = $1`, id)
	if err != nil {
		return writeError("delete kit", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *KitRepo) ListComponents(ctx context.Context, kitID string) ([]*entity.KitComponent, error) {
	query := `SELECT ` + componentColumns + ` FROM kit_components WHERE kit_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, kitID)
	if err != nil {
		return nil, fmt.Errorf("list kit components: %w", err)
	}
	defer rows.Close()
	var list []*entity.KitComponent
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan kit component: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// ListComponentViews composición con código y nombre del producto (JOIN).
func (r *KitRepo) ListComponentViews(ctx context.Context, kitID string) ([]*entity.KitComponentView, error) {
	query := `
		SELECT c.id, c.kit_id, c.product_id, c.quantity, c.created_by, c.created_at, c.updated_by, c.updated_at,
			p.code, p.name
		FROM kit_components c
		JOIN products p ON p.id = c.product_id
		WHERE c.kit_id = $1
		ORDER BY c.created_at, c.id`
	rows, err := r.q.Query(ctx, query, kitID)
	if err != nil {
		return nil, fmt.Errorf("list kit composition: %w", err)
	}
	defer rows.Close()
	var list []*entity.KitComponentView
	for rows.Next() {
		var code, name string
		c, err := scanComponent(rows, &code, &name)
		if err != nil {
			return nil, fmt.Errorf("scan kit composition: %w", err)
		}
		list = append(list, &entity.KitComponentView{KitComponent: *c, ProductCode: code, ProductName: name})
	}
	return list, rows.Err()
}

func (r *KitRepo) GetComponent(ctx context.Context, id string) (*entity.KitComponent, error) {
	c, err := scanComponent(r.q.QueryRow(ctx, `SELECT `+componentColumns+` FROM kit_components WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get kit component: %w", err)
	}
	return c, nil
}

func (r *KitRepo) GetComponentByProduct(ctx context.Context, kitID, productID string) (*entity.KitComponent, error) {
	query := `SELECT ` + componentColumns + ` FROM kit_components WHERE kit_id = $1 AND product_id = $2`
	c, err := scanComponent(r.q.QueryRow(ctx, query, kitID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get kit component by product: %w", err)
	}
	return c, nil
}

// AddComponent UNIQUE (kit_id, product_id) -> ErrConflict.
func (r *KitRepo) AddComponent(ctx context.Context, c *entity.KitComponent) error {
	query := `INSERT INTO kit_components (` + componentColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, c.ID, c.KitID, c.ProductID, c.Quantity,
		c.CreatedBy, c.CreatedAt, c.UpdatedBy, c.UpdatedAt)
	if err != nil {
		return writeError("insert kit component", err)
	}
	return nil
}

func (r *KitRepo) UpdateComponent(ctx context.Context, c *entity.KitComponent) error {
	query := `UPDATE kit_components SET quantity = $2, updated_by = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, c.ID, c.Quantity, c.UpdatedBy, c.UpdatedAt)
	if err != nil {
		return writeError("update kit component", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *KitRepo) DeleteComponent(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM kit_components WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete kit component: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
