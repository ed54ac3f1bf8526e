package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo libro de movimientos. Las existencias se agregan con SUM en cada consulta.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx.
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

const transactionViewSelect = `
	SELECT t.id, t.batch_id, t.product_id, t.warehouse_id, t.direction, t.quantity,
		t.kit_id, t.kit_quantity, t.external_ref, t.expiration_date, t.note,
		t.created_by, t.created_at, t.updated_by, t.updated_at,
		p.name, w.name, COALESCE(k.name, '')
	FROM transactions t
	JOIN products p ON p.id = t.product_id
	JOIN warehouses w ON w.id = t.warehouse_id
	LEFT JOIN kits k ON k.id = t.kit_id`

func scanTransactionView(row pgx.Row) (*entity.TransactionView, error) {
	var v entity.TransactionView
	err := row.Scan(&v.ID, &v.BatchID, &v.ProductID, &v.WarehouseID, &v.Direction, &v.Quantity,
		&v.KitID, &v.KitQuantity, &v.ExternalRef, &v.ExpirationDate, &v.Note,
		&v.CreatedBy, &v.CreatedAt, &v.UpdatedBy, &v.UpdatedAt,
		&v.ProductName, &v.WarehouseName, &v.KitName)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create agrega una fila al libro. Referencias inexistentes (FK) -> ErrConflict.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, batch_id, product_id, warehouse_id, direction, quantity,
			kit_id, kit_quantity, external_ref, expiration_date, note,
			created_by, created_at, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.BatchID, t.ProductID, t.WarehouseID, t.Direction, t.Quantity,
		t.KitID, t.KitQuantity, t.ExternalRef, t.ExpirationDate, t.Note,
		t.CreatedBy, t.CreatedAt, t.UpdatedBy, t.UpdatedAt,
	)
	if err != nil {
		return writeError("insert transaction", err)
	}
	return nil
}

func (r *TransactionRepo) GetView(ctx context.Context, id string) (*entity.TransactionView, error) {
	v, err := scanTransactionView(r.q.QueryRow(ctx, transactionViewSelect+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return v, nil
}

// ListViews más recientes primero (seq es el orden de inserción).
func (r *TransactionRepo) ListViews(ctx context.Context, f repository.TransactionFilter) ([]*entity.TransactionView, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Query != "" {
		add("t.note ILIKE $%d", searchPattern(f.Query))
	}
	if f.Direction != nil {
		add("t.direction = $%d", *f.Direction)
	}
	if f.ProductID != "" {
		add("t.product_id = $%d", f.ProductID)
	}
	if f.WarehouseID != "" {
		add("t.warehouse_id = $%d", f.WarehouseID)
	}
	if f.KitID != "" {
		add("t.kit_id = $%d", f.KitID)
	}
	query := transactionViewSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY t.seq DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.TransactionView
	for rows.Next() {
		v, err := scanTransactionView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func (r *TransactionRepo) UpdateNote(ctx context.Context, id, note, userID string, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE transactions SET note = $2, updated_by = $3, updated_at = $4 WHERE id = $1`,
		id, note, userID, at)
	if err != nil {
		return fmt.Errorf("update transaction note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Totals suma entradas y salidas. warehouseID vacío = todas las bodegas.
func (r *TransactionRepo) Totals(ctx context.Context, productID, warehouseID string) (entity.StockTotals, error) {
	query := `
		SELECT COALESCE(SUM(quantity) FILTER (WHERE direction = 0), 0)::bigint,
		       COALESCE(SUM(quantity) FILTER (WHERE direction = 1), 0)::bigint
		FROM transactions
		WHERE product_id = $1 AND ($2::text = '' OR warehouse_id = $2)`
	var out entity.StockTotals
	if err := r.q.QueryRow(ctx, query, productID, warehouseID).Scan(&out.Received, &out.Issued); err != nil {
		return entity.StockTotals{}, fmt.Errorf("stock totals: %w", err)
	}
	return out, nil
}

// Summary una fila por producto (o producto y bodega) con al menos un movimiento.
func (r *TransactionRepo) Summary(ctx context.Context, byWarehouse bool) ([]*entity.StockRow, error) {
	query := `
		SELECT t.product_id, p.code, p.name, '' AS warehouse_id, '' AS warehouse_name,
			SUM(CASE WHEN t.direction = 0 THEN t.quantity ELSE -t.quantity END)::bigint AS stock
		FROM transactions t
		JOIN products p ON p.id = t.product_id
		GROUP BY t.product_id, p.code, p.name
		ORDER BY p.name, t.product_id`
	if byWarehouse {
		query = `
		SELECT t.product_id, p.code, p.name, t.warehouse_id, w.name,
			SUM(CASE WHEN t.direction = 0 THEN t.quantity ELSE -t.quantity END)::bigint AS stock
		FROM transactions t
		JOIN products p ON p.id = t.product_id
		JOIN warehouses w ON w.id = t.warehouse_id
		GROUP BY t.product_id, p.code, p.name, t.warehouse_id, w.name
		ORDER BY p.name, t.product_id, w.name, t.warehouse_id`
	}
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stock summary: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRow
	for rows.Next() {
		var s entity.StockRow
		if err := rows.Scan(&s.ProductID, &s.ProductCode, &s.ProductName, &s.WarehouseID, &s.WarehouseName, &s.Stock); err != nil {
			return nil, fmt.Errorf("scan stock row: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// LockStock pg_advisory_xact_lock por par producto/bodega; se libera con Commit/Rollback.
// Solo tiene efecto dentro de una transacción (repositorio creado por TxRunner).
func (r *TransactionRepo) LockStock(ctx context.Context, productID, warehouseID string) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1), hashtext($2))`, productID, warehouseID); err != nil {
		return fmt.Errorf("lock stock: %w", err)
	}
	return nil
}
