package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/part/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

const partColumns = `id, store_id, sku, name, category, unit, in_stock, committed, on_order, min_threshold, created_by, created_at, updated_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Part) error {
	query := `
        INSERT INTO parts (
            id, store_id, sku, name, category, unit,
            in_stock, committed, on_order, min_threshold,
            created_by, created_at, updated_at
        )
        VALUES (
            :id, :store_id, :sku, :name, :category, :unit,
            :in_stock, :committed, :on_order, :min_threshold,
            :created_by, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, storeID, id string) (*model.Part, error) {
	var p model.Part
	query := r.DB.Rebind(`SELECT ` + partColumns + ` FROM parts WHERE id = ? AND store_id = ?`)
	err := r.DB.GetContext(ctx, &p, query, id, storeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) BatchGetByIDs(ctx context.Context, storeID string, ids []string) ([]model.Part, error) {
	if len(ids) == 0 {
		return []model.Part{}, nil
	}

	query, args, err := sqlx.In(`SELECT `+partColumns+` FROM parts WHERE store_id = ? AND id IN (?)`, storeID, ids)
	if err != nil {
		return nil, err
	}

	var parts []model.Part
	err = r.DB.SelectContext(ctx, &parts, r.DB.Rebind(query), args...)
	return parts, err
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.PartFilters) ([]model.Part, int, error) {
	conditions := []string{"store_id = ?"}
	args := []interface{}{f.StoreID}

	if f.Search != "" {
		pattern := "%" + postgres.EscapeLike(strings.ToLower(f.Search)) + "%"
		conditions = append(conditions, `(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(sku) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if f.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, f.Category)
	}
	if f.LowStock {
		conditions = append(conditions, "min_threshold > 0 AND in_stock - committed <= min_threshold")
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	var count int
	if err := r.DB.GetContext(ctx, &count, r.DB.Rebind("SELECT count(*) FROM parts"+whereClause), args...); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + partColumns + " FROM parts" + whereClause + " ORDER BY LOWER(name), id"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	parts := []model.Part{}
	err := r.DB.SelectContext(ctx, &parts, r.DB.Rebind(query), args...)
	return parts, count, err
}

// Search returns parts matching query, best match first: exact id, exact SKU,
// name prefix, then name or SKU substring. Ties are broken by lower-cased
// name and then id so the order never depends on the storage engine.
func (r *PGRepository) Search(ctx context.Context, storeID, query string, limit int) ([]model.Part, error) {
	raw := strings.TrimSpace(query)
	lowered := strings.ToLower(raw)
	escaped := postgres.EscapeLike(lowered)
	prefix := escaped + "%"
	contains := "%" + escaped + "%"

	sqlQuery := r.DB.Rebind(`
        SELECT ` + partColumns + ` FROM parts
        WHERE store_id = ?
          AND (id = ?
               OR LOWER(sku) = ?
               OR LOWER(name) LIKE ? ESCAPE '\'
               OR LOWER(sku) LIKE ? ESCAPE '\')
        ORDER BY CASE
                     WHEN id = ? THEN 0
                     WHEN LOWER(sku) = ? THEN 1
                     WHEN LOWER(name) LIKE ? ESCAPE '\' THEN 2
                     ELSE 3
                 END,
                 LOWER(name), id
        LIMIT ?
    `)

	parts := []model.Part{}
	err := r.DB.SelectContext(ctx, &parts, sqlQuery,
		storeID,
		raw, lowered, contains, contains,
		raw, lowered, prefix,
		limit,
	)
	return parts, err
}

func (r *PGRepository) Update(ctx context.Context, p *model.Part) error {
	// in_stock and on_order are owned by the ledger primitives and are never
	// written from a loaded struct.
	query := `
        UPDATE parts SET
            sku = :sku,
            name = :name,
            category = :category,
            unit = :unit,
            committed = :committed,
            min_threshold = :min_threshold,
            updated_at = :updated_at
        WHERE id = :id AND store_id = :store_id
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, storeID, id string, cascadeBOM bool) (bool, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if cascadeBOM {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM bom_lines WHERE store_id = ? AND part_id = ?`), storeID, id); err != nil {
			return false, fmt.Errorf("failed to delete bom lines: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM stock_movements WHERE store_id = ? AND part_id = ?`), storeID, id); err != nil {
		return false, fmt.Errorf("failed to delete movements: %w", err)
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM parts WHERE id = ? AND store_id = ?`), id, storeID)
	if err != nil {
		return false, fmt.Errorf("failed to delete part: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	return true, tx.Commit()
}

func (r *PGRepository) CountOpenPurchaseOrderRefs(ctx context.Context, storeID, id string) (int, error) {
	query := r.DB.Rebind(`
        SELECT count(*)
        FROM purchase_order_items i
        JOIN purchase_orders po ON po.id = i.purchase_order_id
        WHERE po.store_id = ? AND i.part_id = ? AND po.status IN ('draft', 'sent')
    `)
	var n int
	err := r.DB.GetContext(ctx, &n, query, storeID, id)
	return n, err
}

func (r *PGRepository) AdjustStockWithMovement(ctx context.Context, storeID, partID string, delta int, movement *model.StockMovement) (int, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	inStock, err := ApplyStockDelta(ctx, tx, storeID, partID, delta, movement.CreatedAt)
	if err != nil {
		return 0, err
	}

	movement.QuantityAfter = inStock
	if err := InsertMovement(ctx, tx, movement); err != nil {
		return 0, err
	}

	return inStock, tx.Commit()
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	conditions := []string{"store_id = ?"}
	args := []interface{}{f.StoreID}

	if f.PartID != "" {
		conditions = append(conditions, "part_id = ?")
		args = append(args, f.PartID)
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = ?")
		args = append(args, f.MovementType)
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	var count int
	if err := r.DB.GetContext(ctx, &count, r.DB.Rebind("SELECT count(*) FROM stock_movements"+whereClause), args...); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, store_id, part_id, movement_type, quantity_change, quantity_after,
            reference_type, reference_id, notes, created_by, created_at
        FROM stock_movements` + whereClause + " ORDER BY created_at DESC, id"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	items := []model.StockMovement{}
	err := r.DB.SelectContext(ctx, &items, r.DB.Rebind(query), args...)
	return items, count, err
}
