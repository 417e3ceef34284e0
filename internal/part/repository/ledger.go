package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/jmoiron/sqlx"
)

// ErrPartNotFound is returned by the ledger primitives when the part row
// does not exist in the given store.
var ErrPartNotFound = errors.New("part not found")

// ApplyStockDelta is the only statement that changes in_stock. The increment
// happens inside the UPDATE, so concurrent writers never lose each other's
// changes, and the result is clamped at zero.
func ApplyStockDelta(ctx context.Context, ext sqlx.ExtContext, storeID, partID string, delta int, at time.Time) (int, error) {
	query := ext.Rebind(`
        UPDATE parts
        SET in_stock = CASE WHEN in_stock + ? < 0 THEN 0 ELSE in_stock + ? END,
            updated_at = ?
        WHERE id = ? AND store_id = ?
        RETURNING in_stock
    `)

	var inStock int
	err := sqlx.GetContext(ctx, ext, &inStock, query, delta, delta, at, partID, storeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrPartNotFound
		}
		return 0, fmt.Errorf("apply stock delta: %w", err)
	}
	return inStock, nil
}

// ApplyOnOrderDelta moves on_order by delta, clamped at zero.
func ApplyOnOrderDelta(ctx context.Context, ext sqlx.ExtContext, storeID, partID string, delta int, at time.Time) error {
	query := ext.Rebind(`
        UPDATE parts
        SET on_order = CASE WHEN on_order + ? < 0 THEN 0 ELSE on_order + ? END,
            updated_at = ?
        WHERE id = ? AND store_id = ?
    `)

	res, err := ext.ExecContext(ctx, query, delta, delta, at, partID, storeID)
	if err != nil {
		return fmt.Errorf("apply on-order delta: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPartNotFound
	}
	return nil
}

func InsertMovement(ctx context.Context, ext sqlx.ExtContext, m *model.StockMovement) error {
	query := `
        INSERT INTO stock_movements (
            id, store_id, part_id, movement_type, quantity_change, quantity_after,
            reference_type, reference_id, notes, created_by, created_at
        )
        VALUES (
            :id, :store_id, :part_id, :movement_type, :quantity_change, :quantity_after,
            :reference_type, :reference_id, :notes, :created_by, :created_at
        )
    `
	if _, err := sqlx.NamedExecContext(ctx, ext, query, m); err != nil {
		return fmt.Errorf("failed to log movement: %w", err)
	}
	return nil
}
