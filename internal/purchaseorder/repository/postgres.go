package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	partrepo "github.com/fekuna/omnipos-inventory-service/internal/part/repository"
	"github.com/fekuna/omnipos-inventory-service/internal/purchaseorder/dto"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrStatusMismatch means the guarded update found the order in a different
// status than the transition requires.
var ErrStatusMismatch = errors.New("purchase order status changed")

// MissingPartError reports an item whose part no longer exists.
type MissingPartError struct {
	PartID string
}

func (e *MissingPartError) Error() string {
	return fmt.Sprintf("part %s of purchase order item no longer exists", e.PartID)
}

func (e *MissingPartError) Unwrap() error {
	return partrepo.ErrPartNotFound
}

const (
	poColumns   = `id, store_id, po_number, supplier_id, status, notes, total_cost, created_by, created_at, sent_at, received_at, updated_at`
	itemColumns = `id, purchase_order_id, part_id, part_name, quantity_ordered, quantity_received, cost_per_unit, position, created_at`
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateWithItems(ctx context.Context, po *model.PurchaseOrder) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
        INSERT INTO purchase_orders (` + poColumns + `)
        VALUES (
            :id, :store_id, :po_number, :supplier_id, :status, :notes, :total_cost,
            :created_by, :created_at, :sent_at, :received_at, :updated_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, query, po); err != nil {
		return fmt.Errorf("failed to insert purchase order: %w", err)
	}

	itemQuery := `
        INSERT INTO purchase_order_items (` + itemColumns + `)
        VALUES (
            :id, :purchase_order_id, :part_id, :part_name, :quantity_ordered,
            :quantity_received, :cost_per_unit, :position, :created_at
        )
    `
	for i := range po.Items {
		if _, err := tx.NamedExecContext(ctx, itemQuery, &po.Items[i]); err != nil {
			return fmt.Errorf("failed to insert purchase order item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, storeID, id string) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	err := r.DB.GetContext(ctx, &po, r.DB.Rebind(`SELECT `+poColumns+` FROM purchase_orders WHERE id = ? AND store_id = ?`), id, storeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	items, err := listItems(ctx, r.DB, po.ID)
	if err != nil {
		return nil, err
	}
	po.Items = items
	return &po, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.POFilters) ([]model.PurchaseOrder, int, error) {
	conditions := []string{"store_id = ?"}
	args := []interface{}{f.StoreID}

	if f.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.SupplierID != "" {
		conditions = append(conditions, "supplier_id = ?")
		args = append(args, f.SupplierID)
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	var count int
	if err := r.DB.GetContext(ctx, &count, r.DB.Rebind("SELECT count(*) FROM purchase_orders"+whereClause), args...); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + poColumns + " FROM purchase_orders" + whereClause + " ORDER BY created_at DESC, id"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	orders := []model.PurchaseOrder{}
	err := r.DB.SelectContext(ctx, &orders, r.DB.Rebind(query), args...)
	return orders, count, err
}

func (r *PGRepository) MarkSent(ctx context.Context, storeID, id string, at time.Time) ([]model.POItem, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := guardedTransition(ctx, tx, storeID, id, model.POStatusDraft, model.POStatusSent, "sent_at", at); err != nil {
		return nil, err
	}

	items, err := listItems(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if err := partrepo.ApplyOnOrderDelta(ctx, tx, storeID, item.PartID, item.QuantityOrdered, at); err != nil {
			if errors.Is(err, partrepo.ErrPartNotFound) {
				return nil, &MissingPartError{PartID: item.PartID}
			}
			return nil, err
		}
	}

	return items, tx.Commit()
}

func (r *PGRepository) Receive(ctx context.Context, storeID, id, userID string, at time.Time) ([]dto.ReceiptLine, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := guardedTransition(ctx, tx, storeID, id, model.POStatusSent, model.POStatusReceived, "received_at", at); err != nil {
		return nil, err
	}

	items, err := listItems(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	var createdBy *string
	if userID != "" {
		createdBy = &userID
	}
	referenceType := "purchase_order"
	referenceID := id

	lines := make([]dto.ReceiptLine, 0, len(items))
	for _, item := range items {
		inStock, err := partrepo.ApplyStockDelta(ctx, tx, storeID, item.PartID, item.QuantityOrdered, at)
		if err != nil {
			if errors.Is(err, partrepo.ErrPartNotFound) {
				return nil, &MissingPartError{PartID: item.PartID}
			}
			return nil, err
		}
		if err := partrepo.ApplyOnOrderDelta(ctx, tx, storeID, item.PartID, -item.QuantityOrdered, at); err != nil {
			return nil, err
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE purchase_order_items SET quantity_received = quantity_ordered WHERE id = ?`), item.ID); err != nil {
			return nil, fmt.Errorf("failed to mark item received: %w", err)
		}

		err = partrepo.InsertMovement(ctx, tx, &model.StockMovement{
			ID:             uuid.New().String(),
			StoreID:        storeID,
			PartID:         item.PartID,
			MovementType:   model.MovementPurchaseReceipt,
			QuantityChange: item.QuantityOrdered,
			QuantityAfter:  inStock,
			ReferenceType:  &referenceType,
			ReferenceID:    &referenceID,
			CreatedBy:      createdBy,
			CreatedAt:      at,
		})
		if err != nil {
			return nil, err
		}

		lines = append(lines, dto.ReceiptLine{PartID: item.PartID, Quantity: item.QuantityOrdered, InStock: inStock})
	}

	return lines, tx.Commit()
}

func (r *PGRepository) DeleteDraft(ctx context.Context, storeID, id string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, tx.Rebind(`
        DELETE FROM purchase_order_items
        WHERE purchase_order_id IN (
            SELECT id FROM purchase_orders WHERE id = ? AND store_id = ? AND status = ?
        )
    `), id, storeID, string(model.POStatusDraft))
	if err != nil {
		return fmt.Errorf("failed to delete purchase order items: %w", err)
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM purchase_orders WHERE id = ? AND store_id = ? AND status = ?`),
		id, storeID, string(model.POStatusDraft))
	if err != nil {
		return fmt.Errorf("failed to delete purchase order: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStatusMismatch
	}

	return tx.Commit()
}

// guardedTransition flips the status only if the row is still in from, so
// two concurrent transitions cannot both succeed.
func guardedTransition(ctx context.Context, tx *sqlx.Tx, storeID, id string, from, to model.POStatus, stampColumn string, at time.Time) error {
	query := tx.Rebind(`
        UPDATE purchase_orders
        SET status = ?, ` + stampColumn + ` = ?, updated_at = ?
        WHERE id = ? AND store_id = ? AND status = ?
    `)
	res, err := tx.ExecContext(ctx, query, string(to), at, at, id, storeID, string(from))
	if err != nil {
		return fmt.Errorf("failed to update purchase order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStatusMismatch
	}
	return nil
}

func listItems(ctx context.Context, q sqlx.ExtContext, poID string) ([]model.POItem, error) {
	items := []model.POItem{}
	query := q.Rebind(`SELECT ` + itemColumns + ` FROM purchase_order_items WHERE purchase_order_id = ? ORDER BY position, id`)
	if err := sqlx.SelectContext(ctx, q, &items, query, poID); err != nil {
		return nil, err
	}
	return items, nil
}
