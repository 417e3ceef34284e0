package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/bom/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/jmoiron/sqlx"
)

const lineSelect = `
    SELECT l.id, l.store_id, l.product_id, l.variant_id, l.part_id,
           l.quantity_needed, l.position, l.created_by, l.created_at, l.updated_at,
           p.id AS p_id, p.sku AS p_sku, p.name AS p_name, p.category AS p_category,
           p.unit AS p_unit, p.in_stock AS p_in_stock, p.committed AS p_committed,
           p.on_order AS p_on_order, p.min_threshold AS p_min_threshold,
           p.created_by AS p_created_by, p.created_at AS p_created_at, p.updated_at AS p_updated_at
    FROM bom_lines l
    LEFT JOIN parts p ON p.id = l.part_id AND p.store_id = l.store_id
`

const lineOrder = ` ORDER BY l.position, l.created_at, l.id`

// lineRow is a BOM line joined with its part. Every part column is nullable
// because the join is outer.
type lineRow struct {
	model.BOMLine

	PartRefID    sql.NullString `db:"p_id"`
	PartSKU      sql.NullString `db:"p_sku"`
	PartName     sql.NullString `db:"p_name"`
	PartCategory sql.NullString `db:"p_category"`
	PartUnit     sql.NullString `db:"p_unit"`
	InStock      sql.NullInt64  `db:"p_in_stock"`
	Committed    sql.NullInt64  `db:"p_committed"`
	OnOrder      sql.NullInt64  `db:"p_on_order"`
	MinThreshold sql.NullInt64  `db:"p_min_threshold"`
	PartCreator  sql.NullString `db:"p_created_by"`
	PartCreated  sql.NullTime   `db:"p_created_at"`
	PartUpdated  sql.NullTime   `db:"p_updated_at"`
}

func (r *lineRow) toModel() model.BOMLine {
	l := r.BOMLine
	if !r.PartRefID.Valid {
		return l
	}
	p := &model.Part{
		ID:           r.PartRefID.String,
		StoreID:      l.StoreID,
		Name:         r.PartName.String,
		Category:     r.PartCategory.String,
		Unit:         r.PartUnit.String,
		InStock:      int(r.InStock.Int64),
		Committed:    int(r.Committed.Int64),
		OnOrder:      int(r.OnOrder.Int64),
		MinThreshold: int(r.MinThreshold.Int64),
		CreatedAt:    r.PartCreated.Time,
		UpdatedAt:    r.PartUpdated.Time,
	}
	if r.PartSKU.Valid {
		sku := r.PartSKU.String
		p.SKU = &sku
	}
	if r.PartCreator.Valid {
		by := r.PartCreator.String
		p.CreatedBy = &by
	}
	l.Part = p
	return l
}

func toModels(rows []lineRow) []model.BOMLine {
	lines := make([]model.BOMLine, len(rows))
	for i := range rows {
		lines[i] = rows[i].toModel()
	}
	return lines
}

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) ListLines(ctx context.Context, storeID, productID, variantID string) ([]model.BOMLine, error) {
	query := r.DB.Rebind(lineSelect + ` WHERE l.store_id = ? AND l.product_id = ? AND l.variant_id = ?` + lineOrder)

	var rows []lineRow
	if err := r.DB.SelectContext(ctx, &rows, query, storeID, productID, variantID); err != nil {
		return nil, err
	}
	return toModels(rows), nil
}

// ListLinesByProducts loads the lines of several BOMs at once. Lines of
// variants not named in keys are filtered out.
func (r *PGRepository) ListLinesByProducts(ctx context.Context, storeID string, keys []dto.ProductKey) ([]model.BOMLine, error) {
	if len(keys) == 0 {
		return []model.BOMLine{}, nil
	}

	wanted := make(map[dto.ProductKey]struct{}, len(keys))
	productIDs := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := wanted[k]; ok {
			continue
		}
		wanted[k] = struct{}{}
		productIDs = append(productIDs, k.ProductID)
	}

	query, args, err := sqlx.In(lineSelect+` WHERE l.store_id = ? AND l.product_id IN (?)`+lineOrder, storeID, productIDs)
	if err != nil {
		return nil, err
	}

	var rows []lineRow
	if err := r.DB.SelectContext(ctx, &rows, r.DB.Rebind(query), args...); err != nil {
		return nil, err
	}

	lines := make([]model.BOMLine, 0, len(rows))
	for i := range rows {
		key := dto.ProductKey{ProductID: rows[i].ProductID, VariantID: rows[i].VariantID}
		if _, ok := wanted[key]; ok {
			lines = append(lines, rows[i].toModel())
		}
	}
	return lines, nil
}

func (r *PGRepository) FindLine(ctx context.Context, storeID, id string) (*model.BOMLine, error) {
	var row lineRow
	err := r.DB.GetContext(ctx, &row, r.DB.Rebind(lineSelect+` WHERE l.id = ? AND l.store_id = ?`), id, storeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	l := row.toModel()
	return &l, nil
}

func (r *PGRepository) FindLineByPart(ctx context.Context, storeID, productID, variantID, partID string) (*model.BOMLine, error) {
	query := r.DB.Rebind(lineSelect + ` WHERE l.store_id = ? AND l.product_id = ? AND l.variant_id = ? AND l.part_id = ?`)

	var row lineRow
	err := r.DB.GetContext(ctx, &row, query, storeID, productID, variantID, partID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	l := row.toModel()
	return &l, nil
}

// CreateLine appends l to the end of its BOM and sets l.Position.
func (r *PGRepository) CreateLine(ctx context.Context, l *model.BOMLine) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.GetContext(ctx, &l.Position, tx.Rebind(`
        SELECT COALESCE(MAX(position), 0) + 1 FROM bom_lines
        WHERE store_id = ? AND product_id = ? AND variant_id = ?
    `), l.StoreID, l.ProductID, l.VariantID)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO bom_lines (
            id, store_id, product_id, variant_id, part_id,
            quantity_needed, position, created_by, created_at, updated_at
        )
        VALUES (
            :id, :store_id, :product_id, :variant_id, :part_id,
            :quantity_needed, :position, :created_by, :created_at, :updated_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, query, l); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepository) UpdateQuantity(ctx context.Context, storeID, id string, quantity int, at time.Time) (bool, error) {
	query := r.DB.Rebind(`UPDATE bom_lines SET quantity_needed = ?, updated_at = ? WHERE id = ? AND store_id = ?`)
	res, err := r.DB.ExecContext(ctx, query, quantity, at, id, storeID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PGRepository) DeleteLine(ctx context.Context, storeID, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM bom_lines WHERE id = ? AND store_id = ?`), id, storeID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
