package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/supplier/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

const supplierColumns = `id, store_id, name, email, phone, address, notes, created_by, created_at, updated_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, s *model.Supplier) error {
	query := `
        INSERT INTO suppliers (` + supplierColumns + `)
        VALUES (:id, :store_id, :name, :email, :phone, :address, :notes, :created_by, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, s)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, storeID, id string) (*model.Supplier, error) {
	var s model.Supplier
	query := r.DB.Rebind(`SELECT ` + supplierColumns + ` FROM suppliers WHERE id = ? AND store_id = ?`)
	err := r.DB.GetContext(ctx, &s, query, id, storeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.SupplierFilters) ([]model.Supplier, int, error) {
	conditions := []string{"store_id = ?"}
	args := []interface{}{f.StoreID}

	if f.Search != "" {
		pattern := "%" + postgres.EscapeLike(strings.ToLower(f.Search)) + "%"
		conditions = append(conditions, `(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	var count int
	if err := r.DB.GetContext(ctx, &count, r.DB.Rebind("SELECT count(*) FROM suppliers"+whereClause), args...); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + supplierColumns + " FROM suppliers" + whereClause + " ORDER BY LOWER(name), id"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	suppliers := []model.Supplier{}
	err := r.DB.SelectContext(ctx, &suppliers, r.DB.Rebind(query), args...)
	return suppliers, count, err
}

func (r *PGRepository) Update(ctx context.Context, s *model.Supplier) error {
	query := `
        UPDATE suppliers SET
            name = :name,
            email = :email,
            phone = :phone,
            address = :address,
            notes = :notes,
            updated_at = :updated_at
        WHERE id = :id AND store_id = :store_id
    `
	_, err := r.DB.NamedExecContext(ctx, query, s)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, storeID, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM suppliers WHERE id = ? AND store_id = ?`), id, storeID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PGRepository) CountPurchaseOrders(ctx context.Context, storeID, id string) (int, error) {
	var n int
	err := r.DB.GetContext(ctx, &n, r.DB.Rebind(`SELECT count(*) FROM purchase_orders WHERE store_id = ? AND supplier_id = ?`), storeID, id)
	return n, err
}
