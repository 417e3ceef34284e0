package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/supplier"
	"github.com/fekuna/omnipos-inventory-service/internal/supplier/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type supplierUseCase struct {
	repo   supplier.Repository
	logger logger.ZapLogger
}

func NewSupplierUseCase(repo supplier.Repository, log logger.ZapLogger) supplier.UseCase {
	return &supplierUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *supplierUseCase) CreateSupplier(ctx context.Context, input *dto.CreateSupplierInput) (*model.Supplier, error) {
	if input.StoreID == "" {
		return nil, apperror.Validation("store_id is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}
	email, err := validEmail(input.Email)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	s := &model.Supplier{
		ID:        uuid.New().String(),
		StoreID:   input.StoreID,
		Name:      name,
		Email:     email,
		Phone:     optional(input.Phone),
		Address:   optional(input.Address),
		Notes:     optional(input.Notes),
		CreatedBy: optional(input.UserID),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}

	uc.logger.Info("Supplier created", zap.String("store_id", s.StoreID), zap.String("supplier_id", s.ID))
	return s, nil
}

func (uc *supplierUseCase) GetSupplier(ctx context.Context, storeID, id string) (*model.Supplier, error) {
	s, err := uc.repo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load supplier: %w", err)
	}
	if s == nil {
		return nil, apperror.NotFound("supplier %s not found", id)
	}
	return s, nil
}

func (uc *supplierUseCase) ListSuppliers(ctx context.Context, filters *dto.SupplierFilters) ([]model.Supplier, int, error) {
	if filters.StoreID == "" {
		return nil, 0, apperror.Validation("store_id is required")
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 || filters.PageSize > 200 {
		filters.PageSize = 50
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *supplierUseCase) UpdateSupplier(ctx context.Context, input *dto.UpdateSupplierInput) (*model.Supplier, error) {
	s, err := uc.GetSupplier(ctx, input.StoreID, input.SupplierID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.Validation("name must not be empty")
		}
		s.Name = name
	}
	if input.Email != nil {
		email, err := validEmail(*input.Email)
		if err != nil {
			return nil, err
		}
		s.Email = email
	}
	if input.Phone != nil {
		s.Phone = optional(*input.Phone)
	}
	if input.Address != nil {
		s.Address = optional(*input.Address)
	}
	if input.Notes != nil {
		s.Notes = optional(*input.Notes)
	}
	s.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}
	return s, nil
}

// DeleteSupplier refuses while any purchase order, in any state, still
// names the supplier.
func (uc *supplierUseCase) DeleteSupplier(ctx context.Context, storeID, id string) error {
	if _, err := uc.GetSupplier(ctx, storeID, id); err != nil {
		return err
	}

	n, err := uc.repo.CountPurchaseOrders(ctx, storeID, id)
	if err != nil {
		return fmt.Errorf("failed to check purchase orders: %w", err)
	}
	if n > 0 {
		return apperror.Validation("supplier %s is referenced by %d purchase order(s)", id, n)
	}

	ok, err := uc.repo.Delete(ctx, storeID, id)
	if err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}
	if !ok {
		return apperror.NotFound("supplier %s not found", id)
	}

	uc.logger.Info("Supplier deleted", zap.String("store_id", storeID), zap.String("supplier_id", id))
	return nil
}

func validEmail(raw string) (*string, error) {
	email := optional(raw)
	if email == nil {
		return nil, nil
	}
	if _, err := mail.ParseAddress(*email); err != nil {
		return nil, apperror.Validation("email %q is invalid", *email)
	}
	return email, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
