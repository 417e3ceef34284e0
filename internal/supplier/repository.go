package supplier

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/supplier/dto"
)

type Repository interface {
	Create(ctx context.Context, s *model.Supplier) error
	FindByID(ctx context.Context, storeID, id string) (*model.Supplier, error)
	FindAll(ctx context.Context, filters *dto.SupplierFilters) ([]model.Supplier, int, error)
	Update(ctx context.Context, s *model.Supplier) error
	Delete(ctx context.Context, storeID, id string) (bool, error)
	CountPurchaseOrders(ctx context.Context, storeID, id string) (int, error)
}
