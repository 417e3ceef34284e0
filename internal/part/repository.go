package part

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/part/dto"
)

type Repository interface {
	// Parts
	Create(ctx context.Context, p *model.Part) error
	FindByID(ctx context.Context, storeID, id string) (*model.Part, error)
	BatchGetByIDs(ctx context.Context, storeID string, ids []string) ([]model.Part, error)
	FindAll(ctx context.Context, filters *dto.PartFilters) ([]model.Part, int, error)
	Search(ctx context.Context, storeID, query string, limit int) ([]model.Part, error)
	Update(ctx context.Context, p *model.Part) error
	Delete(ctx context.Context, storeID, id string, cascadeBOM bool) (bool, error)
	CountOpenPurchaseOrderRefs(ctx context.Context, storeID, id string) (int, error)

	// Ledger
	AdjustStockWithMovement(ctx context.Context, storeID, partID string, delta int, movement *model.StockMovement) (int, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
