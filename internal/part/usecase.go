package part

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/part/dto"
)

type UseCase interface {
	CreatePart(ctx context.Context, input *dto.CreatePartInput) (*model.Part, error)
	GetPart(ctx context.Context, storeID, id string) (*model.Part, error)
	ListParts(ctx context.Context, filters *dto.PartFilters) ([]model.Part, int, error)
	ListLowStock(ctx context.Context, storeID string, page, pageSize int) ([]model.Part, int, error)
	UpdatePart(ctx context.Context, input *dto.UpdatePartInput) (*model.Part, error)
	DeletePart(ctx context.Context, input *dto.DeletePartInput) error
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Part, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
