package bom

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/bom/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type UseCase interface {
	ListLines(ctx context.Context, storeID, productID, variantID string) ([]model.BOMLine, error)
	AddLine(ctx context.Context, input *dto.AddLineInput) (*model.BOMLine, error)
	UpdateQuantity(ctx context.Context, input *dto.UpdateQuantityInput) (*model.BOMLine, error)
	RemoveLine(ctx context.Context, storeID, lineID string) error

	GetBuildability(ctx context.Context, storeID, productID, variantID string) (*dto.Buildability, error)
	BatchBuildability(ctx context.Context, storeID string, keys []dto.ProductKey) ([]dto.Buildability, error)
	CheckFulfillability(ctx context.Context, input *dto.FulfillabilityInput) (*dto.Fulfillability, error)
}
