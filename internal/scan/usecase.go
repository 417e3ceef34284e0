package scan

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/scan/dto"
)

type UseCase interface {
	Resolve(ctx context.Context, input *dto.ResolveInput) (*model.Part, error)
	Search(ctx context.Context, storeID, query string, limit int) ([]model.Part, error)
	AdjustBy(ctx context.Context, input *dto.AdjustInput) (*model.Part, error)
	History(ctx context.Context, storeID, userID string) ([]model.Part, error)
}
