package bom

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/bom/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

type Repository interface {
	// ListLines returns the lines of one BOM in insertion order with their
	// parts attached. A line whose part is gone comes back with a nil Part.
	ListLines(ctx context.Context, storeID, productID, variantID string) ([]model.BOMLine, error)
	ListLinesByProducts(ctx context.Context, storeID string, keys []dto.ProductKey) ([]model.BOMLine, error)
	FindLine(ctx context.Context, storeID, id string) (*model.BOMLine, error)
	FindLineByPart(ctx context.Context, storeID, productID, variantID, partID string) (*model.BOMLine, error)
	CreateLine(ctx context.Context, l *model.BOMLine) error
	UpdateQuantity(ctx context.Context, storeID, id string, quantity int, at time.Time) (bool, error)
	DeleteLine(ctx context.Context, storeID, id string) (bool, error)
}
