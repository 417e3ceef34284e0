package purchaseorder

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/purchaseorder/dto"
)

type UseCase interface {
	CreatePO(ctx context.Context, input *dto.CreatePOInput) (*model.PurchaseOrder, error)
	GetPO(ctx context.Context, storeID, id string) (*model.PurchaseOrder, error)
	ListPOs(ctx context.Context, filters *dto.POFilters) ([]model.PurchaseOrder, int, error)
	MarkSent(ctx context.Context, input *dto.TransitionInput) (*model.PurchaseOrder, error)
	MarkReceived(ctx context.Context, input *dto.TransitionInput) (*model.PurchaseOrder, error)
	DeletePO(ctx context.Context, storeID, id string) error
}
