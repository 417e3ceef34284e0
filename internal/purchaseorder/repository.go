package purchaseorder

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/purchaseorder/dto"
)

type Repository interface {
	CreateWithItems(ctx context.Context, po *model.PurchaseOrder) error
	FindByID(ctx context.Context, storeID, id string) (*model.PurchaseOrder, error)
	FindAll(ctx context.Context, filters *dto.POFilters) ([]model.PurchaseOrder, int, error)

	// MarkSent moves a draft to sent and raises on_order for every item.
	MarkSent(ctx context.Context, storeID, id string, at time.Time) ([]model.POItem, error)
	// Receive moves a sent order to received and credits stock for every
	// item. Either all of it happens or none of it does.
	Receive(ctx context.Context, storeID, id, userID string, at time.Time) ([]dto.ReceiptLine, error)
	// DeleteDraft removes a draft order and its items.
	DeleteDraft(ctx context.Context, storeID, id string) error
}
