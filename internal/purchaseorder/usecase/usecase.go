package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/event"
	"github.com/fekuna/omnipos-inventory-service/internal/metrics"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/part"
	"github.com/fekuna/omnipos-inventory-service/internal/purchaseorder"
	"github.com/fekuna/omnipos-inventory-service/internal/purchaseorder/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/purchaseorder/repository"
	"github.com/fekuna/omnipos-inventory-service/internal/supplier"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// costPlaces matches the scale of the cost columns.
const costPlaces = 4

type poUseCase struct {
	repo         purchaseorder.Repository
	partRepo     part.Repository
	supplierRepo supplier.Repository
	numbers      *NumberGenerator
	publisher    event.Publisher
	logger       logger.ZapLogger
}

func NewPurchaseOrderUseCase(
	repo purchaseorder.Repository,
	partRepo part.Repository,
	supplierRepo supplier.Repository,
	numbers *NumberGenerator,
	publisher event.Publisher,
	log logger.ZapLogger,
) purchaseorder.UseCase {
	return &poUseCase{
		repo:         repo,
		partRepo:     partRepo,
		supplierRepo: supplierRepo,
		numbers:      numbers,
		publisher:    publisher,
		logger:       log,
	}
}

func (uc *poUseCase) CreatePO(ctx context.Context, input *dto.CreatePOInput) (*model.PurchaseOrder, error) {
	if input.StoreID == "" {
		return nil, apperror.Validation("store_id is required")
	}
	if strings.TrimSpace(input.SupplierID) == "" {
		return nil, apperror.Validation("supplier_id is required")
	}
	if len(input.Items) == 0 {
		return nil, apperror.Validation("a purchase order needs at least one item")
	}

	partIDs := make([]string, 0, len(input.Items))
	seen := make(map[string]struct{}, len(input.Items))
	for i, item := range input.Items {
		if strings.TrimSpace(item.PartID) == "" {
			return nil, apperror.Validation("item %d: part_id is required", i+1)
		}
		if item.Quantity <= 0 {
			return nil, apperror.Validation("item %d: quantity must be positive", i+1)
		}
		if item.CostPerUnit.IsNegative() {
			return nil, apperror.Validation("item %d: cost_per_unit must not be negative", i+1)
		}
		if _, ok := seen[item.PartID]; !ok {
			seen[item.PartID] = struct{}{}
			partIDs = append(partIDs, item.PartID)
		}
	}

	s, err := uc.supplierRepo.FindByID(ctx, input.StoreID, input.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve supplier: %w", err)
	}
	if s == nil {
		return nil, apperror.Validation("supplier %s does not exist", input.SupplierID)
	}

	parts, err := uc.partRepo.BatchGetByIDs(ctx, input.StoreID, partIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve parts: %w", err)
	}
	names := make(map[string]string, len(parts))
	for _, p := range parts {
		names[p.ID] = p.Name
	}
	for _, id := range partIDs {
		if _, ok := names[id]; !ok {
			return nil, apperror.Validation("part %s does not exist", id)
		}
	}

	now := time.Now().UTC()
	po := &model.PurchaseOrder{
		ID:         uuid.New().String(),
		StoreID:    input.StoreID,
		PONumber:   uc.numbers.Next(ctx, input.StoreID),
		SupplierID: input.SupplierID,
		Status:     model.POStatusDraft,
		Notes:      optional(input.Notes),
		CreatedBy:  optional(input.UserID),
		CreatedAt:  now,
		UpdatedAt:  now,
		Items:      make([]model.POItem, 0, len(input.Items)),
	}

	total := decimal.Zero
	for i, item := range input.Items {
		line := model.POItem{
			ID:              uuid.New().String(),
			PurchaseOrderID: po.ID,
			PartID:          item.PartID,
			PartName:        names[item.PartID],
			QuantityOrdered: item.Quantity,
			CostPerUnit:     item.CostPerUnit.Round(costPlaces),
			Position:        i + 1,
			CreatedAt:       now,
		}
		total = total.Add(line.LineTotal())
		po.Items = append(po.Items, line)
	}
	po.TotalCost = total.Round(costPlaces)

	if err := uc.repo.CreateWithItems(ctx, po); err != nil {
		return nil, fmt.Errorf("failed to create purchase order: %w", err)
	}

	uc.logger.Info("Purchase order created",
		zap.String("store_id", po.StoreID),
		zap.String("po_id", po.ID),
		zap.String("po_number", po.PONumber),
		zap.Int("items", len(po.Items)),
		zap.String("total_cost", po.TotalCost.String()),
	)
	return po, nil
}

func (uc *poUseCase) GetPO(ctx context.Context, storeID, id string) (*model.PurchaseOrder, error) {
	po, err := uc.repo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchase order: %w", err)
	}
	if po == nil {
		return nil, apperror.NotFound("purchase order %s not found", id)
	}
	return po, nil
}

func (uc *poUseCase) ListPOs(ctx context.Context, filters *dto.POFilters) ([]model.PurchaseOrder, int, error) {
	if filters.StoreID == "" {
		return nil, 0, apperror.Validation("store_id is required")
	}
	if filters.Status != "" && !filters.Status.Valid() {
		return nil, 0, apperror.Validation("unknown status %q", filters.Status)
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 || filters.PageSize > 200 {
		filters.PageSize = 50
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *poUseCase) MarkSent(ctx context.Context, input *dto.TransitionInput) (*model.PurchaseOrder, error) {
	po, err := uc.checkTransition(ctx, input, model.POStatusSent)
	if err != nil {
		return nil, err
	}

	items, err := uc.repo.MarkSent(ctx, input.StoreID, po.ID, time.Now().UTC())
	if err != nil {
		return nil, uc.transitionError(po, model.POStatusSent, err)
	}

	metrics.PurchaseOrderTransitions.WithLabelValues(string(model.POStatusSent)).Inc()
	uc.logger.Info("Purchase order sent", zap.String("store_id", input.StoreID), zap.String("po_id", po.ID))

	lines := make([]event.PurchaseOrderLine, len(items))
	for i, item := range items {
		lines[i] = event.PurchaseOrderLine{PartID: item.PartID, Quantity: item.QuantityOrdered}
	}
	uc.publish(ctx, event.New(event.TypePurchaseOrderSent, input.StoreID, po.ID, event.PurchaseOrderPayload{
		PurchaseOrderID: po.ID,
		PONumber:        po.PONumber,
		SupplierID:      po.SupplierID,
		Items:           lines,
	}))

	return uc.GetPO(ctx, input.StoreID, po.ID)
}

// MarkReceived credits every item's quantity to stock. A second call on the
// same order fails and changes nothing.
func (uc *poUseCase) MarkReceived(ctx context.Context, input *dto.TransitionInput) (*model.PurchaseOrder, error) {
	po, err := uc.checkTransition(ctx, input, model.POStatusReceived)
	if err != nil {
		return nil, err
	}

	receipts, err := uc.repo.Receive(ctx, input.StoreID, po.ID, input.UserID, time.Now().UTC())
	if err != nil {
		return nil, uc.transitionError(po, model.POStatusReceived, err)
	}

	metrics.PurchaseOrderTransitions.WithLabelValues(string(model.POStatusReceived)).Inc()
	metrics.StockAdjustments.WithLabelValues(model.MovementPurchaseReceipt).Add(float64(len(receipts)))
	uc.logger.Info("Purchase order received",
		zap.String("store_id", input.StoreID),
		zap.String("po_id", po.ID),
		zap.Int("items", len(receipts)),
	)

	lines := make([]event.PurchaseOrderLine, len(receipts))
	for i, r := range receipts {
		lines[i] = event.PurchaseOrderLine{PartID: r.PartID, Quantity: r.Quantity}
	}
	uc.publish(ctx, event.New(event.TypePurchaseOrderReceived, input.StoreID, po.ID, event.PurchaseOrderPayload{
		PurchaseOrderID: po.ID,
		PONumber:        po.PONumber,
		SupplierID:      po.SupplierID,
		Items:           lines,
	}))

	return uc.GetPO(ctx, input.StoreID, po.ID)
}

func (uc *poUseCase) DeletePO(ctx context.Context, storeID, id string) error {
	po, err := uc.GetPO(ctx, storeID, id)
	if err != nil {
		return err
	}
	if !po.Status.Deletable() {
		return apperror.InvalidTransition("purchase order %s is %s and can no longer be deleted", id, po.Status)
	}

	if err := uc.repo.DeleteDraft(ctx, storeID, id); err != nil {
		if errors.Is(err, repository.ErrStatusMismatch) {
			return apperror.InvalidTransition("purchase order %s left draft while being deleted", id)
		}
		return fmt.Errorf("failed to delete purchase order: %w", err)
	}

	metrics.PurchaseOrderTransitions.WithLabelValues("deleted").Inc()
	uc.logger.Info("Purchase order deleted", zap.String("store_id", storeID), zap.String("po_id", id))
	return nil
}

func (uc *poUseCase) checkTransition(ctx context.Context, input *dto.TransitionInput, to model.POStatus) (*model.PurchaseOrder, error) {
	po, err := uc.GetPO(ctx, input.StoreID, input.PurchaseOrderID)
	if err != nil {
		return nil, err
	}
	if !po.Status.CanTransitionTo(to) {
		return nil, apperror.InvalidTransition("purchase order %s is %s and cannot become %s", po.ID, po.Status, to)
	}
	return po, nil
}

func (uc *poUseCase) transitionError(po *model.PurchaseOrder, to model.POStatus, err error) error {
	var missing *repository.MissingPartError
	switch {
	case errors.Is(err, repository.ErrStatusMismatch):
		return apperror.InvalidTransition("purchase order %s changed status before it could become %s", po.ID, to)
	case errors.As(err, &missing):
		return apperror.StaleDependency([]string{missing.PartID}, "purchase order %s references missing part %s", po.ID, missing.PartID)
	}
	return fmt.Errorf("failed to mark purchase order %s: %w", to, err)
}

func (uc *poUseCase) publish(ctx context.Context, evt event.Event) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		uc.logger.Warn("failed to publish event",
			zap.String("event_type", evt.EventType),
			zap.String("key", evt.Key),
			zap.Error(err),
		)
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
