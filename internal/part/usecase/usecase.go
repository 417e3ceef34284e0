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
	"github.com/fekuna/omnipos-inventory-service/internal/part/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/part/repository"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type partUseCase struct {
	repo      part.Repository
	publisher event.Publisher
	logger    logger.ZapLogger
}

// NewPartUseCase builds the stock ledger. publisher may be nil, in which
// case no events are emitted.
func NewPartUseCase(repo part.Repository, publisher event.Publisher, log logger.ZapLogger) part.UseCase {
	return &partUseCase{
		repo:      repo,
		publisher: publisher,
		logger:    log,
	}
}

func (uc *partUseCase) CreatePart(ctx context.Context, input *dto.CreatePartInput) (*model.Part, error) {
	if input.StoreID == "" {
		return nil, apperror.Validation("store_id is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}
	if input.InStock < 0 {
		return nil, apperror.Validation("in_stock must not be negative")
	}
	if input.MinThreshold < 0 {
		return nil, apperror.Validation("min_threshold must not be negative")
	}

	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = "pcs"
	}

	now := time.Now().UTC()
	p := &model.Part{
		ID:           uuid.New().String(),
		StoreID:      input.StoreID,
		SKU:          optional(input.SKU),
		Name:         name,
		Category:     strings.TrimSpace(input.Category),
		Unit:         unit,
		InStock:      input.InStock,
		MinThreshold: input.MinThreshold,
		CreatedBy:    optional(input.UserID),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create part: %w", err)
	}

	uc.logger.Info("Part created", zap.String("store_id", p.StoreID), zap.String("part_id", p.ID))
	return p, nil
}

func (uc *partUseCase) GetPart(ctx context.Context, storeID, id string) (*model.Part, error) {
	p, err := uc.repo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load part: %w", err)
	}
	if p == nil {
		return nil, apperror.NotFound("part %s not found", id)
	}
	return p, nil
}

func (uc *partUseCase) ListParts(ctx context.Context, filters *dto.PartFilters) ([]model.Part, int, error) {
	if filters.StoreID == "" {
		return nil, 0, apperror.Validation("store_id is required")
	}
	filters.Page, filters.PageSize = dto.NormalizePage(filters.Page, filters.PageSize)
	return uc.repo.FindAll(ctx, filters)
}

func (uc *partUseCase) ListLowStock(ctx context.Context, storeID string, page, pageSize int) ([]model.Part, int, error) {
	return uc.ListParts(ctx, &dto.PartFilters{
		StoreID:  storeID,
		LowStock: true,
		Page:     page,
		PageSize: pageSize,
	})
}

func (uc *partUseCase) UpdatePart(ctx context.Context, input *dto.UpdatePartInput) (*model.Part, error) {
	p, err := uc.GetPart(ctx, input.StoreID, input.PartID)
	if err != nil {
		return nil, err
	}

	if input.SKU != nil {
		p.SKU = optional(*input.SKU)
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.Validation("name must not be empty")
		}
		p.Name = name
	}
	if input.Category != nil {
		p.Category = strings.TrimSpace(*input.Category)
	}
	if input.Unit != nil {
		unit := strings.TrimSpace(*input.Unit)
		if unit == "" {
			return nil, apperror.Validation("unit must not be empty")
		}
		p.Unit = unit
	}
	if input.Committed != nil {
		if *input.Committed < 0 {
			return nil, apperror.Validation("committed must not be negative")
		}
		p.Committed = *input.Committed
	}
	if input.MinThreshold != nil {
		if *input.MinThreshold < 0 {
			return nil, apperror.Validation("min_threshold must not be negative")
		}
		p.MinThreshold = *input.MinThreshold
	}
	p.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update part: %w", err)
	}

	// Re-read so concurrent ledger changes to in_stock/on_order are reflected.
	return uc.GetPart(ctx, p.StoreID, p.ID)
}

func (uc *partUseCase) DeletePart(ctx context.Context, input *dto.DeletePartInput) error {
	if _, err := uc.GetPart(ctx, input.StoreID, input.PartID); err != nil {
		return err
	}

	refs, err := uc.repo.CountOpenPurchaseOrderRefs(ctx, input.StoreID, input.PartID)
	if err != nil {
		return fmt.Errorf("failed to check purchase order references: %w", err)
	}
	if refs > 0 {
		return apperror.Validation("part %s is on %d open purchase order line(s)", input.PartID, refs)
	}

	deleted, err := uc.repo.Delete(ctx, input.StoreID, input.PartID, input.CascadeBOM)
	if err != nil {
		return fmt.Errorf("failed to delete part: %w", err)
	}
	if !deleted {
		return apperror.NotFound("part %s not found", input.PartID)
	}

	uc.logger.Info("Part deleted",
		zap.String("store_id", input.StoreID),
		zap.String("part_id", input.PartID),
		zap.Bool("cascade_bom", input.CascadeBOM),
	)
	return nil
}

func (uc *partUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Part, error) {
	if input.StoreID == "" {
		return nil, apperror.Validation("store_id is required")
	}
	if input.PartID == "" {
		return nil, apperror.Validation("part_id is required")
	}
	if input.Delta == 0 {
		return nil, apperror.Validation("delta must not be zero")
	}

	movementType := input.MovementType
	if movementType == "" {
		movementType = model.MovementAdjustment
	}

	movement := &model.StockMovement{
		ID:             uuid.New().String(),
		StoreID:        input.StoreID,
		PartID:         input.PartID,
		MovementType:   movementType,
		QuantityChange: input.Delta,
		ReferenceType:  optional(input.ReferenceType),
		ReferenceID:    optional(input.ReferenceID),
		Notes:          input.Reason,
		CreatedBy:      optional(input.UserID),
		CreatedAt:      time.Now().UTC(),
	}

	inStock, err := uc.repo.AdjustStockWithMovement(ctx, input.StoreID, input.PartID, input.Delta, movement)
	if err != nil {
		if errors.Is(err, repository.ErrPartNotFound) {
			return nil, apperror.NotFound("part %s not found", input.PartID)
		}
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	metrics.StockAdjustments.WithLabelValues(movementType).Inc()
	if inStock == 0 && input.Delta < 0 {
		metrics.StockDepletions.Inc()
	}

	uc.publish(ctx, event.New(event.TypeStockAdjusted, input.StoreID, input.PartID, event.StockAdjustedPayload{
		PartID:         input.PartID,
		QuantityChange: input.Delta,
		InStock:        inStock,
		Reason:         input.Reason,
		UserID:         input.UserID,
	}))

	p, err := uc.GetPart(ctx, input.StoreID, input.PartID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *partUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	if filters.StoreID == "" {
		return nil, 0, apperror.Validation("store_id is required")
	}
	filters.Page, filters.PageSize = dto.NormalizePage(filters.Page, filters.PageSize)
	return uc.repo.ListMovements(ctx, filters)
}

func (uc *partUseCase) publish(ctx context.Context, evt event.Event) {
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
