package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/bom"
	"github.com/fekuna/omnipos-inventory-service/internal/bom/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/feasibility"
	"github.com/fekuna/omnipos-inventory-service/internal/metrics"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/part"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type bomUseCase struct {
	repo     bom.Repository
	partRepo part.Repository
	logger   logger.ZapLogger
}

func NewBOMUseCase(repo bom.Repository, partRepo part.Repository, log logger.ZapLogger) bom.UseCase {
	return &bomUseCase{
		repo:     repo,
		partRepo: partRepo,
		logger:   log,
	}
}

func (uc *bomUseCase) ListLines(ctx context.Context, storeID, productID, variantID string) ([]model.BOMLine, error) {
	if err := requireProduct(storeID, productID); err != nil {
		return nil, err
	}
	lines, err := uc.repo.ListLines(ctx, storeID, productID, variantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bom lines: %w", err)
	}
	return lines, nil
}

func (uc *bomUseCase) AddLine(ctx context.Context, input *dto.AddLineInput) (*model.BOMLine, error) {
	if err := requireProduct(input.StoreID, input.ProductID); err != nil {
		return nil, err
	}
	if input.QuantityNeeded <= 0 {
		return nil, apperror.Validation("quantity_needed must be positive")
	}
	if strings.TrimSpace(input.PartID) == "" {
		return nil, apperror.Validation("part_id is required")
	}

	p, err := uc.partRepo.FindByID(ctx, input.StoreID, input.PartID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve part: %w", err)
	}
	if p == nil {
		return nil, apperror.Validation("part %s does not exist", input.PartID)
	}

	existing, err := uc.repo.FindLineByPart(ctx, input.StoreID, input.ProductID, input.VariantID, input.PartID)
	if err != nil {
		return nil, fmt.Errorf("failed to check bom line: %w", err)
	}
	if existing != nil {
		return nil, apperror.Validation("part %s is already on this bom as line %s", input.PartID, existing.ID)
	}

	now := time.Now().UTC()
	line := &model.BOMLine{
		ID:             uuid.New().String(),
		StoreID:        input.StoreID,
		ProductID:      input.ProductID,
		VariantID:      input.VariantID,
		PartID:         input.PartID,
		QuantityNeeded: input.QuantityNeeded,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if input.UserID != "" {
		userID := input.UserID
		line.CreatedBy = &userID
	}

	if err := uc.repo.CreateLine(ctx, line); err != nil {
		return nil, fmt.Errorf("failed to add bom line: %w", err)
	}
	line.Part = p

	uc.logger.Info("BOM line added",
		zap.String("store_id", line.StoreID),
		zap.String("product_id", line.ProductID),
		zap.String("variant_id", line.VariantID),
		zap.String("part_id", line.PartID),
	)
	return line, nil
}

func (uc *bomUseCase) UpdateQuantity(ctx context.Context, input *dto.UpdateQuantityInput) (*model.BOMLine, error) {
	if input.QuantityNeeded <= 0 {
		return nil, apperror.Validation("quantity_needed must be positive")
	}

	ok, err := uc.repo.UpdateQuantity(ctx, input.StoreID, input.LineID, input.QuantityNeeded, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to update bom line: %w", err)
	}
	if !ok {
		return nil, apperror.NotFound("bom line %s not found", input.LineID)
	}

	line, err := uc.repo.FindLine(ctx, input.StoreID, input.LineID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bom line: %w", err)
	}
	if line == nil {
		return nil, apperror.NotFound("bom line %s not found", input.LineID)
	}
	return line, nil
}

func (uc *bomUseCase) RemoveLine(ctx context.Context, storeID, lineID string) error {
	ok, err := uc.repo.DeleteLine(ctx, storeID, lineID)
	if err != nil {
		return fmt.Errorf("failed to remove bom line: %w", err)
	}
	if !ok {
		return apperror.NotFound("bom line %s not found", lineID)
	}
	return nil
}

// GetBuildability evaluates one BOM on raw in_stock. A BOM with a missing
// part fails with a stale dependency error.
func (uc *bomUseCase) GetBuildability(ctx context.Context, storeID, productID, variantID string) (*dto.Buildability, error) {
	lines, err := uc.ListLines(ctx, storeID, productID, variantID)
	if err != nil {
		return nil, err
	}

	b, err := evaluate(dto.ProductKey{ProductID: productID, VariantID: variantID}, lines)
	if err != nil {
		return nil, err
	}
	if b.Status == dto.StatusStale {
		metrics.StaleBOMDetections.Inc()
		return nil, apperror.StaleDependency(b.MissingParts, "bom of %s references %d missing part(s)", productID, len(b.MissingParts))
	}
	return b, nil
}

// BatchBuildability evaluates many BOMs for a dashboard. Stale BOMs are
// reported in their row instead of failing the whole batch.
func (uc *bomUseCase) BatchBuildability(ctx context.Context, storeID string, keys []dto.ProductKey) ([]dto.Buildability, error) {
	if storeID == "" {
		return nil, apperror.Validation("store_id is required")
	}
	for _, k := range keys {
		if strings.TrimSpace(k.ProductID) == "" {
			return nil, apperror.Validation("product_id is required")
		}
	}

	all, err := uc.repo.ListLinesByProducts(ctx, storeID, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to list bom lines: %w", err)
	}

	byKey := make(map[dto.ProductKey][]model.BOMLine)
	for _, l := range all {
		k := dto.ProductKey{ProductID: l.ProductID, VariantID: l.VariantID}
		byKey[k] = append(byKey[k], l)
	}

	out := make([]dto.Buildability, 0, len(keys))
	for _, k := range keys {
		b, err := evaluate(k, byKey[k])
		if err != nil {
			return nil, err
		}
		if b.Status == dto.StatusStale {
			metrics.StaleBOMDetections.Inc()
		}
		out = append(out, *b)
	}
	return out, nil
}

// CheckFulfillability answers whether quantity units can be assembled from
// stock that is not already committed.
func (uc *bomUseCase) CheckFulfillability(ctx context.Context, input *dto.FulfillabilityInput) (*dto.Fulfillability, error) {
	if input.Quantity <= 0 {
		return nil, apperror.Validation("quantity must be positive")
	}

	lines, err := uc.ListLines(ctx, input.StoreID, input.ProductID, input.VariantID)
	if err != nil {
		return nil, err
	}

	res, err := feasibility.Evaluate(lines, feasibility.Available)
	if err != nil {
		if errors.Is(err, apperror.ErrStaleDependency) {
			metrics.StaleBOMDetections.Inc()
		}
		return nil, err
	}

	return &dto.Fulfillability{
		ProductID:   input.ProductID,
		VariantID:   input.VariantID,
		Requested:   input.Quantity,
		Buildable:   res.Buildable,
		Fulfillable: len(lines) > 0 && res.Buildable >= input.Quantity,
		Bottleneck:  res.Bottleneck,
		Lines:       res.Lines,
	}, nil
}

func evaluate(key dto.ProductKey, lines []model.BOMLine) (*dto.Buildability, error) {
	b := &dto.Buildability{
		ProductID: key.ProductID,
		VariantID: key.VariantID,
	}

	if len(lines) == 0 {
		b.Status = dto.StatusNeedsBOM
		return b, nil
	}
	if missing := feasibility.MissingParts(lines); len(missing) > 0 {
		b.Status = dto.StatusStale
		b.MissingParts = missing
		return b, nil
	}

	res, err := feasibility.Evaluate(lines, feasibility.InStock)
	if err != nil {
		return nil, err
	}
	b.Status = dto.StatusOK
	b.Buildable = res.Buildable
	b.Bottleneck = res.Bottleneck
	b.Lines = res.Lines
	return b, nil
}

func requireProduct(storeID, productID string) error {
	if storeID == "" {
		return apperror.Validation("store_id is required")
	}
	if strings.TrimSpace(productID) == "" {
		return apperror.Validation("product_id is required")
	}
	return nil
}
