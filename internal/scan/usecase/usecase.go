package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/metrics"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/part"
	partdto "github.com/fekuna/omnipos-inventory-service/internal/part/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/scan"
	"github.com/fekuna/omnipos-inventory-service/internal/scan/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

// ScanReason is the movement note written for scan adjustments.
const ScanReason = "scan"

type scanUseCase struct {
	partRepo part.Repository
	parts    part.UseCase
	history  *History
	logger   logger.ZapLogger
}

func NewScanUseCase(partRepo part.Repository, parts part.UseCase, history *History, log logger.ZapLogger) scan.UseCase {
	return &scanUseCase{
		partRepo: partRepo,
		parts:    parts,
		history:  history,
		logger:   log,
	}
}

// Resolve picks the best match for a scanned code or typed text and records
// it in the operator's history.
func (uc *scanUseCase) Resolve(ctx context.Context, input *dto.ResolveInput) (*model.Part, error) {
	if input.StoreID == "" {
		return nil, apperror.Validation("store_id is required")
	}
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, apperror.Validation("query is required")
	}

	matches, err := uc.partRepo.Search(ctx, input.StoreID, query, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scan: %w", err)
	}
	if len(matches) == 0 {
		metrics.ScanLookups.WithLabelValues("miss").Inc()
		return nil, apperror.NotFound("no part matches %q", query)
	}

	metrics.ScanLookups.WithLabelValues("hit").Inc()
	p := &matches[0]
	if input.UserID != "" {
		uc.history.Touch(input.StoreID, input.UserID, p.ID)
	}
	return p, nil
}

func (uc *scanUseCase) Search(ctx context.Context, storeID, query string, limit int) ([]model.Part, error) {
	if storeID == "" {
		return nil, apperror.Validation("store_id is required")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Part{}, nil
	}
	if limit <= 0 {
		limit = dto.DefaultSearchLimit
	}
	if limit > dto.MaxSearchLimit {
		limit = dto.MaxSearchLimit
	}

	parts, err := uc.partRepo.Search(ctx, storeID, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search parts: %w", err)
	}
	return parts, nil
}

func (uc *scanUseCase) AdjustBy(ctx context.Context, input *dto.AdjustInput) (*model.Part, error) {
	p, err := uc.parts.AdjustStock(ctx, &partdto.AdjustStockInput{
		StoreID:      input.StoreID,
		PartID:       input.PartID,
		Delta:        input.Delta,
		Reason:       ScanReason,
		MovementType: model.MovementScanAdjustment,
		UserID:       input.UserID,
	})
	if err != nil {
		return nil, err
	}

	if input.UserID != "" {
		uc.history.Touch(input.StoreID, input.UserID, p.ID)
	}
	uc.logger.Debug("Scan adjustment applied",
		zap.String("store_id", input.StoreID),
		zap.String("part_id", p.ID),
		zap.Int("delta", input.Delta),
		zap.Int("in_stock", p.InStock),
	)
	return p, nil
}

// History returns the operator's recent parts with current ledger figures,
// most recent first. Parts deleted since they were scanned are dropped.
func (uc *scanUseCase) History(ctx context.Context, storeID, userID string) ([]model.Part, error) {
	if storeID == "" {
		return nil, apperror.Validation("store_id is required")
	}
	if userID == "" {
		return nil, apperror.Validation("user_id is required")
	}

	ids := uc.history.IDs(storeID, userID)
	if len(ids) == 0 {
		return []model.Part{}, nil
	}

	found, err := uc.partRepo.BatchGetByIDs(ctx, storeID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh scan history: %w", err)
	}
	byID := make(map[string]model.Part, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	parts := make([]model.Part, 0, len(ids))
	keep := make(map[string]struct{}, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			parts = append(parts, p)
			keep[id] = struct{}{}
		}
	}
	if len(keep) < len(ids) {
		uc.history.Retain(storeID, userID, keep)
	}
	return parts, nil
}
