package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

const sequenceTTL = 48 * time.Hour

// Sequencer hands out increasing numbers per key. *cache.RedisClient
// satisfies it.
type Sequencer interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// NumberGenerator produces PO numbers of the form PO-YYYYMMDD-NNNN from a
// per-store daily counter. Without a sequencer, or when it fails, the
// number is derived from the clock instead.
type NumberGenerator struct {
	seq    Sequencer
	logger logger.ZapLogger
	now    func() time.Time
}

func NewNumberGenerator(seq Sequencer, log logger.ZapLogger) *NumberGenerator {
	return &NumberGenerator{
		seq:    seq,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (g *NumberGenerator) Next(ctx context.Context, storeID string) string {
	now := g.now()
	day := now.Format("20060102")

	if g.seq != nil {
		n, err := g.seq.Incr(ctx, fmt.Sprintf("po_seq:%s:%s", storeID, day), sequenceTTL)
		if err == nil {
			return fmt.Sprintf("PO-%s-%04d", day, n)
		}
		g.logger.Warn("PO sequence unavailable, using time-derived number",
			zap.String("store_id", storeID),
			zap.Error(err),
		)
	}

	return fmt.Sprintf("PO-%s-%s%03d", day, now.Format("150405"), now.Nanosecond()/int(time.Millisecond))
}
