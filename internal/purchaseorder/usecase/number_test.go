package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/stretchr/testify/assert"
)

type stubSequencer struct {
	n    int64
	err  error
	keys []string
}

func (s *stubSequencer) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.keys = append(s.keys, key)
	if s.err != nil {
		return 0, s.err
	}
	s.n++
	return s.n, nil
}

func fixedClock(g *NumberGenerator) {
	g.now = func() time.Time { return time.Date(2026, 3, 9, 14, 5, 7, 42*int(time.Millisecond), time.UTC) }
}

func TestNumberGenerator_DailySequence(t *testing.T) {
	seq := &stubSequencer{}
	g := NewNumberGenerator(seq, logger.NewNop())
	fixedClock(g)

	assert.Equal(t, "PO-20260309-0001", g.Next(context.Background(), "s1"))
	assert.Equal(t, "PO-20260309-0002", g.Next(context.Background(), "s1"))
	assert.Equal(t, []string{"po_seq:s1:20260309", "po_seq:s1:20260309"}, seq.keys)
}

func TestNumberGenerator_FallsBackToClock(t *testing.T) {
	tests := []struct {
		name string
		seq  Sequencer
	}{
		{"no sequencer", nil},
		{"sequencer error", &stubSequencer{err: errors.New("connection refused")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewNumberGenerator(tt.seq, logger.NewNop())
			fixedClock(g)
			assert.Equal(t, "PO-20260309-140507042", g.Next(context.Background(), "s1"))
		})
	}
}
