package usecase

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewHistory_ClampsCapacity(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, DefaultHistorySize},
		{-3, DefaultHistorySize},
		{1, MinHistorySize},
		{7, 7},
		{50, MaxHistorySize},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewHistory(tt.in).Capacity(), "capacity %d", tt.in)
	}
}

func TestHistory_MostRecentFirstWithoutDuplicates(t *testing.T) {
	h := NewHistory(5)
	h.Touch("s", "u", "a")
	h.Touch("s", "u", "b")
	h.Touch("s", "u", "a")

	assert.Equal(t, []string{"a", "b"}, h.IDs("s", "u"))
	assert.Empty(t, h.IDs("s", "other"))
	assert.Empty(t, h.IDs("other", "u"))
}

func TestHistory_EvictsOldest(t *testing.T) {
	h := NewHistory(5)
	for i := 1; i <= 7; i++ {
		h.Touch("s", "u", fmt.Sprintf("p%d", i))
	}
	assert.Equal(t, []string{"p7", "p6", "p5", "p4", "p3"}, h.IDs("s", "u"))
}

func TestHistory_Retain(t *testing.T) {
	h := NewHistory(5)
	h.Touch("s", "u", "a")
	h.Touch("s", "u", "b")
	h.Touch("s", "u", "c")

	h.Retain("s", "u", map[string]struct{}{"a": {}, "c": {}})
	assert.Equal(t, []string{"c", "a"}, h.IDs("s", "u"))

	h.Retain("s", "u", map[string]struct{}{})
	assert.Empty(t, h.IDs("s", "u"))
}

func TestHistory_IDsReturnsCopy(t *testing.T) {
	h := NewHistory(5)
	h.Touch("s", "u", "a")
	ids := h.IDs("s", "u")
	ids[0] = "mutated"
	assert.Equal(t, []string{"a"}, h.IDs("s", "u"))
}
