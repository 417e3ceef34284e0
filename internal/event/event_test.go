package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EnvelopeOmitsKey(t *testing.T) {
	evt := New(TypeStockAdjusted, "store-1", "part-1", StockAdjustedPayload{PartID: "part-1", QuantityChange: -2, InStock: 3, Reason: "scan"})
	assert.NotEmpty(t, evt.EventID)
	assert.False(t, evt.Timestamp.IsZero())

	raw, err := json.Marshal(evt)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "StockAdjusted", decoded["event_type"])
	assert.Equal(t, "store-1", decoded["store_id"])
	assert.NotContains(t, decoded, "Key")
	assert.Equal(t, float64(-2), decoded["payload"].(map[string]interface{})["quantity_change"])
}
