package dto

import (
	"github.com/fekuna/omnipos-inventory-service/internal/feasibility"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

// Buildability statuses reported per product.
const (
	StatusOK       = "ok"
	StatusNeedsBOM = "needs_bom"
	StatusStale    = "stale"
)

// ProductKey identifies a sellable product variant in the external catalog.
// An empty VariantID means the product itself.
type ProductKey struct {
	ProductID string `json:"product_id" binding:"required"`
	VariantID string `json:"variant_id"`
}

type LineView struct {
	*model.BOMLine
	MissingPart bool `json:"missing_part"`
}

func NewLineViews(lines []model.BOMLine) []*LineView {
	views := make([]*LineView, len(lines))
	for i := range lines {
		views[i] = &LineView{BOMLine: &lines[i], MissingPart: lines[i].MissingPart()}
	}
	return views
}

type Buildability struct {
	ProductID    string                   `json:"product_id"`
	VariantID    string                   `json:"variant_id"`
	Status       string                   `json:"status"`
	Buildable    int                      `json:"buildable"`
	Bottleneck   *model.Part              `json:"bottleneck,omitempty"`
	Lines        []feasibility.LineResult `json:"lines,omitempty"`
	MissingParts []string                 `json:"missing_parts,omitempty"`
}

type Fulfillability struct {
	ProductID   string                   `json:"product_id"`
	VariantID   string                   `json:"variant_id"`
	Requested   int                      `json:"requested"`
	Buildable   int                      `json:"buildable"`
	Fulfillable bool                     `json:"fulfillable"`
	Bottleneck  *model.Part              `json:"bottleneck,omitempty"`
	Lines       []feasibility.LineResult `json:"lines,omitempty"`
}
