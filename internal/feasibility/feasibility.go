// Package feasibility computes how many finished units a single-level BOM
// can produce from current part stock and which part limits it. Nothing here
// touches storage; callers load the lines with their parts attached.
package feasibility

import (
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

// Basis selects the stock figure a line's ratio is computed from.
type Basis int

const (
	// InStock uses the raw on-hand quantity. The BOM dashboard reads this.
	InStock Basis = iota
	// Available uses in_stock - committed. Order fulfillability and the scan
	// view read this.
	Available
)

func (b Basis) String() string {
	if b == Available {
		return "available"
	}
	return "in_stock"
}

func (b Basis) stockOf(p *model.Part) int {
	if b == Available {
		return p.Available()
	}
	return p.InStock
}

type LineResult struct {
	LineID         string `json:"line_id"`
	PartID         string `json:"part_id"`
	PartName       string `json:"part_name"`
	Stock          int    `json:"stock"`
	QuantityNeeded int    `json:"quantity_needed"`
	// Units is floor(Stock / QuantityNeeded) and may be negative.
	Units int `json:"units"`
}

type Result struct {
	Basis      string       `json:"basis"`
	Buildable  int          `json:"buildable"`
	Bottleneck *model.Part  `json:"bottleneck,omitempty"`
	Lines      []LineResult `json:"lines"`
}

// Evaluate computes buildable units, the bottleneck and the per-line ratios.
// The minimum is taken over the raw ratios and only the final count is
// clamped at zero, so an oversold part is still named as the bottleneck.
// The first line with the smallest ratio wins a tie.
func Evaluate(lines []model.BOMLine, basis Basis) (*Result, error) {
	if err := checkParts(lines); err != nil {
		return nil, err
	}

	res := &Result{
		Basis: basis.String(),
		Lines: make([]LineResult, 0, len(lines)),
	}
	if len(lines) == 0 {
		return res, nil
	}

	minUnits := 0
	for i := range lines {
		l := &lines[i]
		if l.QuantityNeeded <= 0 {
			return nil, apperror.Validation("bom line %s has non-positive quantity %d", l.ID, l.QuantityNeeded)
		}

		stock := basis.stockOf(l.Part)
		units := floorDiv(stock, l.QuantityNeeded)
		res.Lines = append(res.Lines, LineResult{
			LineID:         l.ID,
			PartID:         l.PartID,
			PartName:       l.Part.Name,
			Stock:          stock,
			QuantityNeeded: l.QuantityNeeded,
			Units:          units,
		})

		if res.Bottleneck == nil || units < minUnits {
			minUnits = units
			res.Bottleneck = l.Part
		}
	}

	if minUnits > 0 {
		res.Buildable = minUnits
	}
	return res, nil
}

// BuildableUnits is the in-stock buildable count of lines; 0 for an empty BOM.
func BuildableUnits(lines []model.BOMLine) (int, error) {
	res, err := Evaluate(lines, InStock)
	if err != nil {
		return 0, err
	}
	return res.Buildable, nil
}

// Bottleneck returns the part limiting in-stock buildability, or nil for an
// empty BOM.
func Bottleneck(lines []model.BOMLine) (*model.Part, error) {
	res, err := Evaluate(lines, InStock)
	if err != nil {
		return nil, err
	}
	return res.Bottleneck, nil
}

// MissingParts lists the part ids of lines whose part no longer exists, in
// line order without duplicates.
func MissingParts(lines []model.BOMLine) []string {
	var missing []string
	seen := make(map[string]struct{})
	for i := range lines {
		if !lines[i].MissingPart() {
			continue
		}
		id := lines[i].PartID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		missing = append(missing, id)
	}
	return missing
}

func checkParts(lines []model.BOMLine) error {
	missing := MissingParts(lines)
	if len(missing) == 0 {
		return nil
	}
	return apperror.StaleDependency(missing, "bom references %d missing part(s)", len(missing))
}

// floorDiv rounds toward negative infinity, unlike Go's truncating division.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
