package dto

import "github.com/fekuna/omnipos-inventory-service/internal/model"

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

type PartFilters struct {
	StoreID  string
	Search   string // case-insensitive substring of name or SKU
	Category string
	LowStock bool // available <= min_threshold AND min_threshold > 0
	Page     int
	PageSize int
}

type MovementFilters struct {
	StoreID      string
	PartID       string
	MovementType string
	Page         int
	PageSize     int
}

// NormalizePage clamps paging arguments to sane bounds.
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// PartView is the read shape of a part with its derived figures.
type PartView struct {
	*model.Part
	Available      int  `json:"available"`
	BelowThreshold bool `json:"below_threshold"`
}

func NewPartView(p *model.Part) *PartView {
	if p == nil {
		return nil
	}
	return &PartView{
		Part:           p,
		Available:      p.Available(),
		BelowThreshold: p.BelowThreshold(),
	}
}

func NewPartViews(parts []model.Part) []*PartView {
	views := make([]*PartView, len(parts))
	for i := range parts {
		views[i] = NewPartView(&parts[i])
	}
	return views
}
