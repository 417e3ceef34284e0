package dto

type CreatePartInput struct {
	StoreID      string
	UserID       string
	SKU          string
	Name         string
	Category     string
	Unit         string
	InStock      int
	MinThreshold int
}

// UpdatePartInput edits identity fields, the reorder threshold and the
// externally maintained committed quantity. Nil fields are left as they are.
type UpdatePartInput struct {
	StoreID      string
	PartID       string
	SKU          *string
	Name         *string
	Category     *string
	Unit         *string
	Committed    *int
	MinThreshold *int
}

type DeletePartInput struct {
	StoreID string
	PartID  string
	// CascadeBOM removes the part's BOM lines. Without it the lines stay and
	// report the part as missing.
	CascadeBOM bool
}

type AdjustStockInput struct {
	StoreID       string
	PartID        string
	Delta         int
	Reason        string
	MovementType  string // defaults to model.MovementAdjustment
	ReferenceType string
	ReferenceID   string
	UserID        string
}
