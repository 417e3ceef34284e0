package model

import "time"

type Part struct {
	ID           string    `db:"id" json:"id"`
	StoreID      string    `db:"store_id" json:"store_id"`
	SKU          *string   `db:"sku" json:"sku,omitempty"`
	Name         string    `db:"name" json:"name"`
	Category     string    `db:"category" json:"category"`
	Unit         string    `db:"unit" json:"unit"`
	InStock      int       `db:"in_stock" json:"in_stock"`
	Committed    int       `db:"committed" json:"committed"`
	OnOrder      int       `db:"on_order" json:"on_order"`
	MinThreshold int       `db:"min_threshold" json:"min_threshold"`
	CreatedBy    *string   `db:"created_by" json:"created_by,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Available is in_stock minus committed. A negative value means the part is
// oversold; it is a state to display, not an error.
func (p *Part) Available() int {
	return p.InStock - p.Committed
}

// BelowThreshold reports whether available stock has reached the reorder
// threshold. Parts without a threshold never qualify.
func (p *Part) BelowThreshold() bool {
	return p.MinThreshold > 0 && p.Available() <= p.MinThreshold
}

// Movement types recorded in the stock ledger.
const (
	MovementAdjustment      = "adjustment"
	MovementScanAdjustment  = "scan_adjustment"
	MovementPurchaseReceipt = "purchase_receipt"
)

type StockMovement struct {
	ID             string    `db:"id" json:"id"`
	StoreID        string    `db:"store_id" json:"store_id"`
	PartID         string    `db:"part_id" json:"part_id"`
	MovementType   string    `db:"movement_type" json:"movement_type"`
	QuantityChange int       `db:"quantity_change" json:"quantity_change"`
	QuantityAfter  int       `db:"quantity_after" json:"quantity_after"`
	ReferenceType  *string   `db:"reference_type" json:"reference_type,omitempty"`
	ReferenceID    *string   `db:"reference_id" json:"reference_id,omitempty"`
	Notes          string    `db:"notes" json:"notes"`
	CreatedBy      *string   `db:"created_by" json:"created_by,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
