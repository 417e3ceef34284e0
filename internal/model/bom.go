package model

import "time"

// BOMLine is one component requirement of a sellable (product, variant).
// Part is filled when the line is read with its part; it stays nil when the
// referenced part no longer exists.
type BOMLine struct {
	ID             string    `db:"id" json:"id"`
	StoreID        string    `db:"store_id" json:"store_id"`
	ProductID      string    `db:"product_id" json:"product_id"`
	VariantID      string    `db:"variant_id" json:"variant_id"`
	PartID         string    `db:"part_id" json:"part_id"`
	QuantityNeeded int       `db:"quantity_needed" json:"quantity_needed"`
	Position       int       `db:"position" json:"position"`
	CreatedBy      *string   `db:"created_by" json:"created_by,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`

	Part *Part `db:"-" json:"part,omitempty"`
}

// MissingPart reports a line whose part has been deleted.
func (l *BOMLine) MissingPart() bool {
	return l.Part == nil
}
