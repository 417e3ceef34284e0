package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type POStatus string

const (
	POStatusDraft    POStatus = "draft"
	POStatusSent     POStatus = "sent"
	POStatusReceived POStatus = "received"
)

func (s POStatus) Valid() bool {
	switch s {
	case POStatusDraft, POStatusSent, POStatusReceived:
		return true
	}
	return false
}

// CanTransitionTo reports whether next directly follows s. Orders only move
// forward: draft, sent, received.
func (s POStatus) CanTransitionTo(next POStatus) bool {
	switch s {
	case POStatusDraft:
		return next == POStatusSent
	case POStatusSent:
		return next == POStatusReceived
	}
	return false
}

// Deletable reports whether an order in status s may be removed.
func (s POStatus) Deletable() bool {
	return s == POStatusDraft
}

type PurchaseOrder struct {
	ID         string          `db:"id" json:"id"`
	StoreID    string          `db:"store_id" json:"store_id"`
	PONumber   string          `db:"po_number" json:"po_number"`
	SupplierID string          `db:"supplier_id" json:"supplier_id"`
	Status     POStatus        `db:"status" json:"status"`
	Notes      *string         `db:"notes" json:"notes,omitempty"`
	TotalCost  decimal.Decimal `db:"total_cost" json:"total_cost"`
	CreatedBy  *string         `db:"created_by" json:"created_by,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	SentAt     *time.Time      `db:"sent_at" json:"sent_at,omitempty"`
	ReceivedAt *time.Time      `db:"received_at" json:"received_at,omitempty"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`

	Items []POItem `db:"-" json:"items,omitempty"`
}

type POItem struct {
	ID               string          `db:"id" json:"id"`
	PurchaseOrderID  string          `db:"purchase_order_id" json:"purchase_order_id"`
	PartID           string          `db:"part_id" json:"part_id"`
	PartName         string          `db:"part_name" json:"part_name"`
	QuantityOrdered  int             `db:"quantity_ordered" json:"quantity_ordered"`
	QuantityReceived int             `db:"quantity_received" json:"quantity_received"`
	CostPerUnit      decimal.Decimal `db:"cost_per_unit" json:"cost_per_unit"`
	Position         int             `db:"position" json:"position"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// LineTotal is quantity_ordered × cost_per_unit.
func (i *POItem) LineTotal() decimal.Decimal {
	return i.CostPerUnit.Mul(decimal.NewFromInt(int64(i.QuantityOrdered)))
}
