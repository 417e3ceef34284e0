package dto

import "github.com/shopspring/decimal"

type CreatePOInput struct {
	StoreID    string
	UserID     string
	SupplierID string
	Notes      string
	Items      []CreatePOItemInput
}

type CreatePOItemInput struct {
	PartID      string
	Quantity    int
	CostPerUnit decimal.Decimal
}

type TransitionInput struct {
	StoreID         string
	UserID          string
	PurchaseOrderID string
}
