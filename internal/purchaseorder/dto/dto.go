package dto

import "github.com/fekuna/omnipos-inventory-service/internal/model"

type POFilters struct {
	StoreID    string
	Status     model.POStatus
	SupplierID string
	Page       int
	PageSize   int
}

// ReceiptLine is the stock effect of receiving one item.
type ReceiptLine struct {
	PartID   string
	Quantity int
	InStock  int
}
