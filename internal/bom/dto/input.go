package dto

type AddLineInput struct {
	StoreID        string
	UserID         string
	ProductID      string
	VariantID      string
	PartID         string
	QuantityNeeded int
}

type UpdateQuantityInput struct {
	StoreID        string
	LineID         string
	QuantityNeeded int
}

type FulfillabilityInput struct {
	StoreID   string
	ProductID string
	VariantID string
	Quantity  int
}
