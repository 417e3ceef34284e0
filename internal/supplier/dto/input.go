package dto

type CreateSupplierInput struct {
	StoreID string
	UserID  string
	Name    string
	Email   string
	Phone   string
	Address string
	Notes   string
}

// UpdateSupplierInput changes only the non-nil fields. An empty string
// clears an optional contact field.
type UpdateSupplierInput struct {
	StoreID    string
	SupplierID string
	Name       *string
	Email      *string
	Phone      *string
	Address    *string
	Notes      *string
}
