package dto

type SupplierFilters struct {
	StoreID  string
	Search   string
	Page     int
	PageSize int
}
