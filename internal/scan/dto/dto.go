package dto

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
)

type ResolveInput struct {
	StoreID string
	UserID  string
	Query   string
}

type AdjustInput struct {
	StoreID string
	UserID  string
	PartID  string
	Delta   int
}
