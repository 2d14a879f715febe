package model

// ItemKind distinguishes physical goods from services.
type ItemKind string

const (
	ItemKindProduct ItemKind = "product"
	ItemKindService ItemKind = "service"
)

// CatalogItem is the read-only view of a sellable item served by the catalog service.
type CatalogItem struct {
	ID                 int64
	Name               string
	Price              float64
	OnlinePrice        *float64
	CostPrice          float64
	IsBundle           bool
	Kind               ItemKind
	QuoteOnly          bool
	TrackStock         bool
	StockQuantity      int
	CommissionRate     float64
	RequiresScheduling bool
	RequiresSeparation bool
	RequiresDelivery   bool
}

// SalePrice returns the price applied when the item is sold online.
func (i *CatalogItem) SalePrice() float64 {
	if i.OnlinePrice != nil {
		return *i.OnlinePrice
	}
	return i.Price
}

// BundleComponent is one child entry of a bundle's stored composition list.
type BundleComponent struct {
	ParentItemID int64
	ChildItemID  int64
	Quantity     int
	Position     int
}
