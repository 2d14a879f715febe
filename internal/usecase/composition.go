package usecase

import (
	"context"
	"sort"

	domainErrors "github.com/vendrix/storefront/internal/domain/errors"
	"github.com/vendrix/storefront/internal/domain/model"
)

// ExplodedLeaf is one priced child of a bundle, with quantity already
// multiplied by the sale quantity.
type ExplodedLeaf struct {
	Item     *model.CatalogItem
	Quantity int
	Position int
}

// CompositionResolver explodes bundle items into their leaf components. It is
// a pure read over the catalog: the same inputs always yield the same output,
// so callers may invoke it during validation and again during commit.
type CompositionResolver struct {
	catalog CatalogGateway
}

// NewCompositionResolver constructs CompositionResolver.
func NewCompositionResolver(catalog CatalogGateway) *CompositionResolver {
	return &CompositionResolver{catalog: catalog}
}

// Explode returns the priced, fulfillment-flagged leaf items of a bundle for
// the given sale quantity.
func (r *CompositionResolver) Explode(ctx context.Context, tenantID, bundleID int64, saleQuantity int) ([]ExplodedLeaf, error) {
	if saleQuantity <= 0 {
		return nil, domainErrors.ErrInvalidQuantity
	}

	bundle, err := r.catalog.Item(ctx, tenantID, bundleID)
	if err != nil {
		return nil, err
	}
	if !bundle.IsBundle {
		return nil, domainErrors.Validationf("item %d is not a bundle", bundleID)
	}

	components, err := r.catalog.BundleComponents(ctx, tenantID, bundleID)
	if err != nil {
		return nil, err
	}
	if len(components) == 0 {
		return nil, domainErrors.NotFoundf("bundle %d has no components", bundleID)
	}

	ids := make([]int64, 0, len(components))
	for _, c := range components {
		ids = append(ids, c.ChildItemID)
	}
	items, err := r.catalog.Items(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(components, func(i, j int) bool {
		return components[i].Position < components[j].Position
	})

	leaves := make([]ExplodedLeaf, 0, len(components))
	for _, c := range components {
		item, ok := items[c.ChildItemID]
		if !ok {
			return nil, domainErrors.NotFoundf("bundle %d references unknown item %d", bundleID, c.ChildItemID)
		}
		leaves = append(leaves, ExplodedLeaf{
			Item:     item,
			Quantity: c.Quantity * saleQuantity,
			Position: c.Position,
		})
	}
	return leaves, nil
}
