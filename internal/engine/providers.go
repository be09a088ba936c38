// Package engine implements recipe tree resolution, material aggregation
// and order-book valuation. Every call is a pure function over its inputs
// and whatever the providers return; nothing here caches or mutates shared
// state.
package engine

import (
	"context"

	"gw2/crafter/internal/domain"
)

// RecipeProvider looks up recipes by the item they produce. An empty slice
// means the item has no recipe (base material).
type RecipeProvider interface {
	FindRecipesByOutput(ctx context.Context, itemID int) ([]domain.Recipe, error)
}

// ItemProvider batch-fetches item metadata. Partial results are allowed;
// missing ids are simply absent from the map.
type ItemProvider interface {
	FetchItems(ctx context.Context, ids []int) (map[int]domain.ItemMetadata, error)
}

// ListingProvider batch-fetches order books. A missing id means "no market
// data", not an empty book.
type ListingProvider interface {
	FetchListings(ctx context.Context, ids []int) (map[int]domain.CommerceListing, error)
}
