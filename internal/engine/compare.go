package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"gw2/crafter/internal/domain"

	log "github.com/sirupsen/logrus"
)

// ErrNoMarketData is returned by Compare when the target item has no
// order book at all, so no acquisition cost can be computed.
var ErrNoMarketData = errors.New("no market data for item")

// Comparator weighs buying an item against crafting it from materials.
type Comparator struct {
	listings ListingProvider
	builder  *TreeBuilder
	enricher *Enricher
	maxDepth int
}

func NewComparator(listings ListingProvider, builder *TreeBuilder, enricher *Enricher, maxDepth int) *Comparator {
	return &Comparator{
		listings: listings,
		builder:  builder,
		enricher: enricher,
		maxDepth: maxDepth,
	}
}

// Compare prices three ways of obtaining quantity units of itemID:
// buying instantly off the sell offers, placing a buy order one copper
// above the current best, and crafting from purchased base materials.
// Materials already owned are free to use; owned lists how many units of
// each material the caller holds.
//
// Only the target item's own listing fetch is fatal. Every deeper lookup
// degrades: a failed tree build or unpriceable material drops or flags
// the craft option instead of aborting.
func (c *Comparator) Compare(ctx context.Context, itemID int, quantity int64, owned map[int]int64) (*domain.Comparison, error) {
	listings, err := c.listings.FetchListings(ctx, []int{itemID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing for item %d: %w", itemID, err)
	}

	listing, ok := listings[itemID]
	if !ok {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNoMarketData)
	}

	comparison := &domain.Comparison{
		ItemID:   itemID,
		Quantity: quantity,
	}

	instant := BulkPrice(listing.Sells, quantity)
	comparison.BuyInstant = domain.BuyOption{
		TotalCost:    instant.TotalCost,
		AveragePrice: instant.AveragePrice,
		Fulfilled:    instant.Fulfilled,
	}

	// A standing order one copper above the current best buy is always
	// "fulfilled": it just waits.
	orderPrice := listing.BestBuy() + 1
	orderCost := int64(0)
	if quantity > 0 {
		orderCost = orderPrice * quantity
	}
	comparison.BuyOrder = domain.BuyOption{
		TotalCost:    orderCost,
		AveragePrice: orderPrice,
		Fulfilled:    true,
	}

	craft, name, err := c.craftOption(ctx, itemID, quantity, owned)
	if err != nil {
		return nil, err
	}
	comparison.Craft = craft
	comparison.ItemName = name

	c.recommend(comparison)

	return comparison, nil
}

// craftOption builds, enriches and prices the crafting tree. A nil option
// with nil error means the item cannot be crafted or the tree could not
// be resolved.
func (c *Comparator) craftOption(ctx context.Context, itemID int, quantity int64, owned map[int]int64) (*domain.CraftOption, string, error) {
	tree, err := c.builder.Build(ctx, itemID, quantity, c.maxDepth)
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		log.Warnf("Tree build failed for item %d, skipping craft option: %v", itemID, err)
		return nil, "", nil
	}

	if err := c.enricher.Enrich(ctx, tree); err != nil {
		return nil, "", err
	}
	name := tree.Root.ItemName

	if !tree.Root.CanBeCrafted || tree.Root.IsLeaf() {
		return nil, name, nil
	}

	var materialIDs []int
	for _, req := range tree.TotalMaterials {
		if !req.IsCurrency {
			materialIDs = append(materialIDs, req.ItemID)
		}
	}

	books, err := c.listings.FetchListings(ctx, materialIDs)
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		log.Warnf("Material listing fetch failed for item %d, skipping craft option: %v", itemID, err)
		return nil, name, nil
	}

	option := &domain.CraftOption{
		CraftingSteps: len(tree.CraftableIntermediates) + 1,
		Fulfilled:     true,
	}

	for _, req := range tree.TotalMaterials {
		if req.IsCurrency {
			continue // currencies carry no market cost
		}

		ownedUnits := min(owned[req.ItemID], req.Quantity)
		needToBuy := req.Quantity - ownedUnits

		book, ok := books[req.ItemID]
		if !ok {
			if needToBuy > 0 {
				option.Fulfilled = false
			}
			continue
		}

		priced := BulkPrice(book.Sells, needToBuy)
		option.TotalCost += priced.TotalCost
		if !priced.Fulfilled {
			option.Fulfilled = false
		}

		// Informational only: what the owned stock the craft consumes
		// would fetch on the market. Not subtracted from TotalCost.
		if ownedUnits > 0 {
			option.OwnedMaterialsValue += ownedUnits * book.BestSell()
		}
	}

	return option, name, nil
}

// recommend picks the cheapest option with a usable cost and reports the
// spread between the cheapest and the dearest.
func (c *Comparator) recommend(comparison *domain.Comparison) {
	type candidate struct {
		kind domain.Acquisition
		cost int64
	}

	var candidates []candidate
	if comparison.BuyInstant.TotalCost > 0 {
		candidates = append(candidates, candidate{domain.AcquisitionInstantBuy, comparison.BuyInstant.TotalCost})
	}
	if comparison.BuyOrder.TotalCost > 0 {
		candidates = append(candidates, candidate{domain.AcquisitionBuyOrder, comparison.BuyOrder.TotalCost})
	}
	if comparison.Craft != nil && comparison.Craft.TotalCost > 0 {
		candidates = append(candidates, candidate{domain.AcquisitionCraft, comparison.Craft.TotalCost})
	}

	if len(candidates) == 0 {
		comparison.Recommendation = domain.AcquisitionNotAvailable
		return
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].cost < candidates[j].cost
	})

	cheapest := candidates[0]
	dearest := candidates[len(candidates)-1]

	comparison.Recommendation = cheapest.kind
	comparison.SavingsAmount = dearest.cost - cheapest.cost
	if dearest.cost > 0 {
		comparison.SavingsPercent = int64(math.Round(float64(comparison.SavingsAmount) / float64(dearest.cost) * 100))
	}
}
