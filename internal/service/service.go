package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gw2/crafter/internal/domain"
	"gw2/crafter/internal/engine"
	"gw2/crafter/internal/repository"

	"github.com/agnivade/levenshtein"
	log "github.com/sirupsen/logrus"
)

// ErrItemNotFound is returned when a name cannot be resolved against the
// local item index.
var ErrItemNotFound = errors.New("item not found")

// Service is the application facade over the crafting engine.
type Service struct {
	builder    *engine.TreeBuilder
	enricher   *engine.Enricher
	comparator *engine.Comparator
	listings   engine.ListingProvider
	repo       repository.ItemRepository
	maxDepth   int
}

func NewService(
	builder *engine.TreeBuilder,
	enricher *engine.Enricher,
	comparator *engine.Comparator,
	listings engine.ListingProvider,
	repo repository.ItemRepository,
	maxDepth int,
) *Service {
	return &Service{
		builder:    builder,
		enricher:   enricher,
		comparator: comparator,
		listings:   listings,
		repo:       repo,
		maxDepth:   maxDepth,
	}
}

// ResolveTree builds and enriches the full crafting tree for an item.
func (s *Service) ResolveTree(ctx context.Context, itemID int, quantity int64) (*domain.CraftingTree, error) {
	tree, err := s.builder.Build(ctx, itemID, quantity, s.maxDepth)
	if err != nil {
		return nil, err
	}

	if err := s.enricher.Enrich(ctx, tree); err != nil {
		return nil, err
	}

	log.Debugf("Resolved tree for item %d: %d materials, %d base, %d intermediate",
		itemID, len(tree.TotalMaterials), len(tree.BaseMaterials), len(tree.CraftableIntermediates))

	return tree, nil
}

// Compare weighs instant buy, buy order and crafting for an item.
func (s *Service) Compare(ctx context.Context, itemID int, quantity int64, owned map[int]int64) (*domain.Comparison, error) {
	return s.comparator.Compare(ctx, itemID, quantity, owned)
}

// Flip evaluates instant-buy-then-resell profitability for an item.
func (s *Service) Flip(ctx context.Context, itemID int) (*domain.FlipProfit, error) {
	listings, err := s.listings.FetchListings(ctx, []int{itemID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing for item %d: %w", itemID, err)
	}

	listing, ok := listings[itemID]
	if !ok {
		return nil, fmt.Errorf("item %d: %w", itemID, engine.ErrNoMarketData)
	}

	flip := engine.FlipProfit(listing)
	return &flip, nil
}

// ItemMatch is one candidate from a name search, with its edit distance
// to the query.
type ItemMatch struct {
	Item     domain.ItemMetadata `json:"item"`
	Distance int                 `json:"distance"`
}

// SearchItems ranks local index entries against a query name: exact and
// prefix matches first, then closest by edit distance.
func (s *Service) SearchItems(ctx context.Context, query string, limit int) ([]ItemMatch, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("no local item index configured")
	}

	items, err := s.repo.AllItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load item index: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, nil
	}

	matches := make([]ItemMatch, 0, len(items))
	for _, item := range items {
		name := strings.ToLower(item.Name)

		var distance int
		switch {
		case name == needle:
			distance = 0
		case strings.HasPrefix(name, needle):
			distance = 1
		default:
			distance = levenshtein.ComputeDistance(needle, name) + 1
		}

		matches = append(matches, ItemMatch{Item: item, Distance: distance})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}

// ResolveItemName maps a human item name to its id via the local index.
// Close misses resolve to the nearest name as long as the distance is
// plausible for a typo.
func (s *Service) ResolveItemName(ctx context.Context, name string) (domain.ItemMetadata, error) {
	matches, err := s.SearchItems(ctx, name, 1)
	if err != nil {
		return domain.ItemMetadata{}, err
	}
	if len(matches) == 0 {
		return domain.ItemMetadata{}, fmt.Errorf("%q: %w", name, ErrItemNotFound)
	}

	best := matches[0]
	if best.Distance > maxNameDistance(name) {
		return domain.ItemMetadata{}, fmt.Errorf("%q: %w", name, ErrItemNotFound)
	}

	if best.Distance > 1 {
		log.Infof("Resolved %q to %q (item %d)", name, best.Item.Name, best.Item.ID)
	}

	return best.Item, nil
}

// maxNameDistance is the edit-distance budget for fuzzy resolution: a
// third of the query length, at least 2.
func maxNameDistance(name string) int {
	budget := len(name) / 3
	if budget < 2 {
		budget = 2
	}
	return budget
}
