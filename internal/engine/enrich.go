package engine

import (
	"context"
	"fmt"

	"gw2/crafter/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Enricher attaches human-readable names to a resolved tree.
type Enricher struct {
	items ItemProvider
}

func NewEnricher(items ItemProvider) *Enricher {
	return &Enricher{items: items}
}

// Enrich annotates every node and material requirement with its item name
// using one batched metadata lookup. Missing metadata never fails the
// resolution; affected entries keep a fallback display name.
func (e *Enricher) Enrich(ctx context.Context, tree *domain.CraftingTree) error {
	if tree == nil || tree.Root == nil {
		return nil
	}

	idSet := make(map[int]struct{})
	tree.Root.Walk(func(n *domain.CraftingNode) {
		if !n.IsCurrency {
			idSet[n.ItemID] = struct{}{}
		}
	})

	ids := make([]int, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	items, err := e.items.FetchItems(ctx, ids)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warnf("Item metadata lookup failed, falling back to placeholder names: %v", err)
		items = nil
	}

	name := func(id int, currency bool) string {
		if meta, ok := items[id]; ok && meta.Name != "" {
			return meta.Name
		}
		if currency {
			return fmt.Sprintf("Currency %d", id)
		}
		return fmt.Sprintf("Item %d", id)
	}

	tree.Root.Walk(func(n *domain.CraftingNode) {
		n.ItemName = name(n.ItemID, n.IsCurrency)
	})

	for _, reqs := range [][]domain.MaterialRequirement{
		tree.TotalMaterials,
		tree.CraftableIntermediates,
		tree.BaseMaterials,
	} {
		for i := range reqs {
			reqs[i].Name = name(reqs[i].ItemID, reqs[i].IsCurrency)
		}
	}

	return nil
}
