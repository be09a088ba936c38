package engine

import (
	"context"
	"fmt"
	"sort"

	"gw2/crafter/internal/domain"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// TreeBuilder recursively expands an item into its full crafting
// dependency tree.
type TreeBuilder struct {
	recipes RecipeProvider
}

func NewTreeBuilder(recipes RecipeProvider) *TreeBuilder {
	return &TreeBuilder{recipes: recipes}
}

// Build resolves the crafting tree for quantity units of itemID, expanding
// at most maxDepth recipe levels. It fails only when the root recipe
// lookup itself fails or the context is cancelled; deeper provider
// failures degrade to base-material leaves.
func (b *TreeBuilder) Build(ctx context.Context, itemID int, quantity int64, maxDepth int) (*domain.CraftingTree, error) {
	visited := map[int]struct{}{itemID: {}}

	root, err := b.expand(ctx, itemID, quantity, 0, maxDepth, visited)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve crafting tree for item %d: %w", itemID, err)
	}

	tree := &domain.CraftingTree{Root: root}
	for _, req := range sortedRequirements(AccumulateMaterials(root)) {
		tree.TotalMaterials = append(tree.TotalMaterials, req)
		if req.CanBeCrafted {
			tree.CraftableIntermediates = append(tree.CraftableIntermediates, req)
		} else {
			tree.BaseMaterials = append(tree.BaseMaterials, req)
		}
	}

	return tree, nil
}

func (b *TreeBuilder) expand(ctx context.Context, itemID int, quantity int64, depth, maxDepth int, visited map[int]struct{}) (*domain.CraftingNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	node := &domain.CraftingNode{
		ItemID:   itemID,
		Quantity: quantity,
	}

	_, onPath := visited[itemID]
	truncated := depth >= maxDepth || (depth > 0 && onPath)

	recipes, err := b.recipes.FindRecipesByOutput(ctx, itemID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if depth == 0 {
			return nil, err
		}
		// Degrade to "no recipe" for this branch only.
		log.Warnf("Recipe lookup failed for item %d, treating as base material: %v", itemID, err)
		recipes = nil
	}

	if len(recipes) == 0 {
		return node, nil
	}

	if truncated {
		// A recipe exists but the depth or cycle guard stops the
		// expansion here. The leaf stays marked craftable so it lands in
		// the craftable-intermediates partition instead of being
		// mistaken for a base material.
		node.CanBeCrafted = true
		return node, nil
	}

	// No alternative-recipe selection: the first recipe wins.
	recipe := recipes[0]
	node.Recipe = &recipe
	node.CanBeCrafted = true

	batches := ceilDiv(quantity, recipe.OutputItemCount)

	node.Children = make([]*domain.CraftingNode, len(recipe.Ingredients))

	g, gctx := errgroup.WithContext(ctx)
	for i, ing := range recipe.Ingredients {
		i, ing := i, ing
		required := ing.Count * batches

		if !ing.Type.IsItem() {
			node.Children[i] = &domain.CraftingNode{
				ItemID:     ing.ID,
				Quantity:   required,
				IsCurrency: true,
			}
			continue
		}

		g.Go(func() error {
			child, err := b.expand(gctx, ing.ID, required, depth+1, maxDepth, cloneVisited(visited, itemID))
			if err != nil {
				return err
			}
			node.Children[i] = child
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return node, nil
}

// cloneVisited copies the path set and adds itemID. Each branch carries
// its own copy so diamond dependencies may legitimately re-expand an item
// that a sibling branch already resolved; only cycles on the current
// root-to-node path are blocked.
func cloneVisited(visited map[int]struct{}, itemID int) map[int]struct{} {
	clone := make(map[int]struct{}, len(visited)+1)
	for id := range visited {
		clone[id] = struct{}{}
	}
	clone[itemID] = struct{}{}
	return clone
}

// ceilDiv rounds up: a partial recipe output still consumes a full craft.
func ceilDiv(quantity, perCraft int64) int64 {
	if perCraft <= 0 {
		perCraft = 1
	}
	if quantity <= 0 {
		return 0
	}
	return (quantity + perCraft - 1) / perCraft
}

func sortedRequirements(acc map[int]*domain.MaterialRequirement) []domain.MaterialRequirement {
	reqs := make([]domain.MaterialRequirement, 0, len(acc))
	for _, req := range acc {
		reqs = append(reqs, *req)
	}
	sort.Slice(reqs, func(i, j int) bool {
		return reqs[i].ItemID < reqs[j].ItemID
	})
	return reqs
}
