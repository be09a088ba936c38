package engine

import (
	"context"
	"errors"
	"sort"
	"testing"

	"gw2/crafter/internal/domain"
)

func TestEnrichNamesNodesAndRequirements(t *testing.T) {
	builder := NewTreeBuilder(recipesFromMap(map[int]domain.Recipe{
		1: {OutputItemID: 1, OutputItemCount: 1, Ingredients: []domain.Ingredient{
			itemIngredient(2, 1),
			{Type: domain.IngredientCurrency, ID: 42, Count: 5},
		}},
	}))

	tree, err := builder.Build(context.Background(), 1, 1, 10)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	var requested []int
	enricher := NewEnricher(itemProviderFunc(func(_ context.Context, ids []int) (map[int]domain.ItemMetadata, error) {
		requested = append(requested, ids...)
		// Metadata for item 2 is missing: partial results are allowed.
		return map[int]domain.ItemMetadata{
			1: {ID: 1, Name: "Bolt of Cloth"},
		}, nil
	}))

	if err := enricher.Enrich(context.Background(), tree); err != nil {
		t.Fatalf("Enrich() error: %v", err)
	}

	sort.Ints(requested)
	if len(requested) != 2 || requested[0] != 1 || requested[1] != 2 {
		t.Errorf("metadata lookup ids = %v, want [1 2] (currencies excluded)", requested)
	}

	if got := tree.Root.ItemName; got != "Bolt of Cloth" {
		t.Errorf("root name = %q, want %q", got, "Bolt of Cloth")
	}
	if got := tree.Root.Children[0].ItemName; got != "Item 2" {
		t.Errorf("missing metadata fallback = %q, want %q", got, "Item 2")
	}
	if got := tree.Root.Children[1].ItemName; got != "Currency 42" {
		t.Errorf("currency fallback = %q, want %q", got, "Currency 42")
	}

	req := findRequirement(t, tree.TotalMaterials, 2)
	if req.Name != "Item 2" {
		t.Errorf("requirement name = %q, want %q", req.Name, "Item 2")
	}
}

func TestEnrichSurvivesProviderFailure(t *testing.T) {
	builder := NewTreeBuilder(recipesFromMap(nil))
	tree, err := builder.Build(context.Background(), 7, 1, 10)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	enricher := NewEnricher(itemProviderFunc(func(context.Context, []int) (map[int]domain.ItemMetadata, error) {
		return nil, errors.New("metadata service down")
	}))

	if err := enricher.Enrich(context.Background(), tree); err != nil {
		t.Fatalf("Enrich() must not fail the resolution: %v", err)
	}
	if got := tree.Root.ItemName; got != "Item 7" {
		t.Errorf("fallback name = %q, want %q", got, "Item 7")
	}
}
