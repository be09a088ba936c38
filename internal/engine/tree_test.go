package engine

import (
	"context"
	"errors"
	"testing"

	"gw2/crafter/internal/domain"
)

// Function adapters so tests can fake providers inline.

type recipeProviderFunc func(ctx context.Context, itemID int) ([]domain.Recipe, error)

func (f recipeProviderFunc) FindRecipesByOutput(ctx context.Context, itemID int) ([]domain.Recipe, error) {
	return f(ctx, itemID)
}

type itemProviderFunc func(ctx context.Context, ids []int) (map[int]domain.ItemMetadata, error)

func (f itemProviderFunc) FetchItems(ctx context.Context, ids []int) (map[int]domain.ItemMetadata, error) {
	return f(ctx, ids)
}

type listingProviderFunc func(ctx context.Context, ids []int) (map[int]domain.CommerceListing, error)

func (f listingProviderFunc) FetchListings(ctx context.Context, ids []int) (map[int]domain.CommerceListing, error) {
	return f(ctx, ids)
}

func recipesFromMap(recipes map[int]domain.Recipe) recipeProviderFunc {
	return func(_ context.Context, itemID int) ([]domain.Recipe, error) {
		if recipe, ok := recipes[itemID]; ok {
			return []domain.Recipe{recipe}, nil
		}
		return nil, nil
	}
}

func itemIngredient(id int, count int64) domain.Ingredient {
	return domain.Ingredient{Type: domain.IngredientItem, ID: id, Count: count}
}

func findRequirement(t *testing.T, reqs []domain.MaterialRequirement, itemID int) domain.MaterialRequirement {
	t.Helper()
	for _, req := range reqs {
		if req.ItemID == itemID {
			return req
		}
	}
	t.Fatalf("no requirement for item %d in %+v", itemID, reqs)
	return domain.MaterialRequirement{}
}

func TestBuildBatchScaling(t *testing.T) {
	builder := NewTreeBuilder(recipesFromMap(map[int]domain.Recipe{
		1: {
			OutputItemID:    1,
			OutputItemCount: 3,
			Ingredients: []domain.Ingredient{
				itemIngredient(2, 2),
				itemIngredient(3, 4),
			},
		},
	}))

	// 7 outputs at 3 per craft round up to 3 batches.
	tree, err := builder.Build(context.Background(), 1, 7, 10)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	root := tree.Root
	if !root.CanBeCrafted {
		t.Error("root should be craftable")
	}
	if root.Recipe == nil {
		t.Fatal("root should carry its recipe")
	}
	if len(root.Children) != 2 {
		t.Fatalf("root children = %d, want 2", len(root.Children))
	}
	if got := root.Children[0].ItemID; got != 2 {
		t.Errorf("children order broken: first child item = %d, want 2", got)
	}
	if got := root.Children[0].Quantity; got != 6 {
		t.Errorf("ingredient 2 quantity = %d, want 2*3=6", got)
	}
	if got := root.Children[1].Quantity; got != 12 {
		t.Errorf("ingredient 3 quantity = %d, want 4*3=12", got)
	}
}

func TestBuildZeroQuantity(t *testing.T) {
	builder := NewTreeBuilder(recipesFromMap(map[int]domain.Recipe{
		1: {OutputItemID: 1, OutputItemCount: 5, Ingredients: []domain.Ingredient{itemIngredient(2, 3)}},
	}))

	tree, err := builder.Build(context.Background(), 1, 0, 10)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if got := tree.Root.Children[0].Quantity; got != 0 {
		t.Errorf("zero-quantity request produced ingredient quantity %d, want 0", got)
	}
}

func TestBuildCycleTerminates(t *testing.T) {
	builder := NewTreeBuilder(recipesFromMap(map[int]domain.Recipe{
		1: {OutputItemID: 1, OutputItemCount: 1, Ingredients: []domain.Ingredient{itemIngredient(2, 1)}},
		2: {OutputItemID: 2, OutputItemCount: 1, Ingredients: []domain.Ingredient{itemIngredient(1, 1)}},
	}))

	tree, err := builder.Build(context.Background(), 1, 1, 10)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	leaf := tree.Root.Children[0].Children[0]
	if leaf.ItemID != 1 {
		t.Fatalf("cycle leaf item = %d, want 1", leaf.ItemID)
	}
	if !leaf.IsLeaf() {
		t.Error("cycle node must not expand further")
	}
	if !leaf.CanBeCrafted {
		t.Error("cycle leaf has a recipe and should stay marked craftable")
	}

	req := findRequirement(t, tree.CraftableIntermediates, 1)
	if req.Quantity != 1 {
		t.Errorf("cycle leaf quantity = %d, want 1", req.Quantity)
	}
	if len(tree.BaseMaterials) != 0 {
		t.Errorf("base materials = %+v, want none", tree.BaseMaterials)
	}
}

func TestBuildDiamondAggregation(t *testing.T) {
	// Items 2 and 3 both need 5 of base material 4.
	builder := NewTreeBuilder(recipesFromMap(map[int]domain.Recipe{
		1: {OutputItemID: 1, OutputItemCount: 1, Ingredients: []domain.Ingredient{
			itemIngredient(2, 1),
			itemIngredient(3, 1),
		}},
		2: {OutputItemID: 2, OutputItemCount: 1, Ingredients: []domain.Ingredient{itemIngredient(4, 5)}},
		3: {OutputItemID: 3, OutputItemCount: 1, Ingredients: []domain.Ingredient{itemIngredient(4, 5)}},
	}))

	tree, err := builder.Build(context.Background(), 1, 1, 10)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if len(tree.TotalMaterials) != 1 {
		t.Fatalf("total materials = %+v, want exactly one merged entry", tree.TotalMaterials)
	}
	req := findRequirement(t, tree.TotalMaterials, 4)
	if req.Quantity != 10 {
		t.Errorf("merged quantity = %d, want 10", req.Quantity)
	}
}

func TestBuildDepthLimitTruncates(t *testing.T) {
	builder := NewTreeBuilder(recipesFromMap(map[int]domain.Recipe{
		1: {OutputItemID: 1, OutputItemCount: 1, Ingredients: []domain.Ingredient{itemIngredient(2, 1)}},
		2: {OutputItemID: 2, OutputItemCount: 1, Ingredients: []domain.Ingredient{itemIngredient(3, 1)}},
		3: {OutputItemID: 3, OutputItemCount: 1, Ingredients: []domain.Ingredient{itemIngredient(4, 1)}},
	}))

	tree, err := builder.Build(context.Background(), 1, 1, 2)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	leaf := tree.Root.Children[0].Children[0]
	if leaf.ItemID != 3 {
		t.Fatalf("truncated leaf item = %d, want 3", leaf.ItemID)
	}
	if !leaf.IsLeaf() {
		t.Error("depth limit should stop expansion even though a recipe exists")
	}
	if !leaf.CanBeCrafted {
		t.Error("truncated leaf should stay marked craftable")
	}

	findRequirement(t, tree.CraftableIntermediates, 3)
}

func TestBuildCurrencyIngredient(t *testing.T) {
	builder := NewTreeBuilder(recipesFromMap(map[int]domain.Recipe{
		1: {OutputItemID: 1, OutputItemCount: 1, Ingredients: []domain.Ingredient{
			{Type: domain.IngredientCurrency, ID: 42, Count: 96},
			itemIngredient(2, 1),
		}},
	}))

	tree, err := builder.Build(context.Background(), 1, 2, 10)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	currency := tree.Root.Children[0]
	if !currency.IsCurrency {
		t.Error("currency ingredient should become a currency leaf")
	}
	if currency.CanBeCrafted {
		t.Error("currency leaf must not be craftable")
	}
	if currency.Quantity != 192 {
		t.Errorf("currency quantity = %d, want 96*2=192", currency.Quantity)
	}

	req := findRequirement(t, tree.TotalMaterials, 42)
	if !req.IsCurrency {
		t.Error("currency requirement should keep its currency flag")
	}
}

func TestBuildRootWithoutRecipe(t *testing.T) {
	builder := NewTreeBuilder(recipesFromMap(nil))

	tree, err := builder.Build(context.Background(), 99, 3, 10)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if tree.Root.CanBeCrafted {
		t.Error("item without recipe must not be craftable")
	}

	req := findRequirement(t, tree.BaseMaterials, 99)
	if req.Quantity != 3 {
		t.Errorf("root base material quantity = %d, want 3", req.Quantity)
	}
}

func TestBuildRootLookupFailure(t *testing.T) {
	builder := NewTreeBuilder(recipeProviderFunc(func(context.Context, int) ([]domain.Recipe, error) {
		return nil, errors.New("api down")
	}))

	if _, err := builder.Build(context.Background(), 1, 1, 10); err == nil {
		t.Fatal("Build() should fail when the root lookup fails")
	}
}

func TestBuildDeepLookupFailureDegrades(t *testing.T) {
	builder := NewTreeBuilder(recipeProviderFunc(func(_ context.Context, itemID int) ([]domain.Recipe, error) {
		if itemID == 1 {
			return []domain.Recipe{{
				OutputItemID:    1,
				OutputItemCount: 1,
				Ingredients:     []domain.Ingredient{itemIngredient(2, 1)},
			}}, nil
		}
		return nil, errors.New("rate limited")
	}))

	tree, err := builder.Build(context.Background(), 1, 1, 10)
	if err != nil {
		t.Fatalf("Build() should degrade on deep lookup failure, got: %v", err)
	}

	child := tree.Root.Children[0]
	if child.CanBeCrafted || !child.IsLeaf() {
		t.Error("failed deep lookup should yield a base-material leaf")
	}
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	builder := NewTreeBuilder(recipesFromMap(nil))
	if _, err := builder.Build(ctx, 1, 1, 10); err == nil {
		t.Fatal("Build() should fail on a cancelled context")
	}
}

func TestCeilDiv(t *testing.T) {
	tests := []struct {
		quantity, perCraft, want int64
	}{
		{7, 3, 3},
		{6, 3, 2},
		{1, 3, 1},
		{0, 3, 0},
		{5, 0, 5}, // malformed recipe output counts as 1 per craft
	}
	for _, tt := range tests {
		if got := ceilDiv(tt.quantity, tt.perCraft); got != tt.want {
			t.Errorf("ceilDiv(%d, %d) = %d, want %d", tt.quantity, tt.perCraft, got, tt.want)
		}
	}
}
