package domain

// IngredientType tags what kind of resource a recipe ingredient refers to.
type IngredientType string

const (
	IngredientItem         IngredientType = "Item"
	IngredientCurrency     IngredientType = "Currency"
	IngredientGuildUpgrade IngredientType = "GuildUpgrade"
)

func (t IngredientType) String() string {
	return string(t)
}

// IsItem reports whether the ingredient is a tradeable item. Anything else
// (currencies, guild upgrades, unrecognized tags) is never expanded further
// and carries no market cost.
func (t IngredientType) IsItem() bool {
	return t == IngredientItem
}

// Ingredient is one requirement of a recipe: an item, a currency or a
// guild upgrade, with the count consumed per craft.
type Ingredient struct {
	Type  IngredientType `json:"type"`
	ID    int            `json:"id"`
	Count int64          `json:"count"`
}

// Recipe produces OutputItemCount of OutputItemID from its ingredients.
type Recipe struct {
	ID              int          `json:"id"`
	OutputItemID    int          `json:"output_item_id"`
	OutputItemCount int64        `json:"output_item_count"`
	Disciplines     []string     `json:"disciplines,omitempty"`
	MinRating       int          `json:"min_rating"`
	Ingredients     []Ingredient `json:"ingredients"`
}
