package client

import (
	"gw2/crafter/internal/domain"
)

// Wire shapes of the /v2 endpoints. The schema version pinned on the
// client gives recipes the tagged ingredient form ({type, id, count}).

type recipeDTO struct {
	ID              int             `json:"id"`
	OutputItemID    int             `json:"output_item_id"`
	OutputItemCount int64           `json:"output_item_count"`
	Disciplines     []string        `json:"disciplines"`
	MinRating       int             `json:"min_rating"`
	Ingredients     []ingredientDTO `json:"ingredients"`
}

type ingredientDTO struct {
	Type   string `json:"type"`
	ID     int    `json:"id"`
	ItemID int    `json:"item_id"` // legacy schema fallback
	Count  int64  `json:"count"`
}

type itemDTO struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Rarity string `json:"rarity"`
}

type listingDTO struct {
	ID    int        `json:"id"`
	Buys  []levelDTO `json:"buys"`
	Sells []levelDTO `json:"sells"`
}

type levelDTO struct {
	Listings  int64 `json:"listings"`
	UnitPrice int64 `json:"unit_price"`
	Quantity  int64 `json:"quantity"`
}

func (d recipeDTO) toDomain() domain.Recipe {
	recipe := domain.Recipe{
		ID:              d.ID,
		OutputItemID:    d.OutputItemID,
		OutputItemCount: d.OutputItemCount,
		Disciplines:     d.Disciplines,
		MinRating:       d.MinRating,
		Ingredients:     make([]domain.Ingredient, 0, len(d.Ingredients)),
	}
	for _, ing := range d.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, ing.toDomain())
	}
	return recipe
}

func (d ingredientDTO) toDomain() domain.Ingredient {
	ing := domain.Ingredient{
		ID:    d.ID,
		Count: d.Count,
	}

	switch domain.IngredientType(d.Type) {
	case domain.IngredientItem:
		ing.Type = domain.IngredientItem
	case domain.IngredientGuildUpgrade:
		ing.Type = domain.IngredientGuildUpgrade
	case domain.IngredientCurrency:
		ing.Type = domain.IngredientCurrency
	default:
		// Legacy responses carry item_id with no type tag; anything else
		// unrecognized is treated as an untracked currency.
		if d.Type == "" && d.ItemID != 0 {
			ing.Type = domain.IngredientItem
			ing.ID = d.ItemID
		} else {
			ing.Type = domain.IngredientCurrency
		}
	}

	return ing
}

func (d itemDTO) toDomain() domain.ItemMetadata {
	return domain.ItemMetadata{
		ID:     d.ID,
		Name:   d.Name,
		Icon:   d.Icon,
		Rarity: d.Rarity,
	}
}

func (d listingDTO) toDomain() domain.CommerceListing {
	listing := domain.CommerceListing{
		ItemID: d.ID,
		Buys:   make([]domain.PriceLevel, 0, len(d.Buys)),
		Sells:  make([]domain.PriceLevel, 0, len(d.Sells)),
	}
	for _, lvl := range d.Buys {
		listing.Buys = append(listing.Buys, lvl.toDomain())
	}
	for _, lvl := range d.Sells {
		listing.Sells = append(listing.Sells, lvl.toDomain())
	}
	return listing
}

func (d levelDTO) toDomain() domain.PriceLevel {
	return domain.PriceLevel{
		Listings:  d.Listings,
		UnitPrice: d.UnitPrice,
		Quantity:  d.Quantity,
	}
}
