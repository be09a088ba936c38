package domain

// ItemMetadata is the subset of item data the engine cares about.
type ItemMetadata struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Icon   string `json:"icon,omitempty"`
	Rarity string `json:"rarity,omitempty"`
}
