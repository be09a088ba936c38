package domain

// Acquisition names one way of obtaining an item.
type Acquisition string

const (
	AcquisitionInstantBuy   Acquisition = "instant_buy"
	AcquisitionBuyOrder     Acquisition = "buy_order"
	AcquisitionCraft        Acquisition = "craft"
	AcquisitionNotAvailable Acquisition = "not_available"
)

// BuyOption is the cost of acquiring the requested quantity directly from
// the market, either instantly or via a standing buy order.
type BuyOption struct {
	TotalCost    int64 `json:"total_cost"`
	AveragePrice int64 `json:"average_price"`
	Fulfilled    bool  `json:"fulfilled"`
}

// CraftOption is the cost of crafting the requested quantity from
// purchased materials. OwnedMaterialsValue is the market value of owned
// stock the craft would consume; it is informational and not subtracted
// from TotalCost.
type CraftOption struct {
	TotalCost           int64 `json:"total_cost"`
	OwnedMaterialsValue int64 `json:"owned_materials_value"`
	CraftingSteps       int   `json:"crafting_steps"`
	Fulfilled           bool  `json:"fulfilled"`
}

// Comparison is the full buy-vs-craft verdict for one item and quantity.
type Comparison struct {
	ItemID         int          `json:"item_id"`
	ItemName       string       `json:"item_name,omitempty"`
	Quantity       int64        `json:"quantity"`
	BuyInstant     BuyOption    `json:"buy_instant"`
	BuyOrder       BuyOption    `json:"buy_order"`
	Craft          *CraftOption `json:"craft,omitempty"`
	Recommendation Acquisition  `json:"recommendation"`
	SavingsAmount  int64        `json:"savings_amount"`
	SavingsPercent int64        `json:"savings_percent"`
}
