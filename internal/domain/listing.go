package domain

// PriceLevel is a single price point in an order book: Quantity units
// offered or wanted at UnitPrice copper each.
type PriceLevel struct {
	Listings  int64 `json:"listings,omitempty"` // number of standing orders at this level
	UnitPrice int64 `json:"unit_price"`
	Quantity  int64 `json:"quantity"`
}

// CommerceListing is the order book for one item. Buys are sorted
// descending by price (best buy order first) and Sells ascending
// (cheapest sell offer first), the order the trading post API returns
// them in.
type CommerceListing struct {
	ItemID int          `json:"id"`
	Buys   []PriceLevel `json:"buys"`
	Sells  []PriceLevel `json:"sells"`
}

// BestBuy returns the highest standing buy order price, 0 if none.
func (l CommerceListing) BestBuy() int64 {
	if len(l.Buys) == 0 {
		return 0
	}
	return l.Buys[0].UnitPrice
}

// BestSell returns the cheapest sell offer price, 0 if none.
func (l CommerceListing) BestSell() int64 {
	if len(l.Sells) == 0 {
		return 0
	}
	return l.Sells[0].UnitPrice
}
