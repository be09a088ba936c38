package domain

// BulkPriceResult is the outcome of walking one side of an order book for
// a requested quantity.
type BulkPriceResult struct {
	TotalCost    int64 `json:"total_cost"`
	AveragePrice int64 `json:"average_price"`
	Fulfilled    bool  `json:"fulfilled"`
	Remaining    int64 `json:"remaining"`
}

// TradingFees breaks down the trading post's cut of a sale. The 5% listing
// fee and 10% exchange fee are each floored independently.
type TradingFees struct {
	ListingFee  int64 `json:"listing_fee"`
	ExchangeFee int64 `json:"exchange_fee"`
	TotalFee    int64 `json:"total_fee"`
	Profit      int64 `json:"profit"`
}

// FlipProfit describes buying an item at the cheapest sell offer and
// reselling it to the highest buy order, net of fees.
type FlipProfit struct {
	ItemID     int         `json:"item_id"`
	BuyPrice   int64       `json:"buy_price"`
	SellPrice  int64       `json:"sell_price"`
	Fees       TradingFees `json:"fees"`
	NetProfit  int64       `json:"net_profit"`
	Profitable bool        `json:"profitable"`
}
