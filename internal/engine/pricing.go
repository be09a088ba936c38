package engine

import (
	"gw2/crafter/internal/domain"
)

// Trading post fee schedule, in percent of the sale price. The two fees
// are floored independently; flooring once on the 15% sum diverges from
// the live market by a copper on some prices.
const (
	listingFeePercent  = 5
	exchangeFeePercent = 10
)

// BulkPrice walks order-book levels in the order given and prices the
// requested quantity. Callers pass sells (ascending) to price an instant
// buy, or buys (descending) to price an instant sell, so the best price
// is always consumed first.
func BulkPrice(levels []domain.PriceLevel, quantity int64) domain.BulkPriceResult {
	result := domain.BulkPriceResult{Remaining: quantity}
	if quantity <= 0 {
		result.Remaining = 0
		result.Fulfilled = true
		return result
	}

	for _, level := range levels {
		if result.Remaining == 0 {
			break
		}
		take := min(result.Remaining, level.Quantity)
		if take <= 0 {
			continue
		}
		result.TotalCost += take * level.UnitPrice
		result.Remaining -= take
	}

	result.Fulfilled = result.Remaining == 0
	if filled := quantity - result.Remaining; filled > 0 {
		result.AveragePrice = result.TotalCost / filled
	}

	return result
}

// TradingFees computes the market's cut and the seller's take for a sale
// at sellPrice copper.
func TradingFees(sellPrice int64) domain.TradingFees {
	if sellPrice <= 0 {
		return domain.TradingFees{}
	}

	listingFee := sellPrice * listingFeePercent / 100
	exchangeFee := sellPrice * exchangeFeePercent / 100

	return domain.TradingFees{
		ListingFee:  listingFee,
		ExchangeFee: exchangeFee,
		TotalFee:    listingFee + exchangeFee,
		Profit:      sellPrice - listingFee - exchangeFee,
	}
}

// FlipProfit evaluates buying at the cheapest sell offer and reselling to
// the highest buy order. Items with an empty book on either side are not
// flippable.
func FlipProfit(listing domain.CommerceListing) domain.FlipProfit {
	flip := domain.FlipProfit{
		ItemID:    listing.ItemID,
		BuyPrice:  listing.BestSell(),
		SellPrice: listing.BestBuy(),
	}

	if flip.BuyPrice == 0 || flip.SellPrice == 0 {
		return flip
	}

	flip.Fees = TradingFees(flip.SellPrice)
	flip.NetProfit = flip.Fees.Profit - flip.BuyPrice
	flip.Profitable = flip.NetProfit > 0

	return flip
}
