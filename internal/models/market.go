package models

// Product is a marketplace listing priced in US dollars
type Product struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	PriceUSD float64 `json:"price"`
	Vendor   string  `json:"vendor"`
}

// PricedProduct adds the local currency price to a listing
type PricedProduct struct {
	Product
	PriceIQD     int64  `json:"priceIqd"`
	FormattedIQD string `json:"formattedIqd"`
}

// MarketResponse is the marketplace listing with the rate used
type MarketResponse struct {
	ExchangeRate float64         `json:"exchangeRate"`
	Products     []PricedProduct `json:"products"`
}
