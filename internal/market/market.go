// Package market lists importable products with dinar prices
package market

import (
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/johnrirwin/fpviraq/internal/models"
)

var iqd = currency.MustParseISO("IQD")

// DefaultExchangeRate is IQD per USD
const DefaultExchangeRate = 1310

// Products is the marketplace listing
func Products() []models.Product {
	return []models.Product{
		{ID: 1, Name: "T-Motor F60 PRO V", PriceUSD: 26.99, Vendor: "GetFPV"},
		{ID: 2, Name: "SpeedyBee F405 V3 Stack", PriceUSD: 69.99, Vendor: "AliExpress"},
		{ID: 3, Name: "CNHL Black Series 1300mAh 6S", PriceUSD: 22.90, Vendor: "RDQ"},
		{ID: 4, Name: "Radiomaster Boxer (ELRS)", PriceUSD: 139.99, Vendor: "Banggood"},
		{ID: 5, Name: "HQProp 5x4.3x3 (Set)", PriceUSD: 3.50, Vendor: "Local Shop (Baghdad)"},
	}
}

// Converter turns USD prices into whole dinars
type Converter struct {
	rate    float64
	printer *message.Printer
}

// NewConverter builds a converter. A non-positive rate uses DefaultExchangeRate;
// an unparsable locale falls back to English.
func NewConverter(rate float64, locale string) *Converter {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		rate = DefaultExchangeRate
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Converter{rate: rate, printer: message.NewPrinter(tag)}
}

func (c *Converter) Rate() float64 {
	return c.rate
}

// ToIQD converts usd, rounding to the nearest dinar. Non-finite input is zero.
func (c *Converter) ToIQD(usd float64) int64 {
	v := usd * c.rate
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(math.Round(v))
}

// Format renders usd as a grouped dinar amount, e.g. "35,357 IQD"
func (c *Converter) Format(usd float64) string {
	return c.printer.Sprintf("%v %s", number.Decimal(c.ToIQD(usd), number.MaxFractionDigits(0)), iqd)
}

// Price attaches the dinar price to a product
func (c *Converter) Price(p models.Product) models.PricedProduct {
	return models.PricedProduct{
		Product:      p,
		PriceIQD:     c.ToIQD(p.PriceUSD),
		FormattedIQD: c.Format(p.PriceUSD),
	}
}

// Listing prices every product at the current rate
func (c *Converter) Listing() models.MarketResponse {
	products := Products()
	priced := make([]models.PricedProduct, 0, len(products))
	for _, p := range products {
		priced = append(priced, c.Price(p))
	}
	return models.MarketResponse{
		ExchangeRate: c.rate,
		Products:     priced,
	}
}
