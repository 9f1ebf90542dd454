package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Converter turns base-currency base-unit amounts into another currency's
// smallest units. Rate lookup is an external concern; this package ships a
// fixed-rate implementation.
type Converter interface {
	// Convert returns the amount in the target currency's smallest unit.
	Convert(amountBaseUnit int64, currency string) (int64, error)
	// Format renders a smallest-unit amount as a decimal string.
	Format(amount int64, currency string) (string, error)
	Supported(currency string) bool
}

// decimals per supported currency, smallest unit relative to major unit.
var currencyDecimals = map[string]int32{
	"eur": 2,
	"usd": 2,
	"gbp": 2,
	"xtz": 6,
}

// FixedRateConverter converts with a static rate table keyed by currency,
// each rate expressed as target major units per base major unit.
type FixedRateConverter struct {
	base  string
	rates map[string]decimal.Decimal
}

// NewFixedRateConverter builds converter for the given base currency.
func NewFixedRateConverter(base string) (*FixedRateConverter, error) {
	base = strings.ToLower(base)
	if _, ok := currencyDecimals[base]; !ok {
		return nil, fmt.Errorf("unsupported base currency %q", base)
	}
	return &FixedRateConverter{
		base: base,
		rates: map[string]decimal.Decimal{
			"eur": decimal.NewFromInt(1),
			"usd": decimal.RequireFromString("1.18"),
			"gbp": decimal.RequireFromString("0.86"),
			"xtz": decimal.RequireFromString("1.52"),
		},
	}, nil
}

func (c *FixedRateConverter) Supported(currency string) bool {
	_, ok := currencyDecimals[strings.ToLower(currency)]
	return ok
}

func (c *FixedRateConverter) Convert(amountBaseUnit int64, currency string) (int64, error) {
	currency = strings.ToLower(currency)
	targetDecimals, ok := currencyDecimals[currency]
	if !ok {
		return 0, fmt.Errorf("unsupported currency %q", currency)
	}

	rate, err := c.crossRate(currency)
	if err != nil {
		return 0, err
	}

	major := decimal.New(amountBaseUnit, -currencyDecimals[c.base])
	converted := major.Mul(rate).Shift(targetDecimals).Round(0)
	return converted.IntPart(), nil
}

func (c *FixedRateConverter) Format(amount int64, currency string) (string, error) {
	currency = strings.ToLower(currency)
	targetDecimals, ok := currencyDecimals[currency]
	if !ok {
		return "", fmt.Errorf("unsupported currency %q", currency)
	}
	return decimal.New(amount, -targetDecimals).StringFixed(targetDecimals), nil
}

func (c *FixedRateConverter) crossRate(currency string) (decimal.Decimal, error) {
	target, ok := c.rates[currency]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("no rate for currency %q", currency)
	}
	base, ok := c.rates[c.base]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("no rate for base currency %q", c.base)
	}
	return target.Div(base), nil
}
