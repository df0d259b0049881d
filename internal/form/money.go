package form

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatCurrency formats v as dollars with two decimals. Negative amounts
// are written "-$3.00".
func FormatCurrency(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// FormatPercentage formats v with one decimal and a percent sign.
func FormatPercentage(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1) + "%"
}

// FormatAmount formats v for a numeric input field.
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Preview is the live profit preview of the item form.
type Preview struct {
	Profit float64
	Margin float64
	Valid  bool
}

// ProfitPreview computes profit and margin from the raw cost and price
// fields. Unparseable input gives an invalid preview. The margin is zero
// when the price is not positive.
func ProfitPreview(cost, price string) Preview {
	c, err := decimal.NewFromString(cost)
	if err != nil {
		return Preview{}
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return Preview{}
	}

	profit := p.Sub(c)
	margin := decimal.Zero
	if p.IsPositive() {
		margin = profit.Div(p).Mul(hundred).Round(1)
	}
	return Preview{
		Profit: profit.Round(2).InexactFloat64(),
		Margin: margin.InexactFloat64(),
		Valid:  true,
	}
}
