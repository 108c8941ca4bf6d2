package pricing

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// MinorUnitPlaces is the number of decimal places money is kept to once a
// discount has been computed.
const MinorUnitPlaces int32 = 2

const labelSeparator = ", "

// DiscountedLine is an enriched line with the discounts earned by its offers.
// DiscountAmount is invalid when no offer applied.
type DiscountedLine struct {
	EnrichedLine
	DiscountLabel  string              `json:"discount_label,omitempty"`
	DiscountAmount decimal.NullDecimal `json:"discount_amount"`
}

// Discounted reports whether any offer contributed to the line
func (l DiscountedLine) Discounted() bool {
	return l.DiscountAmount.Valid
}

// withDiscount returns a copy of l with amount added and label combined
func (l DiscountedLine) withDiscount(label string, amount decimal.Decimal) DiscountedLine {
	if !amount.IsPositive() {
		return l
	}
	total := amount
	if l.DiscountAmount.Valid {
		total = l.DiscountAmount.Decimal.Add(amount)
	}
	l.DiscountAmount = decimal.NewNullDecimal(total)
	l.DiscountLabel = combineLabels(l.DiscountLabel, label)
	return l
}

func combineLabels(existing, label string) string {
	if existing == "" {
		return label
	}
	for _, part := range strings.Split(existing, labelSeparator) {
		if part == label {
			return existing
		}
	}
	return existing + labelSeparator + label
}

// ApplyOffers runs the per-product pass and then each cheapest-free offer in
// the order supplied. The result has one line per input line, in input order.
func ApplyOffers(lines []EnrichedLine, offers []Offer) []DiscountedLine {
	discounted := make([]DiscountedLine, len(lines))
	for i, line := range lines {
		discounted[i] = applyProductOffers(line, offers)
	}

	for _, offer := range offers {
		if cf, ok := offer.(CheapestFree); ok {
			discounted = applyCheapestFree(discounted, cf)
		}
	}
	return discounted
}

func applyProductOffers(line EnrichedLine, offers []Offer) DiscountedLine {
	dl := DiscountedLine{EnrichedLine: line}
	if !line.Found() {
		return dl
	}

	for _, offer := range offers {
		switch o := offer.(type) {
		case PercentOff:
			if o.ProductID != line.ProductID || o.Percent.IsNegative() || o.Percent.GreaterThan(hundred) {
				continue
			}
			amount := line.ExtendedPrice.Decimal.Mul(o.Percent).Div(hundred).Round(MinorUnitPlaces)
			dl = dl.withDiscount(o.Label(), amount)

		case Multibuy:
			if o.ProductID != line.ProductID || o.Threshold < 1 {
				continue
			}
			free := line.Quantity / o.Threshold
			if free > 0 {
				dl = dl.withDiscount(o.Label(), line.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(free))))
			}

		case CheapestFree:
			// second pass
		}
	}
	return dl
}

type unitInstance struct {
	line  int
	price decimal.Decimal
}

func applyCheapestFree(lines []DiscountedLine, offer CheapestFree) []DiscountedLine {
	if offer.Threshold < 1 {
		return lines
	}

	var units []unitInstance
	for i, line := range lines {
		if !line.Found() || !offer.includes(line.ProductID) {
			continue
		}
		for n := 0; n < line.Quantity; n++ {
			units = append(units, unitInstance{line: i, price: line.UnitPrice.Decimal})
		}
	}
	if len(units) < offer.Threshold {
		return lines
	}

	sort.SliceStable(units, func(a, b int) bool {
		return units[a].price.LessThan(units[b].price)
	})

	out := make([]DiscountedLine, len(lines))
	copy(out, lines)

	label := offer.Label()
	for start := 0; start+offer.Threshold <= len(units); start += offer.Threshold {
		// units are ascending, so the first of each group is its cheapest
		free := units[start]
		out[free.line] = out[free.line].withDiscount(label, free.price)
	}
	return out
}
