package pricing

import (
	"testing"

	"basket-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discount(t *testing.T, lines []models.BasketLine, offers []Offer) []DiscountedLine {
	t.Helper()
	return ApplyOffers(Resolve(testCatalogue(), lines), offers)
}

func TestMultibuyAtThreshold(t *testing.T) {
	out := discount(t, []models.BasketLine{{ProductID: 6, Quantity: 3}}, []Offer{Multibuy{ProductID: 6, Threshold: 3}})

	require.Len(t, out, 1)
	assert.True(t, out[0].Discounted())
	assert.Equal(t, "Buy 2 get 1 free", out[0].DiscountLabel)
	assertMoney(t, "3.50", out[0].DiscountAmount.Decimal)
}

func TestMultibuyBelowThreshold(t *testing.T) {
	out := discount(t, []models.BasketLine{{ProductID: 1, Quantity: 2}}, []Offer{Multibuy{ProductID: 1, Threshold: 3}})

	assert.False(t, out[0].Discounted())
	assert.Empty(t, out[0].DiscountLabel)
}

func TestMultibuyMultipleFreeUnits(t *testing.T) {
	out := discount(t, []models.BasketLine{{ProductID: 1, Quantity: 7}}, []Offer{Multibuy{ProductID: 1, Threshold: 3}})

	assertMoney(t, "1.98", out[0].DiscountAmount.Decimal)
}

func TestPercentOff(t *testing.T) {
	out := discount(t, []models.BasketLine{{ProductID: 3, Quantity: 1}}, []Offer{PercentOff{ProductID: 3, Percent: decimal.NewFromInt(25)}})

	assert.Equal(t, "25% off", out[0].DiscountLabel)
	// 0.4725 rounded to minor units
	assertMoney(t, "0.47", out[0].DiscountAmount.Decimal)
}

func TestPerProductOffersAccumulate(t *testing.T) {
	offers := []Offer{
		PercentOff{ProductID: 1, Percent: decimal.NewFromInt(10)},
		Multibuy{ProductID: 1, Threshold: 3},
	}
	out := discount(t, []models.BasketLine{{ProductID: 1, Quantity: 3}}, offers)

	// 10% of 2.97 = 0.297 -> 0.30, plus one free tin at 0.99
	assertMoney(t, "1.29", out[0].DiscountAmount.Decimal)
	assert.Equal(t, "10% off, Buy 2 get 1 free", out[0].DiscountLabel)
}

func TestCheapestFreeReferenceBasket(t *testing.T) {
	lines := []models.BasketLine{
		{ProductID: 6, Quantity: 3},
		{ProductID: 4, Quantity: 2},
		{ProductID: 5, Quantity: 1},
	}
	out := discount(t, lines, []Offer{CheapestFree{ProductIDs: []int64{4, 5, 6}, Threshold: 3}})

	require.Len(t, out, 3)
	assert.Equal(t, int64(6), out[0].ProductID)
	assert.Equal(t, int64(4), out[1].ProductID)
	assert.Equal(t, int64(5), out[2].ProductID)

	assertMoney(t, "3.50", out[0].DiscountAmount.Decimal)
	assert.Equal(t, "Buy 3 get cheapest free", out[0].DiscountLabel)
	assertMoney(t, "2.00", out[1].DiscountAmount.Decimal)
	assert.False(t, out[2].Discounted())
}

func TestCheapestFreePartialGroup(t *testing.T) {
	lines := []models.BasketLine{
		{ProductID: 4, Quantity: 1},
		{ProductID: 6, Quantity: 1},
	}
	out := discount(t, lines, []Offer{CheapestFree{ProductIDs: []int64{4, 5, 6}, Threshold: 3}})

	for _, line := range out {
		assert.False(t, line.Discounted())
	}
}

func TestCheapestFreeSeveralGroupsOnOneLine(t *testing.T) {
	out := discount(t, []models.BasketLine{{ProductID: 4, Quantity: 6}}, []Offer{CheapestFree{ProductIDs: []int64{4}, Threshold: 3}})

	assertMoney(t, "4.00", out[0].DiscountAmount.Decimal)
	assert.Equal(t, "Buy 3 get cheapest free", out[0].DiscountLabel)
}

func TestCheapestFreeCombinesWithPerProductDiscount(t *testing.T) {
	offers := []Offer{
		PercentOff{ProductID: 4, Percent: decimal.NewFromInt(50)},
		CheapestFree{ProductIDs: []int64{4, 5}, Threshold: 2},
	}
	lines := []models.BasketLine{
		{ProductID: 5, Quantity: 1},
		{ProductID: 4, Quantity: 1},
	}
	out := discount(t, lines, offers)

	assert.False(t, out[0].Discounted())
	// 50% of 2.00 plus the whole 2.00 unit
	assertMoney(t, "3.00", out[1].DiscountAmount.Decimal)
	assert.Equal(t, "50% off, Buy 2 get cheapest free", out[1].DiscountLabel)
}

func TestCheapestFreeTiesKeepFirstSeenLine(t *testing.T) {
	products := []models.Product{
		{ID: 10, Name: "Red pen", Price: decimal.RequireFromString("1.00")},
		{ID: 11, Name: "Blue pen", Price: decimal.RequireFromString("1.00")},
	}
	lines := []models.BasketLine{
		{ProductID: 11, Quantity: 1},
		{ProductID: 10, Quantity: 1},
	}
	out := ApplyOffers(Resolve(products, lines), []Offer{CheapestFree{ProductIDs: []int64{10, 11}, Threshold: 2}})

	assert.True(t, out[0].Discounted())
	assert.False(t, out[1].Discounted())
}

func TestCheapestFreeCreditsLineNotProduct(t *testing.T) {
	lines := []models.BasketLine{
		{ProductID: 4, Quantity: 1},
		{ProductID: 6, Quantity: 1},
		{ProductID: 4, Quantity: 1},
	}
	out := discount(t, lines, []Offer{CheapestFree{ProductIDs: []int64{4, 6}, Threshold: 3}})

	assertMoney(t, "2.00", out[0].DiscountAmount.Decimal)
	assert.False(t, out[1].Discounted())
	assert.False(t, out[2].Discounted())
}

func TestOverlappingCheapestFreeOffersBothApply(t *testing.T) {
	offers := []Offer{
		CheapestFree{ProductIDs: []int64{4, 5}, Threshold: 2},
		CheapestFree{ProductIDs: []int64{4, 6}, Threshold: 2},
	}
	lines := []models.BasketLine{
		{ProductID: 4, Quantity: 1},
		{ProductID: 5, Quantity: 1},
		{ProductID: 6, Quantity: 1},
	}
	out := discount(t, lines, offers)

	// the small shampoo is the cheapest unit of both groups
	assertMoney(t, "4.00", out[0].DiscountAmount.Decimal)
	assert.Equal(t, "Buy 2 get cheapest free", out[0].DiscountLabel)
}

func TestOffersForMissingProductsAreInert(t *testing.T) {
	offers := []Offer{
		PercentOff{ProductID: 7, Percent: decimal.NewFromInt(50)},
		Multibuy{ProductID: 8, Threshold: 2},
		CheapestFree{ProductIDs: []int64{9}, Threshold: 1},
	}
	out := discount(t, []models.BasketLine{{ProductID: 2, Quantity: 4}}, offers)

	assert.False(t, out[0].Discounted())
}

func TestUnknownProductLineEarnsNoDiscount(t *testing.T) {
	offers := []Offer{
		Multibuy{ProductID: 99, Threshold: 1},
		CheapestFree{ProductIDs: []int64{99}, Threshold: 1},
	}
	out := discount(t, []models.BasketLine{{ProductID: 99, Quantity: 3}}, offers)

	require.Len(t, out, 1)
	assert.False(t, out[0].Discounted())
}

func TestNonPositiveQuantityEarnsNoDiscount(t *testing.T) {
	offers := []Offer{
		PercentOff{ProductID: 3, Percent: decimal.NewFromInt(25)},
		Multibuy{ProductID: 1, Threshold: 1},
		CheapestFree{ProductIDs: []int64{4}, Threshold: 1},
	}
	lines := []models.BasketLine{
		{ProductID: 3, Quantity: -2},
		{ProductID: 1, Quantity: -3},
		{ProductID: 4, Quantity: 0},
	}
	out := discount(t, lines, offers)

	for _, line := range out {
		assert.False(t, line.Discounted())
	}
}

type unsupportedOffer struct{}

func (unsupportedOffer) Label() string { return "mystery" }
func (unsupportedOffer) isOffer()      {}

func TestUnrecognisedOfferValuesAreIgnored(t *testing.T) {
	offers := []Offer{
		unsupportedOffer{},
		Multibuy{ProductID: 1, Threshold: 0},
		CheapestFree{ProductIDs: []int64{1}, Threshold: 0},
		PercentOff{ProductID: 1, Percent: decimal.NewFromInt(150)},
	}

	assert.NotPanics(t, func() {
		out := discount(t, []models.BasketLine{{ProductID: 1, Quantity: 3}}, offers)
		assert.False(t, out[0].Discounted())
	})
}

func TestApplyOffersIsIdempotent(t *testing.T) {
	lines := []models.BasketLine{
		{ProductID: 1, Quantity: 4},
		{ProductID: 3, Quantity: 2},
		{ProductID: 6, Quantity: 3},
		{ProductID: 4, Quantity: 2},
	}
	first := discount(t, lines, testOffers())

	enriched := make([]EnrichedLine, len(first))
	for i, line := range first {
		enriched[i] = line.EnrichedLine
	}
	second := ApplyOffers(enriched, testOffers())

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].DiscountLabel, second[i].DiscountLabel)
		assert.True(t, first[i].DiscountAmount.Decimal.Equal(second[i].DiscountAmount.Decimal))
	}
}

func TestApplyOffersDoesNotMutateInput(t *testing.T) {
	enriched := Resolve(testCatalogue(), []models.BasketLine{
		{ProductID: 6, Quantity: 3},
		{ProductID: 4, Quantity: 2},
	})
	snapshot := make([]EnrichedLine, len(enriched))
	copy(snapshot, enriched)

	_ = ApplyOffers(enriched, testOffers())

	assert.Equal(t, snapshot, enriched)
}

func TestApplyOffersPreservesOrder(t *testing.T) {
	lines := []models.BasketLine{
		{ProductID: 6, Quantity: 1},
		{ProductID: 2, Quantity: 1},
		{ProductID: 4, Quantity: 1},
		{ProductID: 5, Quantity: 1},
		{ProductID: 99, Quantity: 1},
	}
	out := discount(t, lines, testOffers())

	require.Len(t, out, len(lines))
	for i, line := range lines {
		assert.Equal(t, line.ProductID, out[i].ProductID)
	}
}

func TestApplyOffersEmpty(t *testing.T) {
	assert.Empty(t, ApplyOffers(nil, testOffers()))

	out := discount(t, []models.BasketLine{{ProductID: 2, Quantity: 1}}, nil)
	require.Len(t, out, 1)
	assert.False(t, out[0].Discounted())
}
