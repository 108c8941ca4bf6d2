package pricing

import (
	"testing"

	"basket-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalogue() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Baked Beans", Price: decimal.RequireFromString("0.99")},
		{ID: 2, Name: "Biscuits", Price: decimal.RequireFromString("1.20")},
		{ID: 3, Name: "Sardines", Price: decimal.RequireFromString("1.89")},
		{ID: 4, Name: "Shampoo (Small)", Price: decimal.RequireFromString("2.00")},
		{ID: 5, Name: "Shampoo (Medium)", Price: decimal.RequireFromString("2.50")},
		{ID: 6, Name: "Shampoo (Large)", Price: decimal.RequireFromString("3.50")},
	}
}

func testOffers() []Offer {
	return []Offer{
		Multibuy{ProductID: 1, Threshold: 3},
		PercentOff{ProductID: 3, Percent: decimal.NewFromInt(25)},
		CheapestFree{ProductIDs: []int64{4, 5, 6}, Threshold: 3},
		PercentOff{ProductID: 7, Percent: decimal.NewFromInt(50)},
	}
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2))
}

func TestResolve(t *testing.T) {
	lines := []models.BasketLine{
		{ProductID: 6, Quantity: 3},
		{ProductID: 4, Quantity: 2},
		{ProductID: 5, Quantity: 1},
	}

	enriched := Resolve(testCatalogue(), lines)
	require.Len(t, enriched, 3)

	assert.Equal(t, "Shampoo (Large)", enriched[0].Name)
	assertMoney(t, "3.50", enriched[0].UnitPrice.Decimal)
	assertMoney(t, "10.50", enriched[0].ExtendedPrice.Decimal)

	assert.Equal(t, int64(4), enriched[1].ProductID)
	assertMoney(t, "4.00", enriched[1].ExtendedPrice.Decimal)

	assert.Equal(t, "Shampoo (Medium)", enriched[2].Name)
	assertMoney(t, "2.50", enriched[2].ExtendedPrice.Decimal)
}

func TestResolveUnknownProduct(t *testing.T) {
	enriched := Resolve(testCatalogue(), []models.BasketLine{{ProductID: 99, Quantity: 2}})
	require.Len(t, enriched, 1)

	line := enriched[0]
	assert.False(t, line.Found())
	assert.Empty(t, line.Name)
	assert.False(t, line.UnitPrice.Valid)
	assert.False(t, line.ExtendedPrice.Valid)
	assert.Equal(t, 2, line.Quantity)
}

func TestResolveKeepsDuplicateLines(t *testing.T) {
	lines := []models.BasketLine{
		{ProductID: 1, Quantity: 1},
		{ProductID: 2, Quantity: 1},
		{ProductID: 1, Quantity: 2},
	}

	enriched := Resolve(testCatalogue(), lines)
	require.Len(t, enriched, 3)
	assertMoney(t, "0.99", enriched[0].ExtendedPrice.Decimal)
	assertMoney(t, "1.98", enriched[2].ExtendedPrice.Decimal)
}

func TestResolveNonPositiveQuantity(t *testing.T) {
	enriched := Resolve(testCatalogue(), []models.BasketLine{
		{ProductID: 2, Quantity: 0},
		{ProductID: 2, Quantity: -2},
	})

	assertMoney(t, "0.00", enriched[0].ExtendedPrice.Decimal)
	assertMoney(t, "-2.40", enriched[1].ExtendedPrice.Decimal)
}

func TestResolveExactMoney(t *testing.T) {
	products := []models.Product{{ID: 1, Name: "Penny sweet", Price: decimal.RequireFromString("0.10")}}

	enriched := Resolve(products, []models.BasketLine{{ProductID: 1, Quantity: 3}})
	assert.True(t, decimal.RequireFromString("0.30").Equal(enriched[0].ExtendedPrice.Decimal))
}

func TestResolveEmptyInputs(t *testing.T) {
	assert.Empty(t, Resolve(nil, nil))
	assert.Empty(t, Resolve(testCatalogue(), []models.BasketLine{}))

	enriched := Resolve(nil, []models.BasketLine{{ProductID: 1, Quantity: 1}})
	require.Len(t, enriched, 1)
	assert.False(t, enriched[0].Found())
}
