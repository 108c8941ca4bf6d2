package api

import (
	"basket-service/internal/models"
	"basket-service/internal/pricing"
	"basket-service/internal/service"

	"github.com/shopspring/decimal"
)

// Money is an amount as a fixed two-place string plus a display form
type Money struct {
	Amount  string `json:"amount"`
	Display string `json:"display"`
}

type lineResponse struct {
	ProductID      int64  `json:"product_id"`
	Quantity       int    `json:"quantity"`
	Name           string `json:"name,omitempty"`
	Known          bool   `json:"known"`
	UnitPrice      *Money `json:"unit_price"`
	ExtendedPrice  *Money `json:"extended_price"`
	DiscountLabel  string `json:"discount_label,omitempty"`
	DiscountAmount *Money `json:"discount_amount,omitempty"`
}

type totalsResponse struct {
	Subtotal  Money `json:"subtotal"`
	Discount  Money `json:"discount"`
	Total     Money `json:"total"`
	ItemCount int   `json:"item_count"`
}

type basketResponse struct {
	RequestID       string              `json:"request_id"`
	Items           []models.BasketLine `json:"items"`
	Lines           []lineResponse      `json:"lines"`
	Totals          totalsResponse      `json:"totals"`
	UnknownProducts []int64             `json:"unknown_products,omitempty"`
}

type productResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price Money  `json:"price"`
}

type offerResponse struct {
	Type       string  `json:"type"`
	Label      string  `json:"label"`
	ProductIDs []int64 `json:"product_ids"`
	Threshold  int     `json:"threshold,omitempty"`
	Percent    string  `json:"percent,omitempty"`
}

type catalogueResponse struct {
	Products []productResponse `json:"products"`
	Offers   []offerResponse   `json:"offers"`
}

func formatMoney(symbol string, d decimal.Decimal) Money {
	display := symbol + d.Abs().StringFixed(2)
	if d.IsNegative() {
		display = "-" + display
	}
	return Money{Amount: d.StringFixed(2), Display: display}
}

func formatNullMoney(symbol string, d decimal.NullDecimal) *Money {
	if !d.Valid {
		return nil
	}
	m := formatMoney(symbol, d.Decimal)
	return &m
}

func newBasketResponse(symbol string, priced *service.PricedBasket) basketResponse {
	lines := make([]lineResponse, 0, len(priced.Quote.Lines))
	for _, line := range priced.Quote.Lines {
		lines = append(lines, lineResponse{
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			Name:           line.Name,
			Known:          line.Found(),
			UnitPrice:      formatNullMoney(symbol, line.UnitPrice),
			ExtendedPrice:  formatNullMoney(symbol, line.ExtendedPrice),
			DiscountLabel:  line.DiscountLabel,
			DiscountAmount: formatNullMoney(symbol, line.DiscountAmount),
		})
	}

	totals := priced.Quote.Totals
	return basketResponse{
		RequestID: priced.RequestID,
		Items:     priced.Items,
		Lines:     lines,
		Totals: totalsResponse{
			Subtotal:  formatMoney(symbol, totals.Subtotal),
			Discount:  formatMoney(symbol, totals.DiscountTotal),
			Total:     formatMoney(symbol, totals.Total),
			ItemCount: totals.ItemCount,
		},
		UnknownProducts: priced.UnknownProducts,
	}
}

func newCatalogueResponse(symbol string, snap *service.Snapshot) catalogueResponse {
	products := make([]productResponse, 0, len(snap.Products))
	for _, p := range snap.Products {
		products = append(products, productResponse{
			ID:    p.ID,
			Name:  p.Name,
			Price: formatMoney(symbol, p.Price),
		})
	}

	offers := make([]offerResponse, 0, len(snap.Offers))
	for _, offer := range snap.Offers {
		resp := offerResponse{Label: offer.Label()}
		switch o := offer.(type) {
		case pricing.PercentOff:
			resp.Type = models.OfferTypeDiscount
			resp.ProductIDs = []int64{o.ProductID}
			resp.Percent = o.Percent.String()
		case pricing.Multibuy:
			resp.Type = models.OfferTypeMultibuy
			resp.ProductIDs = []int64{o.ProductID}
			resp.Threshold = o.Threshold
		case pricing.CheapestFree:
			resp.Type = models.OfferTypeCheapest
			resp.ProductIDs = o.ProductIDs
			resp.Threshold = o.Threshold
		}
		offers = append(offers, resp)
	}

	return catalogueResponse{Products: products, Offers: offers}
}
