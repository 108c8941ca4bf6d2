// Command pricebasket prices a basket against a catalogue file and prints the
// receipt. Items are given as product:quantity pairs.
//
//	pricebasket -catalogue catalogue.json 6:3 4:2 5:1
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"basket-service/internal/catalogue"
	"basket-service/internal/models"
	"basket-service/internal/pricing"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

func main() {
	var (
		cataloguePath = flag.String("catalogue", "catalogue.json", "path to the catalogue file")
		currency      = flag.String("currency", "£", "currency symbol for display")
		verbose       = flag.Bool("v", false, "report offers skipped while loading the catalogue")
	)
	flag.Parse()

	lines, err := parseItems(flag.Args())
	if err != nil {
		log.Fatalf("parse items: %v", err)
	}

	cat, err := catalogue.NewFileSource(*cataloguePath).LoadCatalogue(context.Background())
	if err != nil {
		log.Fatalf("load catalogue: %v", err)
	}

	offers, err := pricing.DecodeOffers(cat.Offers)
	if err != nil && *verbose {
		for _, e := range multierr.Errors(err) {
			log.Printf("skipping %v", e)
		}
	}

	quote := pricing.Price(cat.Products, offers, lines)
	if err := printQuote(os.Stdout, *currency, quote); err != nil {
		log.Fatalf("print: %v", err)
	}
}

// parseItems turns product:quantity arguments into basket lines. A bare
// product id means a quantity of one.
func parseItems(args []string) ([]models.BasketLine, error) {
	lines := make([]models.BasketLine, 0, len(args))
	for _, arg := range args {
		idPart, qtyPart, hasQty := strings.Cut(arg, ":")

		id, err := strconv.ParseInt(idPart, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid product id in %q", arg)
		}

		qty := 1
		if hasQty {
			qty, err = strconv.Atoi(qtyPart)
			if err != nil || qty < 1 {
				return nil, fmt.Errorf("invalid quantity in %q", arg)
			}
		}

		lines = append(lines, models.BasketLine{ProductID: id, Quantity: qty})
	}
	return lines, nil
}

func printQuote(w io.Writer, symbol string, quote pricing.Quote) error {
	money := func(d decimal.Decimal) string {
		if d.IsNegative() {
			return "-" + symbol + d.Abs().StringFixed(2)
		}
		return symbol + d.StringFixed(2)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, line := range quote.Lines {
		if !line.Found() {
			fmt.Fprintf(tw, "%d x unknown product %d\t\t\n", line.Quantity, line.ProductID)
			continue
		}
		fmt.Fprintf(tw, "%d x %s\t%s\t\n", line.Quantity, line.Name, money(line.ExtendedPrice.Decimal))
		if line.Discounted() {
			fmt.Fprintf(tw, "  %s\t-%s\t\n", line.DiscountLabel, money(line.DiscountAmount.Decimal))
		}
	}

	totals := quote.Totals
	fmt.Fprintf(tw, "\t\t\n")
	fmt.Fprintf(tw, "Sub-total\t%s\t\n", money(totals.Subtotal))
	fmt.Fprintf(tw, "Discount\t%s\t\n", money(totals.DiscountTotal))
	fmt.Fprintf(tw, "Total (%d items)\t%s\t\n", totals.ItemCount, money(totals.Total))
	return tw.Flush()
}
