package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BasketsPricedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "baskets_priced_total",
		Help: "Total number of baskets priced",
	})

	BasketPricingLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "basket_pricing_latency_seconds",
		Help:    "Latency of pricing a basket, including catalogue lookup",
		Buckets: prometheus.DefBuckets,
	})

	BasketDiscountAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "basket_discount_amount",
		Help:    "Discount total per priced basket, in currency units",
		Buckets: []float64{0, 0.5, 1, 2, 5, 10, 20, 50},
	})

	BasketLinesUnknownProduct = promauto.NewCounter(prometheus.CounterOpts{
		Name: "basket_lines_unknown_product_total",
		Help: "Total number of basket lines referencing products missing from the catalogue",
	})

	OffersSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "offers_skipped_total",
		Help: "Total number of offer records skipped while decoding the catalogue",
	}, []string{"reason"})

	CatalogueCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalogue_cache_requests_total",
		Help: "Catalogue cache lookups by result",
	}, []string{"result"})

	CatalogueRefreshTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalogue_refresh_total",
		Help: "Total number of catalogue cache refreshes requested",
	})

	CatalogueEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalogue_events_total",
		Help: "Catalogue events handled by outcome",
	}, []string{"outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
