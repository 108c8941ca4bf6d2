package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"basket-service/internal/models"
	"basket-service/internal/service"
	"basket-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	basketService    *service.BasketService
	catalogueService *service.CatalogueService
	currencySymbol   string
	readiness        map[string]func(context.Context) error
	logger           *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(basketService *service.BasketService, catalogueService *service.CatalogueService, currencySymbol string) *Handler {
	return &Handler{
		basketService:    basketService,
		catalogueService: catalogueService,
		currencySymbol:   currencySymbol,
		readiness:        make(map[string]func(context.Context) error),
		logger:           util.GetLogger(),
	}
}

// AddReadinessCheck registers a dependency that must be reachable for /ready
func (h *Handler) AddReadinessCheck(name string, check func(context.Context) error) {
	h.readiness[name] = check
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/catalogue", h.getCatalogue)
		v1.POST("/catalogue/refresh", h.refreshCatalogue)
		v1.PUT("/catalogue/products/:id", h.upsertProduct)
		v1.POST("/catalogue/offers", h.createOffer)
		v1.DELETE("/catalogue/offers/:id", h.deactivateOffer)
		v1.POST("/basket/price", h.priceBasket)
		v1.POST("/basket/modify", h.modifyBasket)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck reports ready once dependencies answer and a catalogue can be served
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	failures := gin.H{}
	for name, check := range h.readiness {
		if err := check(ctx); err != nil {
			failures[name] = err.Error()
		}
	}
	if _, err := h.catalogueService.Snapshot(ctx); err != nil {
		failures["catalogue"] = err.Error()
	}

	if len(failures) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not ready",
			"details": failures,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) getCatalogue(c *gin.Context) {
	snap, err := h.catalogueService.Snapshot(c.Request.Context())
	if err != nil {
		h.respondError(c, "Failed to load catalogue", err)
		return
	}

	c.JSON(http.StatusOK, newCatalogueResponse(h.currencySymbol, snap))
}

func (h *Handler) refreshCatalogue(c *gin.Context) {
	reason := c.DefaultQuery("reason", "manual refresh")
	if err := h.catalogueService.Refresh(c.Request.Context(), reason); err != nil {
		h.respondError(c, "Failed to refresh catalogue", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "refreshed"})
}

type productRequest struct {
	Name  string          `json:"name" binding:"required"`
	Price decimal.Decimal `json:"price"`
}

func (h *Handler) upsertProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	product := &models.Product{ID: id, Name: req.Name, Price: req.Price}
	if err := h.catalogueService.UpsertProduct(c.Request.Context(), product); err != nil {
		h.respondError(c, "Failed to save product", err)
		return
	}

	c.JSON(http.StatusOK, productResponse{
		ID:    product.ID,
		Name:  product.Name,
		Price: formatMoney(h.currencySymbol, product.Price),
	})
}

type offerRequest struct {
	Type       string              `json:"type" binding:"required,oneof=discount multibuy cheapest"`
	ProductID  *int64              `json:"product_id"`
	ProductIDs []int64             `json:"product_ids"`
	Threshold  int                 `json:"threshold"`
	Value      decimal.NullDecimal `json:"value"`
}

func (h *Handler) createOffer(c *gin.Context) {
	var req offerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	offer := &models.OfferRecord{
		Type:       req.Type,
		ProductID:  req.ProductID,
		ProductIDs: pq.Int64Array(req.ProductIDs),
		Threshold:  req.Threshold,
		Value:      req.Value,
	}
	if err := h.catalogueService.CreateOffer(c.Request.Context(), offer); err != nil {
		h.respondError(c, "Failed to create offer", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": offer.ID})
}

func (h *Handler) deactivateOffer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offer ID"})
		return
	}

	if err := h.catalogueService.DeactivateOffer(c.Request.Context(), id); err != nil {
		h.respondError(c, "Failed to deactivate offer", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// priceBasket prices the submitted basket
func (h *Handler) priceBasket(c *gin.Context) {
	var req service.PriceBasketRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if req.RequestID == "" {
		req.RequestID = c.GetHeader("X-Request-ID")
	}

	priced, err := h.basketService.Price(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, "Failed to price basket", err)
		return
	}

	c.JSON(http.StatusOK, newBasketResponse(h.currencySymbol, priced))
}

// modifyBasket applies a quantity change and returns the repriced basket
func (h *Handler) modifyBasket(c *gin.Context) {
	var req service.ModifyBasketRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if req.RequestID == "" {
		req.RequestID = c.GetHeader("X-Request-ID")
	}

	priced, err := h.basketService.Modify(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, "Failed to modify basket", err)
		return
	}

	c.JSON(http.StatusOK, newBasketResponse(h.currencySymbol, priced))
}

func (h *Handler) respondError(c *gin.Context, msg string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidBasket),
		errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, service.ErrInvalidOffer):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrCatalogueReadOnly):
		status = http.StatusNotImplemented
	case errors.Is(err, service.ErrCatalogueUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, zap.String("path", c.FullPath()), zap.Error(err))
	}

	c.JSON(status, gin.H{
		"error":   msg,
		"details": err.Error(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
