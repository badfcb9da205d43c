package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ojasshelke/product-detail-mini-cart/internal/http/cartsession"
	"github.com/ojasshelke/product-detail-mini-cart/internal/http/middleware"
	"github.com/ojasshelke/product-detail-mini-cart/internal/http/validation"
	"github.com/ojasshelke/product-detail-mini-cart/internal/modules/cart"
	"github.com/ojasshelke/product-detail-mini-cart/internal/shared/apperr"
)

// CartHandler handles the session cart API (GET /api/cart and mutations).
type CartHandler struct {
	Registry     *cart.Registry
	Sessions     *cartsession.Codec
	VariantNames map[string]string
}

func NewCartHandler(reg *cart.Registry, sessions *cartsession.Codec, variantNames map[string]string) *CartHandler {
	return &CartHandler{Registry: reg, Sessions: sessions, VariantNames: variantNames}
}

type addItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	VariantID string  `json:"variantId" binding:"required"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
	Image     string  `json:"image"`
}

type itemKeyRequest struct {
	ProductID string `json:"productId" binding:"required"`
	VariantID string `json:"variantId" binding:"required"`
}

type updateQtyRequest struct {
	ProductID string `json:"productId" binding:"required"`
	VariantID string `json:"variantId" binding:"required"`
	Qty       int    `json:"qty"`
}

// Get handles GET /api/cart - returns the session's cart view.
func (h *CartHandler) Get(c *gin.Context) {
	ledger := h.ledger(c)
	c.JSON(http.StatusOK, cart.BuildCartPage(ledger.Items(), h.VariantNames))
}

// Add handles POST /api/cart/items - merges an item into the cart.
func (h *CartHandler) Add(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Item must have productId and variantId.", fields))
		return
	}

	sessionID := h.Sessions.GetOrCreate(c)
	ledger := h.Registry.Ledger(c.Request.Context(), sessionID)

	// Rapid double-click on "add to cart" lands twice within the suppression
	// window; the duplicate is dropped, not an error.
	if h.Registry.AllowAdd(sessionID, req.ProductID, req.VariantID) {
		if err := ledger.AddItem(c.Request.Context(), cart.Entry{
			ProductID: req.ProductID,
			VariantID: req.VariantID,
			Title:     req.Title,
			UnitPrice: req.Price,
			Quantity:  req.Qty,
			Image:     req.Image,
		}); err != nil {
			middleware.Fail(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, cart.BuildCartPage(ledger.Items(), h.VariantNames))
}

// Update handles POST /api/cart/items/update - sets a line's quantity.
func (h *CartHandler) Update(c *gin.Context) {
	var req updateQtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Item must have productId and variantId.", fields))
		return
	}

	ledger := h.ledger(c)
	ledger.UpdateQuantity(c.Request.Context(), req.ProductID, req.VariantID, req.Qty)
	c.JSON(http.StatusOK, cart.BuildCartPage(ledger.Items(), h.VariantNames))
}

// Remove handles POST /api/cart/items/remove - drops a line from the cart.
func (h *CartHandler) Remove(c *gin.Context) {
	var req itemKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Item must have productId and variantId.", fields))
		return
	}

	ledger := h.ledger(c)
	ledger.RemoveItem(c.Request.Context(), req.ProductID, req.VariantID)
	c.JSON(http.StatusOK, cart.BuildCartPage(ledger.Items(), h.VariantNames))
}

// Clear handles POST /api/cart/clear - empties the cart.
func (h *CartHandler) Clear(c *gin.Context) {
	ledger := h.ledger(c)
	ledger.Clear(c.Request.Context())
	c.JSON(http.StatusOK, cart.BuildCartPage(ledger.Items(), h.VariantNames))
}

// Badge handles GET /api/cart/badge - the cached item count for the header
// badge. Sessions that never touched the cart read as zero without hydrating.
func (h *CartHandler) Badge(c *gin.Context) {
	count := 0
	if id, ok := h.Sessions.Get(c); ok {
		count = h.Registry.Count(id)
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *CartHandler) ledger(c *gin.Context) *cart.Ledger {
	sessionID := h.Sessions.GetOrCreate(c)
	return h.Registry.Ledger(c.Request.Context(), sessionID)
}
