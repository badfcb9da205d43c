package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ojasshelke/product-detail-mini-cart/internal/http/middleware"
	"github.com/ojasshelke/product-detail-mini-cart/internal/modules/catalog"
)

// ProductsHandler serves the product data the widget renders from.
type ProductsHandler struct {
	Loader *catalog.Loader
}

func NewProductsHandler(loader *catalog.Loader) *ProductsHandler {
	return &ProductsHandler{Loader: loader}
}

// Get handles GET /api/products - resolves product data through the fallback
// chain on every request, so a recovered remote source is picked up without a
// restart.
func (h *ProductsHandler) Get(c *gin.Context) {
	p, err := h.Loader.Load(c.Request.Context())
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
