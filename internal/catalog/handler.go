package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	State  *State
	Logger *zap.Logger
}

func NewProductHandler(state *State, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{State: state, Logger: logger}
}

func (h *ProductHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/products", h.GetProducts)
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	if err := h.State.Refresh(c.Request.Context()); err != nil {
		h.Logger.Error("Failed to load products", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	products, err := h.State.Products()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}
