package routes

import (
	"leltar/internal/core/container"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router gin.IRouter, c *container.Container) {
	c.ProductHandler.RegisterRoutes(router)
	c.StockHandler.RegisterRoutes(router)
	c.UploadHandler.RegisterRoutes(router.Group("", c.UploadLimiter.Middleware(c.Logger)))
	c.TransferHandler.RegisterRoutes(router)
	c.ReconcileHandler.RegisterRoutes(router)
	c.ReportHandler.RegisterRoutes(router)
	c.HistoryHandler.RegisterRoutes(router)
}

func RegisterUtilityRoutes(router gin.IRouter, c *container.Container) {
	router.GET("/health", c.Health.Handler())
	router.GET("/metrics", gin.WrapH(c.Metrics.Handler()))
}
