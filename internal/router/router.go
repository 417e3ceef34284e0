package router

import (
	"net/http"

	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	bomH "github.com/fekuna/omnipos-inventory-service/internal/bom/handler"
	"github.com/fekuna/omnipos-inventory-service/internal/metrics"
	partH "github.com/fekuna/omnipos-inventory-service/internal/part/handler"
	poH "github.com/fekuna/omnipos-inventory-service/internal/purchaseorder/handler"
	scanH "github.com/fekuna/omnipos-inventory-service/internal/scan/handler"
	supplierH "github.com/fekuna/omnipos-inventory-service/internal/supplier/handler"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Part          *partH.PartHandler
	BOM           *bomH.BOMHandler
	Supplier      *supplierH.SupplierHandler
	PurchaseOrder *poH.PurchaseOrderHandler
	Scan          *scanH.ScanHandler
}

type Options struct {
	AllowedOrigins []string
}

func New(h *Handlers, opts Options, log logger.ZapLogger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.RequestMetrics(metrics.HTTPRequestDuration))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = opts.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", auth.HeaderStoreID, auth.HeaderUserID}
	corsConfig.AllowCredentials = true
	if len(corsConfig.AllowOrigins) > 0 {
		r.Use(cors.New(corsConfig))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1", auth.RequireStore())

	parts := api.Group("/parts")
	parts.POST("", h.Part.CreatePart)
	parts.GET("", h.Part.ListParts)
	parts.GET("/low-stock", h.Part.ListLowStock)
	parts.GET("/:id", h.Part.GetPart)
	parts.PATCH("/:id", h.Part.UpdatePart)
	parts.DELETE("/:id", h.Part.DeletePart)
	parts.POST("/:id/adjust", h.Part.AdjustStock)
	parts.GET("/:id/movements", h.Part.ListMovements)

	products := api.Group("/products/:product_id")
	products.GET("/bom", h.BOM.ListLines)
	products.POST("/bom", h.BOM.AddLine)
	products.GET("/buildability", h.BOM.GetBuildability)
	products.GET("/fulfillability", h.BOM.CheckFulfillability)
	api.PATCH("/bom-lines/:id", h.BOM.UpdateQuantity)
	api.DELETE("/bom-lines/:id", h.BOM.RemoveLine)
	api.POST("/buildability", h.BOM.BatchBuildability)

	suppliers := api.Group("/suppliers")
	suppliers.POST("", h.Supplier.CreateSupplier)
	suppliers.GET("", h.Supplier.ListSuppliers)
	suppliers.GET("/:id", h.Supplier.GetSupplier)
	suppliers.PATCH("/:id", h.Supplier.UpdateSupplier)
	suppliers.DELETE("/:id", h.Supplier.DeleteSupplier)

	orders := api.Group("/purchase-orders")
	orders.POST("", h.PurchaseOrder.CreatePO)
	orders.GET("", h.PurchaseOrder.ListPOs)
	orders.GET("/:id", h.PurchaseOrder.GetPO)
	orders.DELETE("/:id", h.PurchaseOrder.DeletePO)
	orders.POST("/:id/send", h.PurchaseOrder.MarkSent)
	orders.POST("/:id/receive", h.PurchaseOrder.MarkReceived)

	scan := api.Group("/scan")
	scan.GET("/resolve", h.Scan.Resolve)
	scan.GET("/search", h.Scan.Search)
	scan.GET("/history", h.Scan.History)
	scan.POST("/parts/:id/adjust", h.Scan.Adjust)

	return r
}
