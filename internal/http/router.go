// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"taxi123/internal/http/handlers"
	"taxi123/internal/http/middleware"
	"taxi123/internal/modules/invoice"
	"taxi123/internal/modules/receipt"
)

type RouterDeps struct {
	Invoice  *invoice.Service
	Receipts *receipt.Renderer
	Log      logrus.FieldLogger
	Token    string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(deps.Log), middleware.Logging(deps.Log), middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", middleware.Auth(deps.Token), middleware.BodyLimit(middleware.DefaultBodyLimit))

	fareHandler := handlers.NewFareHandler(deps.Invoice)
	api.POST("/fares/quote", fareHandler.Quote)

	invoiceHandler := handlers.NewInvoiceHandler(deps.Invoice, deps.Receipts)
	api.GET("/invoices", invoiceHandler.List)
	api.POST("/invoices", invoiceHandler.Create)
	api.GET("/invoices/:id", invoiceHandler.Get)
	api.DELETE("/invoices/:id", invoiceHandler.Delete)
	api.GET("/invoices/:id/receipt", invoiceHandler.Receipt)

	return r
}
