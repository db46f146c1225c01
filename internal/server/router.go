// Package server assembles the gin engine for the till.
package server

import (
	"context"
	"net/http"
	"time"

	"go-pos-terminal/internal/app"
	"go-pos-terminal/internal/handlers"
	"go-pos-terminal/internal/middleware"
	"go-pos-terminal/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter mounts every route on a fresh engine.
func NewRouter(a *app.App) *gin.Engine {
	if a.Config.App.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	h := handlers.New(a)
	logg := a.Log

	r := gin.New()
	r.Use(
		middleware.RequestID(logg),
		middleware.Recoverer(logg),
		middleware.Logging(logg, a.Metrics),
		cors.New(cors.Config{
			AllowOrigins:     a.Config.App.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})))
	r.Static("/uploads", a.Config.App.UploadDir)

	// login and logout change the terminal session, so they queue with /api
	serialize := middleware.Serialize()
	r.POST("/login", serialize, h.Login)
	r.POST("/logout", serialize, h.Logout)

	requireAuth := middleware.RequireAuth(a.Tokens, a.Gate, logg)
	managers := middleware.RequireRole(logg, models.RoleAdmin, models.RoleManager)

	if a.Config.Features.AllowRegistration {
		r.POST("/register", serialize, requireAuth, middleware.RequireRole(logg, models.RoleAdmin), h.Register)
		logg.Warn(context.Background(), "registration.route.open")
	}

	api := r.Group("/api", serialize, requireAuth)
	{
		api.GET("/me", h.Me)

		products := api.Group("/products")
		products.GET("", h.ListProducts)
		products.GET("/categories", h.Categories)
		products.GET("/low-stock", h.LowStock)
		products.GET("/scan/:barcode", h.ScanProduct)
		products.GET("/:id", h.GetProduct)
		products.POST("", managers, h.CreateProduct)
		products.PUT("/:id", managers, h.UpdateProduct)
		products.DELETE("/:id", managers, h.DeleteProduct)
		products.POST("/:id/stock", managers, h.AdjustStock)
		api.POST("/upload", managers, h.UploadImage)

		cartGroup := api.Group("/cart")
		cartGroup.GET("", h.GetCart)
		cartGroup.DELETE("", h.ClearCart)
		cartGroup.POST("/items", h.AddCartItem)
		cartGroup.PUT("/items/:id", h.UpdateCartItem)
		cartGroup.DELETE("/items/:id", h.RemoveCartItem)
		cartGroup.PUT("/discount", h.SetDiscount)

		api.POST("/checkout", h.Checkout)

		api.GET("/shift", h.CurrentShift)
		api.POST("/shift/open", h.OpenShift)
		api.POST("/shift/close", h.CloseShift)
		api.GET("/shift/summary", h.ShiftSummary)
		api.GET("/shifts", h.ShiftHistory)

		api.GET("/receipts", h.ListReceipts)
		api.GET("/receipts/last", h.LastReceipt)
		api.GET("/receipts/:id", h.GetReceipt)

		reports := api.Group("/reports", managers)
		reports.GET("/dashboard", h.Dashboard)
		reports.GET("/sales", h.SalesReport)
		reports.GET("/valuation", h.StockValuation)
		reports.GET("/top-selling", h.TopSelling)
	}

	return r
}
