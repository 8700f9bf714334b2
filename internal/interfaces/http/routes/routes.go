// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/varahajewels/ecommerce-backend/internal/config"
	"github.com/varahajewels/ecommerce-backend/internal/interfaces/http/handlers"
	"github.com/varahajewels/ecommerce-backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the router mounts
type Handlers struct {
	Auth     *handlers.AuthHandler
	Orders   *handlers.OrderHandler
	Tracking *handlers.TrackingHandler
	Shipping *handlers.ShippingHandler
	Payments *handlers.PaymentHandler
	Gateways *handlers.GatewayHandler
	Returns  *handlers.ReturnHandler
	Products *handlers.ProductHandler
	Coupons  *handlers.CouponHandler
	Reports  *handlers.ReportHandler
	Settings *handlers.SettingsHandler
	Monitor  *handlers.MonitorHandler
	Invoices *handlers.InvoiceHandler
}

// Setup mounts all application routes on the engine
func Setup(engine *gin.Engine, h *Handlers, cfg *config.Config) {
	// Carrier and gateway callbacks. Registered outside the versioned API
	// group because the webhook URLs are configured on external dashboards.
	webhooks := engine.Group("/api/webhook")
	{
		webhooks.POST("/rapidshyp", h.Tracking.Webhook)
		webhooks.POST("/razorpay", h.Payments.Webhook)
	}

	// Public tracking link, shared in notification emails
	engine.GET("/track/:order_id/:token", h.Tracking.PublicTrack)

	api := engine.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/admin/login", h.Auth.AdminLogin)
		auth.POST("/refresh", h.Auth.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", h.Auth.GetProfile)
			protected.PUT("/profile", h.Auth.UpdateProfile)
			protected.PUT("/password", h.Auth.ChangePassword)
		}
	}

	products := api.Group("/products")
	{
		products.GET("", h.Products.List)
		products.GET("/:id", h.Products.Get)
		products.GET("/:id/reviews", h.Products.ListReviews)
		products.POST("/:id/reviews", h.Products.CreateReview)
	}
	api.POST("/reviews/:id/helpful", h.Products.MarkReviewHelpful)

	api.POST("/coupons/validate", h.Coupons.Validate)
	api.GET("/settings", h.Settings.Get)
	api.POST("/shipping/serviceability", h.Shipping.CheckServiceability)

	// Checkout is open to guests; an authenticated request links the order
	// to the logged-in customer instead.
	api.POST("/orders", middleware.OptionalAuthMiddleware(cfg), h.Orders.CreateOrder)

	payment := api.Group("/payment")
	{
		payment.POST("/checkout", h.Payments.CreateCheckout)
		payment.POST("/verify", h.Payments.VerifyPayment)
	}

	customer := api.Group("")
	customer.Use(middleware.AuthMiddleware(cfg))
	{
		customer.GET("/orders", h.Orders.MyOrders)
		customer.PUT("/orders/:order_id/cancel", h.Orders.CancelOrder)
		customer.POST("/returns", h.Returns.CreateReturn)
		customer.GET("/returns", h.Returns.MyReturns)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		orders := admin.Group("/orders")
		{
			orders.GET("", h.Orders.AdminListOrders)
			orders.GET("/:order_id", h.Orders.AdminGetOrder)
			orders.PUT("/:order_id/status", h.Orders.AdminUpdateStatus)
			orders.POST("/:order_id/ship", h.Orders.AdminShipOrder)
			orders.PUT("/:order_id/cancel", h.Orders.AdminCancelOrder)
			orders.GET("/:order_id/tracking", h.Tracking.Track)
			orders.POST("/:order_id/tracking/refresh", h.Tracking.Refresh)
			orders.GET("/:order_id/invoice", h.Invoices.Download)
		}

		returns := admin.Group("/returns")
		{
			returns.GET("", h.Returns.AdminListReturns)
			returns.PUT("/:id", h.Returns.AdminUpdateReturn)
			returns.POST("/:id/refund", h.Returns.AdminProcessRefund)
			returns.POST("/:id/shipment", h.Returns.AdminCreateReturnShipment)
		}

		products := admin.Group("/products")
		{
			products.POST("", h.Products.AdminCreate)
			products.PUT("/:id", h.Products.AdminUpdate)
			products.DELETE("/:id", h.Products.AdminDelete)
			products.PUT("/:id/stock", h.Products.AdminAdjustStock)
		}
		admin.DELETE("/reviews/:id", h.Products.AdminDeleteReview)

		coupons := admin.Group("/coupons")
		{
			coupons.GET("", h.Coupons.AdminList)
			coupons.POST("", h.Coupons.AdminCreate)
			coupons.DELETE("/:id", h.Coupons.AdminDelete)
		}

		gateways := admin.Group("/gateways")
		{
			gateways.GET("", h.Gateways.List)
			gateways.POST("", h.Gateways.Create)
			gateways.PUT("/:id", h.Gateways.Update)
			gateways.DELETE("/:id", h.Gateways.Delete)
		}

		reports := admin.Group("/reports")
		{
			reports.GET("/sales", h.Reports.Sales)
			reports.GET("/gstr1", h.Reports.GSTR1)
		}

		admin.GET("/shipping/pickup-locations", h.Shipping.PickupLocations)
		admin.POST("/shipping/pickup-locations", h.Shipping.CreatePickupLocation)
		admin.PUT("/settings", h.Settings.Update)
		admin.GET("/monitor", h.Monitor.Snapshot)
	}
}
