package api

import (
	"log"
	stdhttp "net/http"

	intconfig "backoffice/internal/config"
	"backoffice/internal/domain/models"
	h "backoffice/internal/http/handlers"
	"backoffice/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, secret []byte) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"success": false,
			"error":   "route not found",
			"code":    "not_found",
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)

		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		secured := api.Group("", middleware.Auth(secret))
		admin := middleware.RequireRoles(models.RoleAdmin)

		secured.GET("/routes", h.Routes)

		bookings := secured.Group("/bookings")
		bookings.POST("/preview", h.PreviewBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PUT("/:id", admin, h.UpdateBooking)
		bookings.POST("/:id/date-change", h.DateChangeBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
		bookings.GET("/:id/cancellation", h.GetCancellation)
		bookings.GET("/:id/instalments", h.ListInstalments)
		bookings.POST("/:id/settle", h.SettleBooking)
		bookings.POST("/:id/internal-invoices", h.CreateInternalInvoice)
		bookings.GET("/:id/internal-invoices", h.ListInternalInvoices)
		bookings.GET("/:id/statement", h.GetBookingStatement)

		pending := secured.Group("/pending-bookings")
		pending.POST("", h.CreatePendingBooking)
		pending.GET("", h.ListPendingBookings)
		pending.GET("/:id", h.GetPendingBooking)
		pending.POST("/:id/approve", admin, h.ApprovePendingBooking)
		pending.POST("/:id/reject", admin, h.RejectPendingBooking)

		secured.POST("/instalments/:id/payments", h.RecordInstalmentPayment)
		secured.POST("/cost-item-suppliers/:id/settlements", h.SettleCostItemSupplier)
		secured.POST("/supplier-payables/:id/settlements", h.SettleSupplierPayable)
		secured.POST("/customer-payables/:id/settlements", h.SettleCustomerPayable)
		secured.POST("/passenger-refunds/:id/payments", h.RecordPassengerRefund)

		creditNotes := secured.Group("/credit-notes")
		creditNotes.GET("/available", h.AvailableCreditNotes)
		creditNotes.GET("/:id", h.GetCreditNote)

		secured.GET("/internal-invoices/:id/receipt", h.GetInternalInvoiceReceipt)

		reports := secured.Group("/reports")
		reports.GET("/finance", h.GetFinanceReport)
	}

	h.SetRouter(r)
	return r
}
