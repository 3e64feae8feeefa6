package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"

	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/Saihna0731/PlayZone-MN-sub000/internal/handler"    // import the handlers that implement business logic
	"github.com/Saihna0731/PlayZone-MN-sub000/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/Saihna0731/PlayZone-MN-sub000/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check,
// which also pings the database when a handle is supplied.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotating refresh: exchanges the refresh token for a new pair.
	g.POST("/refresh", a.Refresh)
	// Non-rotating variant: issues a fresh access token only.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a bearer (revoke all sessions) or a
	// refresh_token in the body (revoke one session).
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleUser, model.RoleCenterOwner, model.RoleAdmin))
	auth.GET("/me", a.Me)

	// Kept at the top level as well so clients can log out without a JWT.
	e.POST("/v1/logout", a.Logout)
}

// RegisterBookings registers the booking lifecycle under /v1/bookings.
// Everything requires a valid access token; the retention trigger
// additionally requires the shared API key so only the cron relay (or
// an operator who knows the key) can fire it.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret, apiKey string) {
	g := e.Group("/v1/bookings")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleUser, model.RoleCenterOwner, model.RoleAdmin))

	g.POST("", b.Create)
	g.GET("/my", b.My)
	// Center owners read their own center's schedule; admins any.
	g.GET("/center/:id", b.ByCenter)
	g.PUT("/:id/status", b.UpdateStatus)
	// Run-once retention pass, designed for an external cron.
	g.DELETE("/cleanup/old", b.CleanupOld, middleware.RequireAPIKey(apiKey))
}

// RegisterPayments registers the claim-code and reconciliation surface
// under /v1/payment.  The webhook is machine-to-machine and protected
// by the shared API key instead of a JWT.
func RegisterPayments(e *echo.Echo, p *handler.PaymentHandler, jwtSecret, apiKey string) {
	g := e.Group("/v1/payment")

	// Inbound payment notifications from the SMS forwarder.
	g.POST("/sms-notify", p.SmsNotify, middleware.RequireAPIKey(apiKey))

	auth := g.Group("")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleUser, model.RoleCenterOwner, model.RoleAdmin))
	auth.POST("/generate-code", p.GenerateCode)
	auth.GET("/subscription-status", p.SubscriptionStatus)
}

// RegisterSubscriptions registers the self-service subscription routes
// under /v1/subscription.  The public plan list takes an optional
// response-cache middleware; pass nil when Redis is unavailable.
func RegisterSubscriptions(e *echo.Echo, s *handler.SubscriptionHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	if cache != nil {
		e.GET("/v1/subscription/plans", s.Plans, cache)
	} else {
		e.GET("/v1/subscription/plans", s.Plans)
	}

	g := e.Group("/v1/subscription")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleUser, model.RoleCenterOwner, model.RoleAdmin))
	g.GET("/me", s.Me)
	g.POST("/upgrade", s.Upgrade)
	g.POST("/cancel", s.Cancel)
	// Plan override without payment, admins only.
	g.POST("/admin/set-plan", s.AdminSetPlan, middleware.RequireRole(model.RoleAdmin))
}

// RegisterQPay registers the gateway purchase flow under /v1/qpay.  The
// callback is public: QPay calls it server-to-server, and the handler
// re-verifies the payment with the gateway before trusting it.
func RegisterQPay(e *echo.Echo, q *handler.QPayHandler, jwtSecret string) {
	e.POST("/v1/qpay/callback", q.Callback)

	g := e.Group("/v1/qpay")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleUser, model.RoleCenterOwner, model.RoleAdmin))
	g.POST("/create-invoice", q.CreateInvoice)
	g.POST("/check-payment", q.CheckPayment)
	g.GET("/invoice/:id", q.GetInvoice)
	g.GET("/my-invoices", q.MyInvoices)
}
