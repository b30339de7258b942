// Package httpapi assembles the gin router: route table, authentication,
// CORS, tracing middleware, and the Problem Details error mapping.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/billfinity/backoffice/internal/auth"
	catalogports "github.com/billfinity/backoffice/internal/domains/catalog/ports"
	customerports "github.com/billfinity/backoffice/internal/domains/customers/ports"
	orderports "github.com/billfinity/backoffice/internal/domains/orders/ports"
	settingsports "github.com/billfinity/backoffice/internal/domains/settings/ports"
	userports "github.com/billfinity/backoffice/internal/domains/users/ports"
	"github.com/billfinity/backoffice/internal/realtime"
)

// Services groups the application services exposed over HTTP.
type Services struct {
	Customers customerports.Service
	Catalog   catalogports.Service
	Orders    orderports.Service
	Users     userports.Service
	Settings  settingsports.Service
}

// RouterConfig carries everything NewRouter needs beyond the services.
type RouterConfig struct {
	ServiceName      string
	Issuer           *auth.Issuer
	AuthDisabled     bool
	CORSAllowOrigins []string
	Hub              *realtime.Hub
	Logger           *slog.Logger
}

// NewRouter builds the gin engine with the full route table. Login and health
// stay public; everything else sits behind the auth middleware.
func NewRouter(services Services, cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	responder := newResponder()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORSAllowOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	customers := newCustomerHandler(services.Customers, responder)
	items := newItemHandler(services.Catalog, responder)
	orders := newOrderHandler(services.Orders, responder)
	users := newUserHandler(services.Users, cfg.Issuer, responder)
	settings := newSettingsHandler(services.Settings, responder)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/users/login", users.login)
	router.GET("/ws/orders", realtime.WebsocketHandler(cfg.Hub, logger))

	authed := router.Group("/")
	authed.Use(authMiddleware(cfg.Issuer, services.Users, cfg.AuthDisabled, responder, logger))
	{
		authed.GET("/users", users.list)
		authed.POST("/users", users.create)

		authed.GET("/customers", customers.list)
		authed.POST("/customers", customers.create)
		authed.GET("/customers/:id", customers.get)
		authed.PATCH("/customers/:id", customers.update)
		authed.DELETE("/customers/:id", customers.delete)

		authed.GET("/items", items.list)
		authed.POST("/items", items.create)
		authed.GET("/items/:id", items.get)
		authed.PATCH("/items/:id", items.update)
		authed.PATCH("/items/:id/stock", items.setStock)
		authed.DELETE("/items/:id", items.delete)

		authed.GET("/orders", orders.list)
		authed.POST("/orders", orders.create)
		authed.GET("/orders/:id", orders.get)
		authed.POST("/orders/:id/complete", orders.complete)

		authed.GET("/settings", settings.get)
		authed.PUT("/settings", settings.update)
	}

	return router
}
