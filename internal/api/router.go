package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openfreight/carrier-gateway/internal/api/handler"
	"github.com/openfreight/carrier-gateway/internal/api/middleware"
	"github.com/openfreight/carrier-gateway/internal/core/ports"
	"github.com/openfreight/carrier-gateway/internal/core/service"
)

// Deps bundles the collaborators the router wires into handlers.
type Deps struct {
	Registry  *service.Registry
	Shipping  ports.ShippingService
	Mongo     *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("carrier_gateway"))

	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Handlers ---
	rateHandler := handler.NewRateHandler(deps.Registry)
	trackingHandler := handler.NewTrackingHandler(deps.Registry)
	addressHandler := handler.NewAddressHandler(deps.Registry)
	shipmentHandler := handler.NewShipmentHandler(deps.Shipping)

	// --- Authenticated API ---
	v1 := e.Group("/v1", middleware.Auth(deps.JWTSecret))

	v1.POST("/rates", rateHandler.Find)
	v1.GET("/tracking/:carrier/:tracking_number", trackingHandler.Get)
	v1.POST("/address-validations", addressHandler.Validate)

	v1.POST("/shipments", shipmentHandler.Book)
	v1.DELETE("/shipments/:shipment_id", shipmentHandler.Void)
	v1.GET("/shipments/:shipment_id/high-value-report", shipmentHandler.GetHighValueReport)
	v1.GET("/labels/:tracking_number", shipmentHandler.GetLabel)

	return e
}
