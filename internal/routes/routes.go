// internal/routes/routes.go
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"printer-service/internal/config"
	"printer-service/internal/handler"
	"printer-service/internal/middleware"
	"printer-service/internal/service"
	"printer-service/internal/spooler"
	"printer-service/internal/utils"
)

// Router holds all dependencies for routing
type Router struct {
	config           *config.Config
	logger           *zap.Logger
	client           spooler.Client
	printerService   *service.PrinterService
	deviceService    *service.DeviceService
	diagnosisService *service.DiagnosisService
	driverService    *service.DriverService
	wsHandler        *handler.WebSocketHandler
}

// NewRouter creates a new router instance
func NewRouter(
	config *config.Config,
	logger *zap.Logger,
	client spooler.Client,
	printerService *service.PrinterService,
	deviceService *service.DeviceService,
	diagnosisService *service.DiagnosisService,
	driverService *service.DriverService,
) *Router {
	return &Router{
		config:           config,
		logger:           logger,
		client:           client,
		printerService:   printerService,
		deviceService:    deviceService,
		diagnosisService: diagnosisService,
		driverService:    driverService,
	}
}

// SetupRouter creates and configures the Gin router
func (r *Router) SetupRouter() *gin.Engine {
	if r.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	r.addMiddleware(router)
	r.addRoutes(router)

	return router
}

// WebSocketHandler returns the handler serving /ws, once SetupRouter ran
func (r *Router) WebSocketHandler() *handler.WebSocketHandler {
	return r.wsHandler
}

// addMiddleware adds middleware to the router
func (r *Router) addMiddleware(router *gin.Engine) {
	router.Use(middleware.RecoveryMiddleware(r.logger))
	router.Use(middleware.RequestIDMiddleware())

	serviceLogger := utils.NewServiceLogger(r.logger, "http-server")
	router.Use(middleware.LoggingMiddleware(serviceLogger))

	router.Use(middleware.CORSMiddleware(&r.config.Security))

	r.logger.Info("Middleware configured")
}

// addRoutes sets up all application routes
func (r *Router) addRoutes(router *gin.Engine) {
	healthHandler := handler.NewHealthHandler(r.client, r.config, r.logger)
	printerHandler := handler.NewPrinterHandler(r.printerService, r.diagnosisService, r.logger)
	deviceHandler := handler.NewDeviceHandler(r.deviceService, r.logger)
	ppdHandler := handler.NewPPDHandler(r.diagnosisService, r.driverService, r.logger)
	r.wsHandler = handler.NewWebSocketHandler(r.printerService, r.deviceService, r.diagnosisService, r.logger)

	// Health check routes
	healthHandler.RegisterRoutes(router)

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	printerHandler.RegisterRoutes(apiV1)
	deviceHandler.RegisterRoutes(apiV1)
	ppdHandler.RegisterRoutes(apiV1)

	// WebSocket routes
	r.wsHandler.RegisterRoutes(router)

	// Documentation routes
	r.addDocumentationRoutes(router)

	r.logger.Info("All routes configured successfully")
}

// addDocumentationRoutes sets up documentation routes
func (r *Router) addDocumentationRoutes(router *gin.Engine) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
}
