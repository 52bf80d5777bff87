package handlers

import (
	"pace_service_tool/internal/logger"
	"pace_service_tool/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAPIRoutes(router)

	// form edits and telemetry runs over one socket, same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/options", h.getOptions)
		h.registerFormRoutes(api)
		h.registerTelemetryRoutes(api)
	}
}

func (h *Handler) registerFormRoutes(api *gin.RouterGroup) {
	form := api.Group("/form")
	{
		form.GET("", h.getForm)
		form.GET("/export", h.exportForm)
		// Body example: {"value":"Trane"}
		form.PUT("/fields/:field", h.updateField)
		form.PUT("/motors/:group/:index/:field", h.updateMotor)
		form.PUT("/sections/:section/:field", h.updateNested)
	}
}

func (h *Handler) registerTelemetryRoutes(api *gin.RouterGroup) {
	telemetry := api.Group("/telemetry")
	{
		telemetry.POST("/run", h.runTelemetry)
		telemetry.GET("/latest", h.latestTelemetry)
	}
}
