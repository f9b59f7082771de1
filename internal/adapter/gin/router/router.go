package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"directory-service/internal/adapter/gin/handler"
	"directory-service/internal/adapter/gin/middleware"
	"directory-service/internal/config"
	"directory-service/pkg/logger"
)

// SwaggerSpecPath is where the OpenAPI document is served.
const SwaggerSpecPath = "/openapi/directory.swagger.json"

// Handlers groups the handlers of both surfaces. Only the ones for the
// configured backend need to be set.
type Handlers struct {
	District *handler.DistrictHandler
	Place    *handler.PlaceHandler
	User     *handler.UserHandler
	Rows     *handler.RowHandler
}

// Options controls which routes are mounted.
type Options struct {
	ServiceName     string
	Backend         string
	UploadDir       string
	UploadURLPrefix string
	SwaggerEnabled  bool
	SwaggerFile     string
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(h Handlers, rateLimiter *middleware.RateLimiter, opts Options, log *zap.Logger) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(logger.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(rateLimiter.Handler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": opts.ServiceName,
			"backend": opts.Backend,
		})
	})

	if opts.SwaggerEnabled {
		router.StaticFile(SwaggerSpecPath, opts.SwaggerFile)
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(SwaggerSpecPath))))
	}

	switch opts.Backend {
	case config.BackendRelational:
		mountRows(router, h.Rows)
	default:
		mountDocument(router, h)
		if opts.UploadURLPrefix != "" && opts.UploadDir != "" {
			router.Static(opts.UploadURLPrefix, opts.UploadDir)
		}
	}

	return router
}

func mountRows(r *gin.Engine, h *handler.RowHandler) {
	r.POST("/districts", h.CreateDistrict)
	r.POST("/places", h.CreatePlace)
	r.POST("/users", h.CreateUser)
	r.GET("/users", h.ListUsers)
}

func mountDocument(r *gin.Engine, h Handlers) {
	districts := r.Group("/district")
	{
		districts.GET("/", h.District.ListDistricts)
		districts.POST("/", h.District.CreateDistrict)
		districts.PUT("/:id/", h.District.UpdateDistrict)
		districts.DELETE("/:id/", h.District.DeleteDistrict)
	}

	places := r.Group("/place")
	{
		places.GET("/", h.Place.ListPlaces)
		places.POST("/", h.Place.CreatePlace)
		places.PUT("/:id/", h.Place.UpdatePlace)
		places.DELETE("/:id/", h.Place.DeletePlace)
	}

	users := r.Group("/users")
	{
		users.POST("/", h.User.RegisterUser)
		users.GET("/", h.User.ListUsers)
		users.GET("/:id", h.User.GetUser)
		users.PUT("/:id", h.User.UpdateUser)
		users.PUT("/:id/password", h.User.ChangePassword)
	}

	r.POST("/login", h.User.Login)
}
