package v1

import (
	"net/http"

	"go-hiring-backend/config"
	"go-hiring-backend/internal/delivery/http/middleware"
	"go-hiring-backend/internal/delivery/http/response"
	"go-hiring-backend/internal/domain"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	InterviewUC    domain.InterviewUsecase
	BridgeUC       domain.CalendarBridgeUsecase
	NotificationUC domain.NotificationUsecase
	Config         *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Public routes: webhook authenticity comes from the provider signature
	NewWebhookHandler(v1, deps.BridgeUC, deps.Config)

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Config))
	{
		NewInterviewHandler(protected, deps.InterviewUC)
		NewNotificationHandler(protected, deps.NotificationUC)
	}

	return r
}
