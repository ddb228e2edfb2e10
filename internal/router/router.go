package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/freee021022/onco/internal/auth"
	"github.com/freee021022/onco/internal/config"
	"github.com/freee021022/onco/internal/events"
	"github.com/freee021022/onco/internal/handlers"
	"github.com/freee021022/onco/internal/middleware"
	"github.com/freee021022/onco/internal/realtime"
	"github.com/freee021022/onco/internal/storage"
	"github.com/freee021022/onco/internal/types"
)

// Deps are the long-lived values the routes are built from. Events may be
// nil.
type Deps struct {
	Config *config.Config
	Store  storage.Storage
	Events events.Publisher
	Hub    *realtime.Hub
	Issuer *auth.Issuer
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.Origins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With", types.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", types.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h := handlers.New(deps.Store, deps.Events, deps.Hub, deps.Issuer, deps.Config)
	requireAuth := middleware.AuthMiddleware(deps.Issuer, deps.Store)
	timeout := middleware.Timeout(deps.Config.RequestTimeout)
	limiter := middleware.NewRateLimiter(deps.Config.AuthRateLimit, deps.Config.AuthRateBurst, 3*time.Minute)

	api := r.Group("/api")
	{
		api.GET("/health", timeout, h.HealthCheck)
		api.GET("/ws", requireAuth, h.WebSocket)

		authGroup := api.Group("/auth", timeout)
		{
			authGroup.POST("/register", limiter.Middleware(), h.Register)
			authGroup.POST("/login", limiter.Middleware(), h.Login)
			authGroup.POST("/logout", h.Logout)
			authGroup.GET("/me", requireAuth, h.Me)
		}

		v := api.Group("", timeout)
		{
			v.GET("/users/:id", h.GetUser)
			v.GET("/doctors", h.GetDoctors)

			forum := v.Group("/forum")
			{
				forum.GET("/categories", h.GetForumCategories)
				forum.GET("/posts", h.GetForumPosts)
				forum.GET("/posts/:id", h.GetForumPost)
				forum.POST("/posts", h.CreateForumPost)
				forum.POST("/comments", h.CreateForumComment)
			}

			secondOpinion := v.Group("/second-opinion")
			{
				secondOpinion.GET("/requests", h.GetSecondOpinionRequests)
				secondOpinion.POST("/requests", h.CreateSecondOpinionRequest)
				secondOpinion.PATCH("/requests/:id/status", h.UpdateSecondOpinionRequestStatus)
			}

			messages := v.Group("/messages")
			{
				messages.GET("", h.GetMessages)
				messages.GET("/conversation", h.GetConversation)
				messages.POST("", h.CreateMessage)
				messages.PATCH("/:id/read", h.MarkMessageAsRead)
			}

			v.GET("/pharmacies", h.GetPharmacies)
			v.GET("/testimonials", h.GetTestimonials)
			v.GET("/config/google-maps", h.GetGoogleMapsConfig)
		}
	}

	return r
}
