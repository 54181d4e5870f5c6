// Package router builds the gin engine with every route of the service.
package router

import (
	"net/http"
	"time"

	"tutormatch/backend/internal/api/handler"
	"tutormatch/backend/internal/api/middleware"
	"tutormatch/backend/internal/localization"
	"tutormatch/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Options struct {
	AllowOrigins []string
	Localizer    *localization.Localizer
	Limiter      middleware.Limiter // nil disables rate limiting
	RateLimit    int
	RateWindow   time.Duration
	Logger       *zap.Logger
}

// New returns the engine; gin mode is set by the caller.
func New(h *handler.Handler, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowOrigins),
		middleware.Localize(opts.Localizer),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authRequired := middleware.Auth(h.Tokens)
	limited := middleware.RateLimit(opts.Limiter, opts.RateLimit, opts.RateWindow, opts.Logger)
	studentOnly := middleware.RequireRole(models.RoleStudent)
	parentOnly := middleware.RequireRole(models.RoleParent)

	api := r.Group("/api")
	{
		api.POST("/auth/login", limited, h.Login)

		users := api.Group("/users")
		users.POST("/register/parent", limited, h.RegisterParent)
		users.POST("/register/student", limited, h.RegisterStudent)
		users.GET("/me", authRequired, h.Me)

		matches := api.Group("/matches", authRequired)
		matches.POST("", h.ProposeMatch)
		matches.GET("/my", h.ListMatches)
		matches.GET("/check/:userId", h.CheckMatch)
		matches.PUT("/:id/accept", h.AcceptMatch)
		matches.PUT("/:id/reject", h.RejectMatch)
		matches.PUT("/:id/close", h.CloseMatch)

		tutors := api.Group("/tutors")
		tutors.GET("", h.PublicOffers)
		tutors.GET("/filter", h.FilterListings)
		tutors.GET("/my", authRequired, studentOnly, h.MyOffers)
		tutors.POST("", authRequired, studentOnly, h.CreateOffer)
		tutors.PUT("/:id", authRequired, h.UpdateOffer)
		tutors.DELETE("/:id", authRequired, h.DeleteOffer)

		findTutors := api.Group("/find-tutors")
		findTutors.GET("", h.PublicRequests)
		findTutors.GET("/my", authRequired, parentOnly, h.MyRequests)
		findTutors.POST("", authRequired, parentOnly, h.CreateRequest)
		findTutors.PUT("/:id", authRequired, h.UpdateRequest)
		findTutors.DELETE("/:id", authRequired, h.DeleteRequest)

		messages := api.Group("/messages", authRequired)
		messages.POST("/send", h.SendMessage)
		messages.GET("/chat/:userId", h.Chat)
		messages.GET("/conversations", h.Conversations)
	}

	// the handshake authenticates itself so browsers can pass ?token=
	r.GET("/ws", h.ServeWebSocket)

	return r
}
