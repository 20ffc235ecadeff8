package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/guide-api/internal/ratelimit"
	"github.com/ErlanBelekov/guide-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/guide-api/internal/transport/http/middleware"
	"github.com/ErlanBelekov/guide-api/internal/usecase"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

type Handlers struct {
	Auth                *handler.AuthHandler
	User                *handler.UserHandler
	Content             *handler.ContentHandler
	PersonalInformation *handler.PersonalInformationHandler
	File                *handler.FileHandler
}

// NewRouter wires every route. limiter may be nil, which disables rate
// limiting.
func NewRouter(logger *slog.Logger, h Handlers, gate *usecase.Gate, limiter *ratelimit.Limiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(gate, logger)
	optionalAuth := middleware.OptionalAuth(gate, logger)
	adminOnly := []gin.HandlerFunc{authMW, middleware.RequireAdmin()}

	limit := func(bucket string) gin.HandlerFunc {
		if limiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimit(limiter, bucket, logger)
	}

	// Auth
	auth := r.Group("/auth", middleware.NoStore())
	auth.POST("/signup", limit("signup"), h.Auth.Signup)
	auth.GET("/resend/:user_id", limit("resend"), h.Auth.ResendVerification)
	auth.POST("/verify-email", h.Auth.VerifyEmail)
	auth.POST("/signin", limit("signin"), h.Auth.SignIn)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/signout", h.Auth.SignOut)
	auth.POST("/request-email-change", authMW, h.Auth.RequestEmailChange)
	auth.POST("/change-email", h.Auth.ChangeEmail)
	auth.POST("/request-password-change", limit("password_reset"), optionalAuth, h.Auth.RequestPasswordReset)
	auth.POST("/change-password", h.Auth.ChangePassword)

	// Users
	users := r.Group("/users")
	users.GET("", append(adminOnly, h.User.List)...)
	users.POST("", append(adminOnly, h.User.Create)...)
	users.GET("/me", authMW, h.User.Me)
	users.PATCH("/me/name", authMW, h.User.ChangeName)
	users.GET("/:id", authMW, h.User.Get)

	// Content: public reads, admin writes
	r.GET("/categories", h.Content.ListCategories)
	r.GET("/categories/:id", h.Content.GetCategory)
	r.GET("/subcategories/:id", h.Content.GetSubCategory)
	r.GET("/posts/:id", h.Content.GetPost)
	r.GET("/media", h.Content.ListMedia)
	r.GET("/media/:id", h.Content.GetMedia)

	admin := r.Group("", adminOnly...)
	admin.POST("/categories", h.Content.CreateCategory)
	admin.PATCH("/categories/:id", h.Content.RenameCategory)
	admin.DELETE("/categories/:id", h.Content.DeleteCategory)
	admin.POST("/subcategories", h.Content.CreateSubCategory)
	admin.PATCH("/subcategories/:id", h.Content.RenameSubCategory)
	admin.DELETE("/subcategories/:id", h.Content.DeleteSubCategory)
	admin.POST("/posts", h.Content.CreatePost)
	admin.PATCH("/posts/:id", h.Content.UpdatePost)
	admin.DELETE("/posts/:id", h.Content.DeletePost)
	admin.POST("/media", h.Content.CreateMedia)
	admin.PATCH("/media/:id", h.Content.UpdateMedia)
	admin.DELETE("/media/:id", h.Content.DeleteMedia)
	admin.POST("/upload", h.File.Upload)

	r.GET("/file/:name", h.File.Get)

	// Personal information
	me := r.Group("/me/personal-information", authMW)
	me.GET("", h.PersonalInformation.List)
	me.POST("", h.PersonalInformation.Create)
	me.GET("/:id", h.PersonalInformation.Get)
	me.PATCH("/:id", h.PersonalInformation.Update)
	me.DELETE("/:id", h.PersonalInformation.Delete)

	return r
}
