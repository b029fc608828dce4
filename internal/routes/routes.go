package routes

import (
	"github.com/abdulra7ma/social-media-app/internal/handler"
	"github.com/abdulra7ma/social-media-app/internal/middleware"
	"github.com/abdulra7ma/social-media-app/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	authHandler *handler.AuthHandler,
	postHandler *handler.PostHandler,
	reactionHandler *handler.ReactionHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api/v1")

	// Authentication endpoints
	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/signin", authHandler.Signin)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", middleware.JWTAuth(jwtManager), authHandler.Me)

	// Post list and detail are public
	api.GET("/posts", postHandler.List)

	post := api.Group("/post")
	{
		post.GET("/:id", postHandler.Get)
		post.POST("", middleware.JWTAuth(jwtManager), postHandler.Create)
		post.PUT("/:id", middleware.JWTAuth(jwtManager), postHandler.Update)
		post.DELETE("/:id", middleware.JWTAuth(jwtManager), postHandler.Delete)

		// Reaction state transitions
		post.POST("/:id/like", middleware.JWTAuth(jwtManager), reactionHandler.Like)
		post.DELETE("/:id/unlike", middleware.JWTAuth(jwtManager), reactionHandler.Unlike)
		post.POST("/:id/dislike", middleware.JWTAuth(jwtManager), reactionHandler.Dislike)
		post.DELETE("/:id/undislike", middleware.JWTAuth(jwtManager), reactionHandler.Undislike)
	}
}
