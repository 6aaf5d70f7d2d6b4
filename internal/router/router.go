package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/recetario/backend/internal/api"
	"github.com/recetario/backend/internal/middleware"
	"github.com/recetario/backend/internal/service"
)

// SetupRouter configures the application routes. The rate limiter is
// optional; without Redis the mutation endpoints run unthrottled.
func SetupRouter(
	authHandler *api.AuthHandler,
	recipeHandler *api.RecipeHandler,
	moderationHandler *api.ModerationHandler,
	savedHandler *api.SavedRecipeHandler,
	authService *service.AuthService,
	limiter *middleware.RateLimiter,
) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	throttled := func() gin.HandlerFunc {
		if limiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return limiter.Middleware()
	}()

	v1 := router.Group("/api/v1")

	authHandler.RegisterRoutes(v1)

	recipes := v1.Group("/recipes")
	{
		// Admin moderation queue. Registered before /:id so the static
		// segments are not captured as recipe ids.
		admin := recipes.Group("")
		admin.Use(middleware.AuthMiddleware(authService), middleware.RequireAdmin(authService))
		{
			admin.GET("/pending", moderationHandler.PendingRecipes)
			admin.GET("/comments/pending", moderationHandler.PendingComments)
			admin.PATCH("/:id/approve", moderationHandler.ApproveRecipe)
			admin.DELETE("/:id/reject", moderationHandler.RejectRecipe)
			admin.PATCH("/:id/comments/:commentId/approve", moderationHandler.ApproveComment)
			admin.DELETE("/:id/comments/:commentId/reject", moderationHandler.RejectComment)
		}

		recipes.GET("", middleware.OptionalAuthMiddleware(authService), recipeHandler.List)
		recipes.GET("/:id", middleware.OptionalAuthMiddleware(authService), recipeHandler.Get)

		authed := recipes.Group("")
		authed.Use(middleware.AuthMiddleware(authService))
		{
			authed.POST("", recipeHandler.Create)
			authed.PUT("/:id", recipeHandler.Update)
			authed.DELETE("/:id", recipeHandler.Delete)
			authed.POST("/:id/comments", throttled, recipeHandler.AddComment)
		}
	}

	v1.GET("/users/:username/recipes", middleware.OptionalAuthMiddleware(authService), recipeHandler.ListByUser)

	saved := v1.Group("/user/recipes")
	saved.Use(middleware.AuthMiddleware(authService))
	{
		saved.POST("/save", savedHandler.Save)
		saved.POST("/unsave", savedHandler.Unsave)
		saved.GET("/saved", savedHandler.ListSaved)
	}

	return router
}
