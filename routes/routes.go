package routes

import (
	"net/http"

	"foodgram-backend/config"
	"foodgram-backend/handlers"
	"foodgram-backend/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	userHandler := handlers.NewUserHandler(db, cfg)
	tagHandler := handlers.NewTagHandler(db)
	ingredientHandler := handlers.NewIngredientHandler(db)
	recipeHandler := handlers.NewRecipeHandler(db, cfg)
	uploadHandler := handlers.NewUploadHandler(cfg.MediaDir)

	router := gin.New()
	router.Use(middleware.RequestLogger(log), gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Serve stored images
	router.Static("/media", cfg.MediaDir)

	// Public routes; optional auth drives the per-user annotations and the
	// staff gate on reference-data writes.
	public := router.Group("/api")
	public.Use(middleware.OptionalAuthMiddleware(db))
	{
		public.POST("/users", userHandler.Signup)
		public.GET("/users", userHandler.List)
		public.POST("/auth/token/login", userHandler.Login)

		// gin cannot register a static segment next to a wildcard in the
		// same method tree, so /users/me and /users/subscriptions are
		// dispatched through the :id route.
		public.GET("/users/:id", func(c *gin.Context) {
			switch c.Param("id") {
			case "me":
				userHandler.Me(c)
			case "subscriptions":
				userHandler.Subscriptions(c)
			default:
				userHandler.Retrieve(c)
			}
		})

		public.GET("/tags", tagHandler.List)
		public.GET("/tags/:id", tagHandler.Retrieve)
		public.POST("/tags", tagHandler.Create)
		public.PATCH("/tags/:id", tagHandler.Update)
		public.DELETE("/tags/:id", tagHandler.Delete)

		public.GET("/ingredients", ingredientHandler.List)
		public.GET("/ingredients/:id", ingredientHandler.Retrieve)
		public.POST("/ingredients", ingredientHandler.Create)
		public.PATCH("/ingredients/:id", ingredientHandler.Update)
		public.DELETE("/ingredients/:id", ingredientHandler.Delete)

		public.GET("/recipes", recipeHandler.List)
		public.GET("/recipes/:id", func(c *gin.Context) {
			if c.Param("id") == "download_shopping_cart" {
				recipeHandler.DownloadShoppingCart(c)
				return
			}
			recipeHandler.Retrieve(c)
		})
		public.GET("/recipes/:id/get-link", recipeHandler.GetLink)
	}

	// Protected routes
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(db))
	{
		protected.POST("/auth/token/logout", userHandler.Logout)
		protected.PUT("/users/:id/avatar", requireMe(userHandler.SetAvatar))
		protected.DELETE("/users/:id/avatar", requireMe(userHandler.DeleteAvatar))
		protected.POST("/users/:id/subscribe", userHandler.Subscribe)
		protected.DELETE("/users/:id/subscribe", userHandler.Unsubscribe)

		protected.POST("/recipes", recipeHandler.Create)
		protected.PATCH("/recipes/:id", recipeHandler.Update)
		protected.DELETE("/recipes/:id", recipeHandler.Delete)
		protected.POST("/recipes/:id/favorite", recipeHandler.Favorite)
		protected.DELETE("/recipes/:id/favorite", recipeHandler.Unfavorite)
		protected.POST("/recipes/:id/shopping_cart", recipeHandler.AddToShoppingCart)
		protected.DELETE("/recipes/:id/shopping_cart", recipeHandler.RemoveFromShoppingCart)

		protected.POST("/upload", uploadHandler.UploadImage)
	}

	return router
}

// requireMe restricts an avatar route to the /users/me/... form.
func requireMe(handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Param("id") != "me" {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found"})
			return
		}
		handler(c)
	}
}
