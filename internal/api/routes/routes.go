// server/internal/api/routes/routes.go
package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"school-supply-tracker-api-server/config"
	"school-supply-tracker-api-server/internal/api/handlers"
	"school-supply-tracker-api-server/internal/api/middleware"
	"school-supply-tracker-api-server/internal/auth"
	"school-supply-tracker-api-server/internal/logger"
	"school-supply-tracker-api-server/internal/metrics"
	"school-supply-tracker-api-server/internal/models"
	"school-supply-tracker-api-server/internal/services"
	"school-supply-tracker-api-server/internal/socket"
)

// Deps are the components the router wires into handlers.
type Deps struct {
	Identity  *auth.Identity
	Inventory *services.InventoryService
	Pickups   *services.PickupService
	Users     *services.UserService
	Hub       *socket.Hub
	Metrics   *metrics.Metrics
}

// SetupRouter builds the gin engine and registers every route.
func SetupRouter(cfg config.ServerConfig, d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinMiddleware())
	if d.Metrics != nil {
		router.Use(d.Metrics.Middleware())
		router.GET("/metrics", d.Metrics.Handler())
	}
	router.Use(corsMiddleware(cfg.CORSOrigins))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := &handlers.AuthHandler{Identity: d.Identity, Metrics: d.Metrics}
	userHandler := &handlers.UserHandler{Users: d.Users, Identity: d.Identity}
	inventoryHandler := &handlers.InventoryHandler{Inventory: d.Inventory}
	pickupHandler := &handlers.PickupHandler{Pickups: d.Pickups}
	webSocketHandler := &handlers.WebSocketHandler{Hub: d.Hub, Identity: d.Identity}

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		// Public
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/signup", authHandler.SignUp)
			authRoutes.POST("/signin", authHandler.SignIn)
		}
		apiV1.GET("/access", middleware.OptionalAuthenticate(d.Identity), handlers.Check)

		// Any signed-in user
		protected := apiV1.Group("/")
		protected.Use(middleware.Authenticate(d.Identity))
		{
			protected.POST("/auth/signout", authHandler.SignOut)
			protected.GET("/auth/me", authHandler.Me)

			protected.GET("/items", inventoryHandler.ListItems)
			protected.GET("/items/:id", inventoryHandler.GetItem)
			protected.POST("/pickups", pickupHandler.Submit)
			protected.GET("/pickups", pickupHandler.History)

			// Power users manage stock
			staff := protected.Group("/")
			staff.Use(middleware.Authorize(models.RolePowerUser))
			{
				staff.POST("/items", inventoryHandler.CreateItem)
				staff.PUT("/items/:id/quantity", inventoryHandler.SetQuantity)
			}

			// Admins manage users
			admin := protected.Group("/admin")
			admin.Use(middleware.Authorize(models.RoleAdmin))
			{
				admin.GET("/users", userHandler.ListUsers)
				admin.GET("/users/stats", userHandler.Stats)
				admin.GET("/users/:uid", userHandler.GetUser)
				admin.PUT("/users/:uid/role", userHandler.SetRole)
			}
		}
	}

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cc := cors.DefaultConfig()
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	cc.AllowHeaders = append(cc.AllowHeaders, "Authorization")
	return cors.New(cc)
}
