package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/AliAmzai/Tablr/controllers"
	"github.com/AliAmzai/Tablr/hub"
	"github.com/AliAmzai/Tablr/middlewares"
	"github.com/AliAmzai/Tablr/observability"
	"github.com/AliAmzai/Tablr/services"
)

// Options carries the dependencies of the HTTP layer. Nil limiters, Redis or publisher disable
// the matching feature.
type Options struct {
	DB          *gorm.DB
	Hub         *hub.Hub
	Events      services.EventPublisher
	Redis       *redis.Client
	CacheTTL    time.Duration
	CORSOrigins []string
	RateLimiter *middlewares.RateLimiter
	AuthLimiter *middlewares.RateLimiter
	BcryptCost  int
	Production  bool
}

func SetupRouter(opts Options) *gin.Engine {
	if opts.Hub == nil {
		opts.Hub = hub.New()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(observability.MetricsMiddleware())
	r.Use(middlewares.SecurityHeaders(opts.Production))
	r.Use(middlewares.CORSMiddlewares(opts.CORSOrigins))
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.RateLimit())
	}

	owner := services.NewOwnership(opts.DB)
	tables := services.NewTableService(opts.DB, opts.Events)
	floors := services.NewFloorService(opts.DB, tables)
	restaurants := services.NewRestaurantService(opts.DB, floors, tables)

	authCtrl := controllers.NewAuthController(opts.DB, opts.BcryptCost)
	restaurantCtrl := controllers.NewRestaurantController(opts.DB, owner, restaurants)
	locationCtrl := controllers.NewLocationController(opts.DB, owner)
	floorCtrl := controllers.NewFloorController(owner, floors, opts.Hub)
	tableCtrl := controllers.NewTableController(owner, tables, opts.Hub)
	employeeCtrl := controllers.NewEmployeeController(opts.DB, owner, tables)
	reservationCtrl := controllers.NewReservationController(opts.DB, owner)
	wsCtrl := controllers.NewWSController(owner, opts.Hub, opts.CORSOrigins)
	publicCtrl := controllers.NewPublicController(restaurants)

	r.GET("/metrics", observability.Handler())

	api := r.Group("/api")
	api.GET("/health", controllers.HealthCheck)

	auth := api.Group("/auth")
	{
		credentials := auth.Group("")
		if opts.AuthLimiter != nil {
			credentials.Use(opts.AuthLimiter.RateLimit())
		}
		credentials.POST("/signup", authCtrl.Signup)
		credentials.POST("/login", authCtrl.Login)

		auth.GET("/me", middlewares.AuthMiddleware(), authCtrl.Me)
		auth.POST("/logout", middlewares.AuthMiddleware(), authCtrl.Logout)
	}

	public := api.Group("/public")
	public.Use(middlewares.ResponseCache(opts.Redis, opts.CacheTTL))
	{
		public.GET("/restaurants/:shareToken", publicCtrl.GetSharedRestaurant)
	}

	api.GET("/ws", middlewares.WebSocketAuthMiddleware(), wsCtrl.FloorPlanSocket)

	protected := api.Group("")
	protected.Use(middlewares.AuthMiddleware())

	restaurantRoutes := protected.Group("/restaurants")
	{
		restaurantRoutes.GET("", restaurantCtrl.GetRestaurants)
		restaurantRoutes.POST("", restaurantCtrl.CreateRestaurant)
		restaurantRoutes.PUT("/:id", restaurantCtrl.UpdateRestaurant)
		restaurantRoutes.DELETE("/:id", restaurantCtrl.DeleteRestaurant)
		restaurantRoutes.GET("/:id/locations", locationCtrl.GetLocations)
		restaurantRoutes.POST("/:id/locations", locationCtrl.CreateLocation)
		restaurantRoutes.DELETE("/:id/locations/:locationId", locationCtrl.DeleteLocation)
	}

	floorRoutes := protected.Group("/floors")
	{
		floorRoutes.GET("", floorCtrl.GetFloors)
		floorRoutes.POST("", floorCtrl.CreateFloor)
		floorRoutes.GET("/:floorId", floorCtrl.GetFloor)
		floorRoutes.PUT("/:floorId", floorCtrl.UpdateFloor)
		floorRoutes.DELETE("/:floorId", floorCtrl.DeleteFloor)
	}

	tableRoutes := protected.Group("/tables")
	{
		tableRoutes.GET("/floor/:floorId", tableCtrl.GetFloorTables)
		tableRoutes.POST("", tableCtrl.CreateTable)
		tableRoutes.PUT("/:tableId", tableCtrl.UpdateTable)
		tableRoutes.DELETE("/:tableId", tableCtrl.DeleteTable)
		tableRoutes.POST("/:tableId/reserve", tableCtrl.ReserveTable)
		tableRoutes.POST("/:tableId/seat", tableCtrl.SeatTable)
		tableRoutes.POST("/:tableId/clear", tableCtrl.ClearTable)
	}

	employeeRoutes := protected.Group("/employees")
	{
		employeeRoutes.GET("", employeeCtrl.GetEmployees)
		employeeRoutes.POST("", employeeCtrl.CreateEmployee)
		employeeRoutes.GET("/:id", employeeCtrl.GetEmployee)
		employeeRoutes.PUT("/:id", employeeCtrl.UpdateEmployee)
		employeeRoutes.DELETE("/:id", employeeCtrl.DeleteEmployee)
	}

	reservationRoutes := protected.Group("/reservations")
	{
		reservationRoutes.GET("", reservationCtrl.GetReservations)
		reservationRoutes.POST("", reservationCtrl.CreateReservation)
		reservationRoutes.GET("/:id", reservationCtrl.GetReservation)
		reservationRoutes.PUT("/:id", reservationCtrl.UpdateReservation)
		reservationRoutes.DELETE("/:id", reservationCtrl.DeleteReservation)
	}

	return r
}
