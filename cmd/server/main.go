package main

import (
	"time"

	"neighborly-backend/config"
	"neighborly-backend/internal/handler"
	"neighborly-backend/internal/middleware"
	"neighborly-backend/internal/models"
	"neighborly-backend/pkg/database"
	"neighborly-backend/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	config.LoadConfig()

	if err := logger.Init(config.AppConfig.Server.Env); err != nil {
		panic(err)
	}
	defer logger.Sync()

	// 2. Connect to Database
	database.Connect()

	// 3. Auto-Migrate Models
	logger.L.Info("running migrations")
	err := database.DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Shop{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderTracking{},
		&models.Coupon{},
		&models.CouponUsage{},
	)
	if err != nil {
		logger.L.Fatal("migration failed", zap.Error(err))
	}

	// 3a. Seed Data
	database.SeedAdmin()

	// 4. Initialize Router
	if config.AppConfig.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 5. Setup Routes
	authHandler := &handler.AuthHandler{}
	authRoutes := r.Group("/api/v1/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	userRoutes := r.Group("/api/v1/user")
	userRoutes.Use(middleware.AuthMiddleware())
	{
		userRoutes.PUT("/password", authHandler.ChangePassword)
	}

	catalogHandler := &handler.CatalogHandler{}

	// Public catalog browsing
	publicHandler := &handler.PublicHandler{}
	publicRoutes := r.Group("/api/v1/public")
	{
		publicRoutes.GET("/site-info", publicHandler.GetSiteInfo)
		publicRoutes.GET("/categories", catalogHandler.ListCategories)
		publicRoutes.GET("/shops", catalogHandler.ListShops)
		publicRoutes.GET("/shops/:id", catalogHandler.GetShop)
		publicRoutes.GET("/products", catalogHandler.ListProducts)
		publicRoutes.GET("/products/:id", catalogHandler.GetProduct)
	}

	// Shopkeeper catalog management
	shopRoutes := r.Group("/api/v1/shops")
	shopRoutes.Use(middleware.AuthMiddleware(models.UserTypeShopkeeper, models.UserTypeAdmin))
	{
		shopRoutes.POST("", catalogHandler.CreateShop)
		shopRoutes.PUT("/:id", catalogHandler.UpdateShop)
		shopRoutes.POST("/products", catalogHandler.CreateProduct)
		shopRoutes.PUT("/products/:id", catalogHandler.UpdateProduct)
		shopRoutes.DELETE("/products/:id", catalogHandler.DeleteProduct)
		shopRoutes.GET("/alerts", catalogHandler.GetLowStockAlerts)
	}

	// Customer cart
	cartHandler := &handler.CartHandler{}
	cartRoutes := r.Group("/api/v1/cart")
	cartRoutes.Use(middleware.AuthMiddleware(models.UserTypeCustomer))
	{
		cartRoutes.GET("", cartHandler.GetCart)
		cartRoutes.POST("/items", cartHandler.AddToCart)
		cartRoutes.PUT("/items/:id", cartHandler.UpdateCartItem)
		cartRoutes.DELETE("/items/:id", cartHandler.RemoveFromCart)
		cartRoutes.DELETE("", cartHandler.ClearCart)
	}

	// Orders
	orderHandler := handler.NewOrderHandler()
	orderRoutes := r.Group("/api/v1/orders")
	orderRoutes.Use(middleware.AuthMiddleware())
	{
		orderRoutes.POST("/checkout", orderHandler.PlaceOrders)
		orderRoutes.GET("", orderHandler.ListOrders)
		orderRoutes.POST("/:id/status", orderHandler.UpdateOrderStatus)
		orderRoutes.GET("/track/:order_id", orderHandler.TrackOrder)
	}

	// Coupons
	couponHandler := handler.NewCouponHandler()
	couponRoutes := r.Group("/api/v1/coupons")
	couponRoutes.Use(middleware.AuthMiddleware())
	{
		couponRoutes.GET("", couponHandler.ListCoupons)
		couponRoutes.POST("/validate", couponHandler.ValidateCoupon)
	}

	// Admin
	adminRoutes := r.Group("/api/v1/admin")
	adminRoutes.Use(middleware.AuthMiddleware(models.UserTypeAdmin))
	{
		adminRoutes.POST("/categories", catalogHandler.CreateCategory)
		adminRoutes.PUT("/shops/:id/status", catalogHandler.UpdateShopStatus)
		adminRoutes.POST("/coupons", couponHandler.CreateCoupon)
		adminRoutes.DELETE("/orders/:id", orderHandler.DeleteOrder)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// 6. Start Server
	port := config.AppConfig.Server.Port
	logger.L.Info("server starting", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		logger.L.Fatal("failed to run server", zap.Error(err))
	}
}
