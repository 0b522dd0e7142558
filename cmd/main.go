package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"brewtrack/internal/analytics"
	"brewtrack/internal/caching"
	"brewtrack/internal/config"
	"brewtrack/internal/handlers"
	"brewtrack/internal/jobs/background"
	"brewtrack/internal/middleware"
	"brewtrack/internal/models"
	"brewtrack/internal/repositories"
	"brewtrack/internal/services"
	"brewtrack/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Object storage for product images
	minioSvc, err := services.NewMinioService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}
	if err := minioSvc.EnsureBucketExists(ctx, "brewtrack-products"); err != nil {
		log.Printf("WARNING: could not ensure product image bucket: %v", err)
	}

	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	categoryRepo := repositories.NewCategoryRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)

	// Services
	emailSvc := services.NewEmailService(cfg.ResendAPIKey, cfg.EmailFrom)
	productSvc := services.NewProductService(productRepo, categoryRepo, minioSvc, cacheSvc)
	orderSvc := services.NewOrderService(orderRepo, productRepo, emailSvc)
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret)
	analyticsSvc := analytics.NewService(orderRepo, cacheSvc)

	// Background jobs keep the statistics snapshot warm
	scheduler, err := background.NewJobScheduler(analyticsSvc, orderRepo)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Failed to stop job scheduler: %v", err)
		}
	}()

	// Handlers
	orderHandlers := handlers.NewOrderHandlers(orderSvc, analyticsSvc)
	productHandlers := handlers.NewProductHandlers(productSvc)
	authHandlers := handlers.NewAuthHandlers(authSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.Liveness)
	e.GET("/health/ready", healthHandlers.Readiness)
	e.GET("/health/detailed", healthHandlers.Detailed)

	v1 := e.Group("/v1")
	v1.Use(middleware.VersionHeader("v1"))

	// Public storefront routes
	v1.POST("/auth/login", authHandlers.Login)
	v1.GET("/products", productHandlers.ListProducts)
	v1.GET("/products/search", productHandlers.SearchProducts)
	v1.GET("/products/categories", productHandlers.ListCategories)
	v1.GET("/products/category/:category", productHandlers.ListByCategory)
	v1.GET("/products/:id", productHandlers.GetProduct)
	v1.POST("/orders", orderHandlers.CreateOrder)
	v1.GET("/orders/:id", orderHandlers.GetOrder)

	jwtConfig := echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	}

	// Staff routes (require a valid token)
	staff := v1.Group("")
	staff.Use(echojwt.WithConfig(jwtConfig))
	staff.Use(middleware.ClaimsToContext())

	staff.GET("/me", authHandlers.Me)
	staff.PUT("/users/password", authHandlers.ChangePassword)
	staff.GET("/orders", orderHandlers.GetOrders)
	staff.DELETE("/orders/:id", orderHandlers.CancelOrder)

	// Admin routes
	admin := v1.Group("")
	admin.Use(echojwt.WithConfig(jwtConfig))
	admin.Use(middleware.ClaimsToContext())
	admin.Use(middleware.RequireRole(models.RoleAdmin))

	admin.POST("/users", authHandlers.CreateUser)
	admin.POST("/products", productHandlers.CreateProduct)
	admin.PUT("/products/:id", productHandlers.UpdateProduct)
	admin.DELETE("/products/:id", productHandlers.DeleteProduct)
	admin.POST("/products/:id/image", productHandlers.UploadProductImage)
	admin.POST("/products/categories", productHandlers.CreateCategory)
	admin.PATCH("/orders/:id/status", orderHandlers.UpdateOrderStatus)
	admin.GET("/admin/orders/report", orderHandlers.GetOrderReport)
	admin.GET("/admin/orders/statistics", orderHandlers.GetOrderStatistics)

	log.Printf("Brewtrack server v%s starting on port %d", version, cfg.Port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}
