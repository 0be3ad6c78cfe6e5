package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/api/handlers"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/api/middleware"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Products    *service.ProductService
	Inventory   *service.InventoryService
	Predictions *service.PredictionService
	Auth        *service.AuthService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Total-Count"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().UTC()})
	})

	apiGroup := router.Group("/api/v1")
	if services == nil {
		return router
	}

	protected := apiGroup.Group("")
	if services.Auth != nil {
		authHandler := handlers.NewAuthHandler(services.Auth)
		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		protected.Use(middleware.RequireAuth(services.Auth))
		sessionGroup := protected.Group("/auth")
		{
			sessionGroup.POST("/logout", authHandler.Logout)
			sessionGroup.GET("/validate", authHandler.Validate)
			sessionGroup.POST("/change-password", authHandler.ChangePassword)
			sessionGroup.GET("/user-info", authHandler.UserInfo)
		}
	}

	if services.Products != nil && services.Inventory != nil {
		productHandler := handlers.NewProductHandler(services.Products, services.Inventory)
		productGroup := protected.Group("/products")
		{
			productGroup.GET("", productHandler.List)
			productGroup.GET("/categories", productHandler.Categories)
			productGroup.GET("/:id", productHandler.Get)
			productGroup.POST("", productHandler.Create)
			productGroup.PUT("/:id", productHandler.Update)
			productGroup.DELETE("/:id", productHandler.Delete)
			productGroup.POST("/:id/update-stock", productHandler.UpdateStock)
		}
	}

	if services.Inventory != nil {
		inventoryHandler := handlers.NewInventoryHandler(services.Inventory)
		inventoryGroup := protected.Group("/inventory")
		{
			inventoryGroup.GET("/dashboard", inventoryHandler.Dashboard)
			inventoryGroup.GET("/low-stock", inventoryHandler.LowStock)
			inventoryGroup.POST("/update-stock/:productId", inventoryHandler.UpdateStock)
			inventoryGroup.POST("/adjust-stock/:productId", inventoryHandler.AdjustStock)
			inventoryGroup.PUT("/minimum-stock/:productId", inventoryHandler.SetMinimumStock)
			inventoryGroup.GET("/movements/:productId", inventoryHandler.Movements)
			inventoryGroup.GET("/report", inventoryHandler.Report)
			inventoryGroup.GET("/stream", inventoryHandler.Stream)
		}
	}

	if services.Predictions != nil {
		predictionHandler := handlers.NewPredictionHandler(services.Predictions)
		predictionGroup := protected.Group("/predictions")
		{
			predictionGroup.POST("/generate", predictionHandler.Generate)
			predictionGroup.GET("", predictionHandler.List)
			predictionGroup.GET("/product/:productId", predictionHandler.ForProduct)
			predictionGroup.GET("/export", predictionHandler.Export)
			predictionGroup.GET("/summary", predictionHandler.Summary)
			predictionGroup.GET("/range", predictionHandler.Range)
			predictionGroup.GET("/high-confidence", predictionHandler.HighConfidence)
			predictionGroup.GET("/abc", predictionHandler.Portfolio)
			predictionGroup.GET("/abc/:productId", predictionHandler.ProductTier)
			predictionGroup.POST("/retrain", predictionHandler.Retrain)
			predictionGroup.GET("/status", predictionHandler.Status)
			predictionGroup.GET("/performance", predictionHandler.Performance)
			predictionGroup.GET("/seasonal-patterns/:productId", predictionHandler.SeasonalPatterns)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
