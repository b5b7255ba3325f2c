// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/config"
	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/handlers"
	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/middleware"
	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/services"
	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	// Initialize services
	cipher, err := utils.NewAESCipher(cfg.Cipher.CredentialSecret)
	if err != nil {
		return nil, err
	}

	authService := services.NewAuthService(db, cfg)
	couponService := services.NewCouponService(db)
	rewardService := services.NewRewardService(db, cipher, cfg.Reward.RetentionDays)
	submissionService := services.NewSubmissionService(db, couponService, rewardService)
	statsService := services.NewStatsService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	couponHandler := handlers.NewCouponHandler(couponService)
	rewardHandler := handlers.NewRewardHandler(rewardService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/login", authHandler.Login)
		}

		// Public routes
		v1.GET("/rewards", rewardHandler.ListPublic)
		v1.POST("/submissions", middleware.RedemptionRateLimit(), submissionHandler.Create)

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired())
		{
			admin.GET("/me", authHandler.GetProfile)

			// Coupon management
			coupons := admin.Group("/coupons")
			{
				coupons.POST("/generate", couponHandler.Generate)
				coupons.GET("", couponHandler.List)
				coupons.GET("/:id", couponHandler.Get)
				coupons.PUT("/:id/deactivate", couponHandler.Deactivate)
				coupons.DELETE("/:id", couponHandler.Delete)
			}

			// Reward catalog management
			rewards := admin.Group("/rewards")
			{
				rewards.GET("", rewardHandler.ListCatalog)
				rewards.POST("", rewardHandler.CreateCatalogEntry)
				rewards.PUT("/:id", rewardHandler.UpdateCatalogEntry)
				rewards.DELETE("/:id", rewardHandler.DeleteCatalogEntry)
			}

			// Reward inventory management
			accounts := admin.Group("/reward-accounts")
			{
				accounts.POST("", rewardHandler.CreateAccount)
				accounts.GET("", rewardHandler.ListAccounts)
				accounts.POST("/expire-sweep", rewardHandler.ExpireSweep)
				accounts.GET("/:id", rewardHandler.GetAccount)
				accounts.GET("/:id/credentials", rewardHandler.GetCredentials)
				accounts.PUT("/:id/deactivate", rewardHandler.DeactivateAccount)
				accounts.PUT("/:id/reactivate", rewardHandler.ReactivateAccount)
				accounts.DELETE("/:id", rewardHandler.DeleteAccount)
			}

			// Submission management
			submissions := admin.Group("/submissions")
			{
				submissions.GET("", submissionHandler.List)
				submissions.GET("/:id", submissionHandler.Get)
				submissions.DELETE("/:id", submissionHandler.Delete)
				submissions.POST("/:id/assign-reward", submissionHandler.AssignReward)
				submissions.POST("/:id/unassign-reward", submissionHandler.UnassignReward)
			}

			// Statistics
			stats := admin.Group("/stats")
			{
				stats.GET("/dashboard", statsHandler.Dashboard)
				stats.GET("/rewards", statsHandler.Rewards)
				stats.GET("/trend", statsHandler.Trend)
			}
		}
	}

	return r, nil
}
