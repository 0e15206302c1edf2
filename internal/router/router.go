package router

import (
	"github.com/shangou-next/internal/config"
	adminhandlers "github.com/shangou-next/internal/http/handlers/admin"
	publichandlers "github.com/shangou-next/internal/http/handlers/public"
	"github.com/shangou-next/internal/logger"
	"github.com/shangou-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	api := r.Group("/api")
	{
		// 用户认证接口
		auth := api.Group("/auth")
		{
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", publicHandler.Login)
		}

		// 商品目录（公开）
		api.GET("/products", publicHandler.ListProducts)
		api.GET("/products/:id", publicHandler.GetProduct)
		api.GET("/products/:id/reviews", publicHandler.ListProductReviews)
		api.GET("/categories", publicHandler.ListCategories)

		// 用户接口（需鉴权）
		user := api.Group("")
		user.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			user.POST("/products/:id/reviews", publicHandler.CreateProductReview)

			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/items", publicHandler.AddCartItem)
			user.PUT("/cart/items/:product_id", publicHandler.UpdateCartItem)
			user.DELETE("/cart/items/:product_id", publicHandler.RemoveCartItem)
			user.DELETE("/cart", publicHandler.ClearCart)

			user.POST("/coupons/validate", publicHandler.ValidateCoupon)

			user.POST("/orders", publicHandler.Checkout)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.POST("/orders/:id/cancel", publicHandler.CancelOrder)
		}

		// 管理端接口（需员工身份）
		admin := api.Group("/admin")
		admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		admin.Use(StaffOnlyMiddleware())
		{
			admin.GET("/orders", adminHandler.AdminListOrders)
			admin.GET("/orders/:id", adminHandler.AdminGetOrder)
			admin.PUT("/orders/:id/status", adminHandler.AdminUpdateOrderStatus)

			admin.GET("/coupons", adminHandler.AdminListCoupons)
			admin.POST("/coupons", adminHandler.AdminCreateCoupon)
			admin.GET("/coupons/:id", adminHandler.AdminGetCoupon)
			admin.PUT("/coupons/:id", adminHandler.AdminUpdateCoupon)
			admin.DELETE("/coupons/:id", adminHandler.AdminDeleteCoupon)

			admin.GET("/flash-sales", adminHandler.AdminListFlashSales)
			admin.POST("/flash-sales", adminHandler.AdminCreateFlashSale)
			admin.GET("/flash-sales/:id", adminHandler.AdminGetFlashSale)
			admin.PUT("/flash-sales/:id", adminHandler.AdminUpdateFlashSale)
			admin.DELETE("/flash-sales/:id", adminHandler.AdminDeleteFlashSale)
		}
	}

	// 健康检查
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
