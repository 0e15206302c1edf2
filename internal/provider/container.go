package provider

import (
	"github.com/shangou-next/internal/cache"
	"github.com/shangou-next/internal/config"
	"github.com/shangou-next/internal/logger"
	"github.com/shangou-next/internal/models"
	"github.com/shangou-next/internal/queue"
	"github.com/shangou-next/internal/repository"
	"github.com/shangou-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo      repository.UserRepository
	ProductRepo   repository.ProductRepository
	CategoryRepo  repository.CategoryRepository
	ReviewRepo    repository.ReviewRepository
	CartRepo      repository.CartRepository
	CouponRepo    repository.CouponRepository
	FlashSaleRepo repository.FlashSaleRepository
	OrderRepo     repository.OrderRepository

	// Services
	AuthService           *service.AuthService
	EmailService          *service.EmailService
	PricingService        *service.PricingService
	ProductService        *service.ProductService
	CartService           *service.CartService
	CouponService         *service.CouponService
	OrderService          *service.OrderService
	NotificationService   *service.NotificationService
	ReportService         *service.ReportService
	CouponAdminService    *service.CouponAdminService
	FlashSaleAdminService *service.FlashSaleAdminService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.FlashSaleRepo = repository.NewFlashSaleRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.PricingService = service.NewPricingService(c.FlashSaleRepo, c.Config.Pricing.FlashSaleCacheSeconds)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo, c.ReviewRepo, c.OrderRepo, c.PricingService)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.PricingService, c.Config.Cart.MaxQuantityPerItem)
	c.CouponService = service.NewCouponService(c.CouponRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CartRepo, c.CouponRepo, c.QueueClient)
	c.NotificationService = service.NewNotificationService(c.OrderRepo, c.UserRepo, c.EmailService)
	c.ReportService = service.NewReportService(c.OrderRepo, c.UserRepo, c.EmailService)
	c.CouponAdminService = service.NewCouponAdminService(c.CouponRepo)
	c.FlashSaleAdminService = service.NewFlashSaleAdminService(c.FlashSaleRepo, c.ProductRepo, c.PricingService)
}
