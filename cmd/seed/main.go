package main

import (
	"time"

	"github.com/shangou-next/internal/config"
	"github.com/shangou-next/internal/logger"
	"github.com/shangou-next/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categoryNames := []string{"Electronics", "Lifestyle", "Accessories"}
	categoryIDs := map[string]uint{}
	for _, name := range categoryNames {
		var cat models.Category
		if err := models.DB.Where("name = ?", name).First(&cat).Error; err != nil {
			cat = models.Category{Name: name}
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", name, err)
				continue
			}
			stdLog.Printf("Created category: %s", name)
		} else {
			stdLog.Printf("Category already exists: %s", name)
		}
		categoryIDs[name] = cat.ID
	}

	electronicsID := categoryIDs["Electronics"]
	lifestyleID := categoryIDs["Lifestyle"]
	accessoriesID := categoryIDs["Accessories"]

	// 添加商品
	products := []models.Product{
		{
			Name:        "Wireless Bluetooth Earphones",
			Description: "High quality sound, active noise cancellation, up to 24 hours of battery life.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(99.99)),
			CategoryID:  &electronicsID,
			ImageURLs: models.StringArray([]string{
				"https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=800",
			}),
			IsInStock:     true,
			StockQuantity: 120,
		},
		{
			Name:        "Smart Watch",
			Description: "Heart rate monitoring, sleep tracking, water resistant to 50m.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(199.00)),
			CategoryID:  &electronicsID,
			ImageURLs: models.StringArray([]string{
				"https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=800",
			}),
			IsInStock:     true,
			StockQuantity: 60,
		},
		{
			Name:        "Ceramic Coffee Mug",
			Description: "350ml double walled ceramic mug, keeps drinks warm longer.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(19.99)),
			CategoryID:  &lifestyleID,
			ImageURLs: models.StringArray([]string{
				"https://images.unsplash.com/photo-1514228742587-6b1558fcca3d?w=800",
			}),
			IsInStock:     true,
			StockQuantity: 300,
		},
		{
			Name:        "USB-C Fast Charger",
			Description: "65W GaN charger with dual USB-C ports.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(39.50)),
			CategoryID:  &accessoriesID,
			ImageURLs: models.StringArray([]string{
				"https://images.unsplash.com/photo-1583863788434-e58a36330cf0?w=800",
			}),
			IsInStock:     true,
			StockQuantity: 200,
		},
		{
			Name:          "Mechanical Keyboard",
			Description:   "87-key hot swappable mechanical keyboard, currently out of stock.",
			Price:         models.NewMoneyFromDecimal(decimal.NewFromFloat(129.00)),
			CategoryID:    &accessoriesID,
			IsInStock:     false,
			StockQuantity: 0,
		},
	}

	productIDs := map[string]uint{}
	for _, p := range products {
		var existing models.Product
		if err := models.DB.Where("name = ?", p.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&p).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", p.Name, err)
				continue
			}
			stdLog.Printf("Created product: %s", p.Name)
			productIDs[p.Name] = p.ID
		} else {
			stdLog.Printf("Product already exists: %s", p.Name)
			productIDs[p.Name] = existing.ID
		}
	}

	// 添加优惠券
	now := time.Now()
	monthLater := now.AddDate(0, 1, 0)
	weekAgo := now.AddDate(0, 0, -7)
	limit50 := 50
	coupons := []models.Coupon{
		{
			Code:              "WELCOME10",
			DiscountPercent:   models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			MaxDiscountAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
			ExpiresAt:         &monthLater,
		},
		{
			Code:              "FLASH20",
			DiscountPercent:   models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
			MaxDiscountAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
			ExpiresAt:         &monthLater,
			UsageLimit:        &limit50,
		},
		{
			Code:              "EXPIRED5",
			DiscountPercent:   models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
			MaxDiscountAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
			ExpiresAt:         &weekAgo,
		},
	}
	for _, c := range coupons {
		var existing models.Coupon
		if err := models.DB.Where("code = ?", c.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&c).Error; err != nil {
				stdLog.Printf("Failed to create coupon %s: %v", c.Code, err)
			} else {
				stdLog.Printf("Created coupon: %s", c.Code)
			}
		} else {
			stdLog.Printf("Coupon already exists: %s", c.Code)
		}
	}

	// 添加闪购活动
	var saleCount int64
	models.DB.Model(&models.FlashSale{}).Count(&saleCount)
	if saleCount == 0 {
		sale := models.FlashSale{
			Name:            "Weekend Flash Sale",
			DiscountPercent: models.NewMoneyFromDecimal(decimal.NewFromInt(25)),
			StartDate:       now.Add(-time.Hour),
			EndDate:         now.AddDate(0, 0, 3),
			IsActive:        true,
		}
		if err := models.DB.Create(&sale).Error; err != nil {
			stdLog.Printf("Failed to create flash sale: %v", err)
		} else {
			var saleProducts []models.Product
			for _, name := range []string{"Wireless Bluetooth Earphones", "Ceramic Coffee Mug"} {
				if id, ok := productIDs[name]; ok {
					saleProducts = append(saleProducts, models.Product{ID: id})
				}
			}
			if len(saleProducts) > 0 {
				if err := models.DB.Model(&sale).Association("Products").Replace(saleProducts); err != nil {
					stdLog.Printf("Failed to attach flash sale products: %v", err)
				}
			}
			stdLog.Printf("Created flash sale: %s", sale.Name)
		}
	} else {
		stdLog.Printf("Flash sales already exist, skipped")
	}

	// 添加测试用户
	users := []struct {
		Email    string
		Password string
		Name     string
		IsStaff  bool
	}{
		{"admin@shangou.local", "admin-password", "Admin", true},
		{"alice@example.com", "alice-password", "Alice", false},
	}
	for _, u := range users {
		var existing models.User
		if err := models.DB.Where("email = ?", u.Email).First(&existing).Error; err == nil {
			stdLog.Printf("User already exists: %s", u.Email)
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Printf("Failed to hash password for %s: %v", u.Email, err)
			continue
		}
		user := models.User{
			Email:        u.Email,
			PasswordHash: string(hash),
			Name:         u.Name,
			IsStaff:      u.IsStaff,
		}
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("Failed to create user %s: %v", u.Email, err)
		} else {
			stdLog.Printf("Created user: %s", u.Email)
		}
	}

	stdLog.Printf("Seed finished")
}
