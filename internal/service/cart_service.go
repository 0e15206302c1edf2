package service

import (
	"context"
	"time"

	"github.com/shangou-next/internal/constants"
	"github.com/shangou-next/internal/models"
	"github.com/shangou-next/internal/repository"

	"gorm.io/gorm"
)

// CartSummary 购物车汇总（行数与快照价总额）
type CartSummary struct {
	Items     models.CartItems `json:"items"`
	ItemCount int              `json:"item_count"`
	Total     models.Money     `json:"total"`
}

// CartService 购物车服务。所有写操作在事务内对购物车行加锁，
// 单价以加购时刻的生效价格快照保存。
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	pricing     *PricingService
	maxQuantity int
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, pricing *PricingService, maxQuantity int) *CartService {
	if maxQuantity <= 0 {
		maxQuantity = constants.DefaultMaxQuantityPerItem
	}
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		pricing:     pricing,
		maxQuantity: maxQuantity,
	}
}

// GetByUser 获取用户购物车汇总，购物车不存在视同空车
func (s *CartService) GetByUser(userID uint) (*CartSummary, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &CartSummary{Items: models.CartItems{}}, nil
	}
	return summarize(cart.Items), nil
}

// AddItem 加入购物车。重复加购同一商品累加数量，
// 单行数量不得超过上限。
func (s *CartService) AddItem(ctx context.Context, userID, productID uint, quantity int) (*CartSummary, error) {
	if userID == 0 || productID == 0 {
		return nil, ErrInvalidInput
	}
	if quantity <= 0 {
		return nil, ErrQuantityInvalid
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.IsInStock {
		return nil, ErrProductOutOfStock
	}

	priced, err := s.pricing.PriceProduct(ctx, product, time.Now())
	if err != nil {
		return nil, err
	}

	var summary *CartSummary
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		cart, err := cartRepo.GetOrCreateByUserForUpdate(userID)
		if err != nil {
			return err
		}

		items := cart.Items
		idx := items.IndexOf(productID)
		if idx >= 0 {
			next := items[idx].Quantity + quantity
			if next > s.maxQuantity {
				return ErrQuantityExceeded
			}
			items[idx].Quantity = next
		} else {
			if quantity > s.maxQuantity {
				return ErrQuantityExceeded
			}
			items = append(items, models.CartItem{
				ProductID: productID,
				Quantity:  quantity,
				UnitPrice: priced.EffectivePrice,
				Name:      product.Name,
				Image:     product.FirstImageURL(),
			})
		}

		if err := cartRepo.SaveItems(cart.ID, items); err != nil {
			return err
		}
		summary = summarize(items)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// UpdateItemQuantity 修改购物车行数量，数量为绝对值覆盖
func (s *CartService) UpdateItemQuantity(userID, productID uint, quantity int) (*CartSummary, error) {
	if userID == 0 || productID == 0 {
		return nil, ErrInvalidInput
	}
	if quantity <= 0 {
		return nil, ErrQuantityInvalid
	}
	if quantity > s.maxQuantity {
		return nil, ErrQuantityExceeded
	}

	var summary *CartSummary
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		cart, err := cartRepo.GetOrCreateByUserForUpdate(userID)
		if err != nil {
			return err
		}

		items := cart.Items
		idx := items.IndexOf(productID)
		if idx < 0 {
			return ErrCartItemNotFound
		}
		items[idx].Quantity = quantity

		if err := cartRepo.SaveItems(cart.ID, items); err != nil {
			return err
		}
		summary = summarize(items)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// RemoveItem 删除购物车行
func (s *CartService) RemoveItem(userID, productID uint) (*CartSummary, error) {
	if userID == 0 || productID == 0 {
		return nil, ErrInvalidInput
	}

	var summary *CartSummary
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		cart, err := cartRepo.GetOrCreateByUserForUpdate(userID)
		if err != nil {
			return err
		}

		items := cart.Items
		idx := items.IndexOf(productID)
		if idx < 0 {
			return ErrCartItemNotFound
		}
		items = append(items[:idx], items[idx+1:]...)

		if err := cartRepo.SaveItems(cart.ID, items); err != nil {
			return err
		}
		summary = summarize(items)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// Clear 清空购物车，空车清空视为错误
func (s *CartService) Clear(userID uint) error {
	if userID == 0 {
		return ErrInvalidInput
	}
	return models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		cart, err := cartRepo.GetOrCreateByUserForUpdate(userID)
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return ErrCartEmpty
		}
		return cartRepo.SaveItems(cart.ID, models.CartItems{})
	})
}

func summarize(items models.CartItems) *CartSummary {
	if items == nil {
		items = models.CartItems{}
	}
	// item_count 为购物车行数，不是数量之和
	return &CartSummary{
		Items:     items,
		ItemCount: len(items),
		Total:     items.Total(),
	}
}
