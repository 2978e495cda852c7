package service

import (
	"context"

	"go.uber.org/zap"

	"shopzone/internal/domain"
	"shopzone/pkg/utils"
)

// CartService 购物车；所有操作都以调用者身份为 userId（路由层保证），
// 不存在跨用户访问
type CartService struct {
	stores domain.Stores
	log    *zap.Logger
}

func NewCartService(stores domain.Stores, log *zap.Logger) *CartService {
	return &CartService{stores: stores, log: log}
}

// Get 自愈读：商品已被删除的孤儿行不返回，并顺手删掉
func (s *CartService) Get(ctx context.Context, userID string) ([]domain.CartItem, error) {
	items, err := s.stores.Carts().FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	alive := make([]domain.CartItem, 0, len(items))
	for _, it := range items {
		if it.Product == nil {
			if err := s.stores.Carts().DeleteOne(ctx, userID, it.ProductID); err != nil {
				s.log.Warn("orphan cart item cleanup failed",
					zap.String("userId", userID), zap.String("productId", it.ProductID), zap.Error(err))
			}
			continue
		}
		alive = append(alive, it)
	}
	return alive, nil
}

// Add 已有同商品行则数量累加（不是覆盖）
func (s *CartService) Add(ctx context.Context, userID, productID string, qty int) (*domain.CartItem, error) {
	if qty < 1 {
		return nil, domain.Validation("quantity must be at least 1")
	}

	p, err := s.stores.Products().FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("product not found")
	}
	if p.Stock < qty {
		return nil, domain.InsufficientStock(p.Name, p.Stock, qty)
	}

	existing, err := s.stores.Carts().FindOne(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Quantity += qty
		if err := s.stores.Carts().Update(ctx, existing); err != nil {
			return nil, err
		}
		existing.Product = p
		return existing, nil
	}

	item := &domain.CartItem{
		ID:        utils.NewID(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
	}
	if err := s.stores.Carts().Create(ctx, item); err != nil {
		return nil, err
	}
	item.Product = p
	return item, nil
}

// SetQuantity 覆盖数量；qty <= 0 等同删除，返回 (nil, nil)
func (s *CartService) SetQuantity(ctx context.Context, userID, productID string, qty int) (*domain.CartItem, error) {
	item, err := s.stores.Carts().FindOne(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("cart item not found")
	}

	if qty <= 0 {
		if err := s.stores.Carts().DeleteOne(ctx, userID, productID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	item.Quantity = qty
	if err := s.stores.Carts().Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CartService) Remove(ctx context.Context, userID, productID string) error {
	return s.stores.Carts().DeleteOne(ctx, userID, productID)
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.stores.Carts().DeleteByUser(ctx, userID)
}
