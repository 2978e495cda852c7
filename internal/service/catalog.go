package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"shopzone/internal/core/cache"
	"shopzone/internal/domain"
	"shopzone/pkg/utils"
)

const productCacheKeyPrefix = "product:"

// CatalogService 商品目录：读公开，写仅 admin（路由层把关）
type CatalogService struct {
	stores domain.Stores
	cache  *cache.Cache // 可为 nil（测试、无 redis 环境）
	ttl    time.Duration
	log    *zap.Logger
}

func NewCatalogService(stores domain.Stores, c *cache.Cache, ttl time.Duration, log *zap.Logger) *CatalogService {
	return &CatalogService{stores: stores, cache: c, ttl: ttl, log: log}
}

func (s *CatalogService) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	return s.stores.Products().List(ctx, f)
}

// Get 走 redis 读穿；商品不存在返回 (nil, nil)
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	if s.cache == nil {
		return s.stores.Products().FindByID(ctx, id)
	}
	return cache.GetOrLoadJSON[domain.Product](s.cache, ctx, productCacheKeyPrefix+id, s.ttl,
		func(ctx context.Context) (*domain.Product, error) {
			return s.stores.Products().FindByID(ctx, id)
		})
}

type ProductInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category" binding:"required"`
	Image       string  `json:"image"`
	Stock       int     `json:"stock"`
}

func validateProductInput(name string, price float64, stock int) error {
	if strings.TrimSpace(name) == "" {
		return domain.Validation("product name is required")
	}
	if price < 0 {
		return domain.Validation("price must not be negative")
	}
	if stock < 0 {
		return domain.Validation("stock must not be negative")
	}
	return nil
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if err := validateProductInput(in.Name, in.Price, in.Stock); err != nil {
		return nil, err
	}
	p := &domain.Product{
		ID:          utils.NewID(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Category:    strings.TrimSpace(in.Category),
		Image:       in.Image,
		Stock:       in.Stock,
	}
	if err := s.stores.Products().Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("product created", zap.String("id", p.ID), zap.String("name", p.Name))
	return p, nil
}

// ProductPatch 部分更新；nil 字段不动
type ProductPatch struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Image       *string  `json:"image"`
	Stock       *int     `json:"stock"`
}

func (s *CatalogService) Update(ctx context.Context, id string, patch ProductPatch) (*domain.Product, error) {
	p, err := s.stores.Products().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("product not found")
	}

	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Category != nil {
		p.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if err := validateProductInput(p.Name, p.Price, p.Stock); err != nil {
		return nil, err
	}

	if err := s.stores.Products().Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return p, nil
}

// Delete 同一事务里清掉引用该商品的购物车行；
// order_items 是历史快照，保留
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	err := s.stores.InTx(ctx, func(tx domain.Stores) error {
		if err := tx.Carts().DeleteByProduct(ctx, id); err != nil {
			return err
		}
		if err := tx.Products().Delete(ctx, id); err != nil {
			if isNotFound(err) {
				return domain.NotFound("product not found")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.log.Info("product deleted", zap.String("id", id))
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, productCacheKeyPrefix+id)
	}
}
