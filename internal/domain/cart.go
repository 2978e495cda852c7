package domain

import (
	"context"
	"time"
)

// CartItem 每个 (userId, productId) 至多一行；合并在 AddItem 时完成，
// 复合唯一索引兜底并发写入
type CartItem struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_cart_user_product" json:"userId"`
	ProductID string    `gorm:"size:36;not null;uniqueIndex:idx_cart_user_product" json:"productId"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (CartItem) TableName() string { return "cart_items" }

type CartRepository interface {
	FindByUser(ctx context.Context, userID string) ([]CartItem, error)
	FindOne(ctx context.Context, userID, productID string) (*CartItem, error)
	Create(ctx context.Context, item *CartItem) error
	Update(ctx context.Context, item *CartItem) error
	DeleteOne(ctx context.Context, userID, productID string) error
	DeleteByUser(ctx context.Context, userID string) error
	// DeleteByProduct 商品删除时的引用清理
	DeleteByProduct(ctx context.Context, productID string) error
}
