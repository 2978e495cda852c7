package domain

import (
	"context"
	"time"
)

// 订单状态机：pending → processing → shipped → delivered；
// pending|processing → cancelled（买家只能走这一条）；
// delivered/cancelled/refunded 为终态，任何人不得再转出
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
	StatusRefunded   = "refunded"
)

var orderStatuses = map[string]struct{}{
	StatusPending:    {},
	StatusProcessing: {},
	StatusShipped:    {},
	StatusDelivered:  {},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

func ValidOrderStatus(s string) bool {
	_, ok := orderStatuses[s]
	return ok
}

func TerminalOrderStatus(s string) bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusRefunded
}

// CanTransition 校验一次状态迁移。admin 可在非终态之间任意迁移；
// 买家（owner）只能把自己 pending/processing 的订单取消
func CanTransition(from, to string, admin bool) error {
	if !ValidOrderStatus(to) {
		return Validation("invalid order status: " + to)
	}
	if TerminalOrderStatus(from) {
		return Validation("order already " + from)
	}
	if admin {
		return nil
	}
	if to != StatusCancelled {
		return NotAuthorized("customers may only cancel their own orders")
	}
	if from != StatusPending && from != StatusProcessing {
		return NotAuthorized("order can no longer be cancelled")
	}
	return nil
}

type Order struct {
	ID              string      `gorm:"primaryKey;size:36" json:"id"`
	UserID          string      `gorm:"size:36;not null;index" json:"userId"`
	Subtotal        float64     `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Tax             float64     `gorm:"type:decimal(10,2);not null" json:"tax"`
	Shipping        float64     `gorm:"type:decimal(10,2);not null" json:"shipping"`
	Total           float64     `gorm:"type:decimal(10,2);not null" json:"total"`
	Status          string      `gorm:"size:50;not null" json:"status"`
	ShippingAddress string      `gorm:"type:text;not null" json:"shippingAddress"`
	PaymentMethod   string      `gorm:"size:100;not null" json:"paymentMethod"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

func (Order) TableName() string { return "orders" }

// OrderItem 创建后不可变；Price 是下单时刻的快照，商品改价不回溯
type OrderItem struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	OrderID   string    `gorm:"size:36;not null;index" json:"orderId"`
	ProductID string    `gorm:"size:36;not null" json:"productId"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (OrderItem) TableName() string { return "order_items" }

type OrderRepository interface {
	// Create 连同 Items 一起落库
	Create(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
