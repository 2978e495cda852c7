package repo

import (
	"context"

	"gorm.io/gorm"

	"shopzone/internal/domain"
)

// Stores 把各 gorm 仓库挂在同一个 db 句柄上；InTx 用事务句柄
// 重新绑定一份，回调内的所有读写同属一个事务
type Stores struct {
	db       *gorm.DB
	users    *UserRepo
	products *ProductRepo
	carts    *CartRepo
	orders   *OrderRepo
}

func NewStores(db *gorm.DB) *Stores {
	return &Stores{
		db:       db,
		users:    NewUserRepo(db),
		products: NewProductRepo(db),
		carts:    NewCartRepo(db),
		orders:   NewOrderRepo(db),
	}
}

func (s *Stores) Users() domain.UserRepository       { return s.users }
func (s *Stores) Products() domain.ProductRepository { return s.products }
func (s *Stores) Carts() domain.CartRepository       { return s.carts }
func (s *Stores) Orders() domain.OrderRepository     { return s.orders }

func (s *Stores) InTx(ctx context.Context, fn func(tx domain.Stores) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStores(tx))
	})
}

// AutoMigrate 建表；由启动流程按 db.automigrate 配置触发
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Product{},
		&domain.CartItem{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.Address{},
	)
}
