package domain

import "context"

// Stores 持久层的统一入口：进程启动时构造一次、注入各服务，
// 不使用包级全局句柄。InTx 内拿到的 Stores 绑定同一个事务，
// 结算等多表写必须经由它保证 all-or-nothing
type Stores interface {
	Users() UserRepository
	Products() ProductRepository
	Carts() CartRepository
	Orders() OrderRepository
	InTx(ctx context.Context, fn func(tx Stores) error) error
}
