package service

import (
	"context"

	"go.uber.org/zap"

	"shopzone/internal/domain"
	"shopzone/pkg/utils"
)

// Pricing 结算参数：税率、免运费门槛、不满门槛时的固定运费
type Pricing struct {
	TaxRate         float64
	FreeShippingMin float64
	ShippingFlat    float64
}

// DefaultPricing 与门店文案一致：8.5% 税，满 $50 免运费，否则 $5.99
var DefaultPricing = Pricing{TaxRate: 0.085, FreeShippingMin: 50, ShippingFlat: 5.99}

// OrderService 下单与订单状态维护
type OrderService struct {
	stores  domain.Stores
	pricing Pricing
	log     *zap.Logger
}

func NewOrderService(stores domain.Stores, pricing Pricing, log *zap.Logger) *OrderService {
	return &OrderService{stores: stores, pricing: pricing, log: log}
}

// checkoutLine 规整后的一行：同商品多行已合并
type checkoutLine struct {
	productID string
	quantity  int
}

// Checkout 把购物车转成订单。整个写路径跑在一个事务里，
// 库存扣减是条件更新（stock >= qty 才生效），因此并发结算
// 不会把库存打成负数，失败时订单与明细一并回滚
func (s *OrderService) Checkout(ctx context.Context, userID, shippingAddress, paymentMethod string) (*domain.Order, error) {
	if shippingAddress == "" {
		return nil, domain.Validation("shipping address is required")
	}
	if paymentMethod == "" {
		return nil, domain.Validation("payment method is required")
	}

	// 1+2. 读购物车、丢弃孤儿行、合并重复商品
	items, err := s.stores.Carts().FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	lines := normalizeCart(items)

	// 3. 没有有效行：顺手清掉垃圾行再报 EmptyCart
	if len(lines) == 0 {
		if len(items) > 0 {
			if err := s.stores.Carts().DeleteByUser(ctx, userID); err != nil {
				s.log.Warn("stale cart cleanup failed", zap.String("userId", userID), zap.Error(err))
			}
		}
		return nil, domain.EmptyCart()
	}

	var orderID string
	err = s.stores.InTx(ctx, func(tx domain.Stores) error {
		// 4+5. 以事务内的当前库存/价格重新校验并计价
		subtotal := 0.0
		orderItems := make([]domain.OrderItem, 0, len(lines))
		for _, ln := range lines {
			p, err := tx.Products().FindByID(ctx, ln.productID)
			if err != nil {
				return err
			}
			if p == nil {
				// 读库到开启事务之间商品被删，按孤儿处理
				continue
			}
			if p.Stock < ln.quantity {
				return domain.InsufficientStock(p.Name, p.Stock, ln.quantity)
			}
			subtotal += p.Price * float64(ln.quantity)
			orderItems = append(orderItems, domain.OrderItem{
				ID:        utils.NewID(),
				ProductID: p.ID,
				Quantity:  ln.quantity,
				Price:     p.Price, // 下单时刻的价格快照
			})
		}
		if len(orderItems) == 0 {
			return domain.EmptyCart()
		}

		subtotal = round2(subtotal)
		tax := round2(subtotal * s.pricing.TaxRate)
		shipping := s.pricing.ShippingFlat
		if subtotal > s.pricing.FreeShippingMin {
			shipping = 0
		}
		total := round2(subtotal + tax + shipping)

		// 6+7. 订单连同明细落库，随后逐行条件扣减库存；
		// 任意一行扣减失败即整单回滚
		order := &domain.Order{
			ID:              utils.NewID(),
			UserID:          userID,
			Subtotal:        subtotal,
			Tax:             tax,
			Shipping:        shipping,
			Total:           total,
			Status:          domain.StatusPending,
			ShippingAddress: shippingAddress,
			PaymentMethod:   paymentMethod,
			Items:           orderItems,
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}

		for _, it := range order.Items {
			ok, err := tx.Products().DecrementStock(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				// 并发结算抢掉了库存；报当前值
				p, ferr := tx.Products().FindByID(ctx, it.ProductID)
				if ferr != nil || p == nil {
					return domain.InsufficientStock(it.ProductID, 0, it.Quantity)
				}
				return domain.InsufficientStock(p.Name, p.Stock, it.Quantity)
			}
		}

		// 8. 清空整个购物车（含残余孤儿行）
		if err := tx.Carts().DeleteByUser(ctx, userID); err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order created", zap.String("orderId", orderID), zap.String("userId", userID))
	// 9. 带商品快照回读
	return s.stores.Orders().FindByID(ctx, orderID)
}

// normalizeCart 丢弃孤儿行并把同一商品的多行数量求和；
// 唯一索引应当保证不出现重复行，这里只是防御
func normalizeCart(items []domain.CartItem) []checkoutLine {
	index := make(map[string]int, len(items))
	lines := make([]checkoutLine, 0, len(items))
	for _, it := range items {
		if it.Product == nil {
			continue
		}
		if i, ok := index[it.ProductID]; ok {
			lines[i].quantity += it.Quantity
			continue
		}
		index[it.ProductID] = len(lines)
		lines = append(lines, checkoutLine{productID: it.ProductID, quantity: it.Quantity})
	}
	return lines
}

func (s *OrderService) ListMine(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.stores.Orders().ListByUser(ctx, userID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.stores.Orders().ListAll(ctx)
}

// Get 本人或 admin 可见
func (s *OrderService) Get(ctx context.Context, id string, actor *domain.User) (*domain.Order, error) {
	o, err := s.stores.Orders().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NotFound("order not found")
	}
	if o.UserID != actor.ID && !actor.IsAdmin() {
		return nil, domain.NotAuthorized("")
	}
	return o, nil
}

// UpdateStatus 按状态机流转；买家只能取消自己 pending/processing 的单
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string, actor *domain.User) (*domain.Order, error) {
	o, err := s.stores.Orders().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NotFound("order not found")
	}
	if o.UserID != actor.ID && !actor.IsAdmin() {
		return nil, domain.NotAuthorized("")
	}
	if err := domain.CanTransition(o.Status, status, actor.IsAdmin()); err != nil {
		return nil, err
	}

	if err := s.stores.Orders().UpdateStatus(ctx, id, status); err != nil {
		if isNotFound(err) {
			return nil, domain.NotFound("order not found")
		}
		return nil, err
	}
	s.log.Info("order status updated",
		zap.String("orderId", id), zap.String("from", o.Status), zap.String("to", status),
		zap.String("actor", actor.ID), zap.Bool("admin", actor.IsAdmin()))
	o.Status = status
	return o, nil
}
