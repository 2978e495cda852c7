package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopzone/internal/domain"
	"shopzone/internal/repo"
	"shopzone/pkg/utils"
)

// placeOrder 给状态机测试铺一笔 pending 订单
func placeOrder(t *testing.T, stores *repo.Stores, userID string) *domain.Order {
	t.Helper()
	ctx := context.Background()
	p := seedProduct(t, stores, "Fixture", 10.00, 100)
	require.NoError(t, stores.Carts().Create(ctx, &domain.CartItem{
		ID: utils.NewID(), UserID: userID, ProductID: p.ID, Quantity: 1,
	}))
	o, err := newOrders(stores).Checkout(ctx, userID, "1 Main St", "card")
	require.NoError(t, err)
	return o
}

func TestOrderGetOwnership(t *testing.T) {
	stores := newTestStores(t)
	orders := newOrders(stores)
	ctx := context.Background()

	owner := seedUser(t, stores, "owner@example.com", domain.RoleCustomer)
	other := seedUser(t, stores, "other@example.com", domain.RoleCustomer)
	admin := seedUser(t, stores, "admin@example.com", domain.RoleAdmin)
	o := placeOrder(t, stores, owner.ID)

	got, err := orders.Get(ctx, o.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	_, err = orders.Get(ctx, o.ID, other)
	assert.Equal(t, domain.KindNotAuthorized, domain.KindOf(err))

	_, err = orders.Get(ctx, o.ID, admin)
	assert.NoError(t, err)

	_, err = orders.Get(ctx, utils.NewID(), admin)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestOrderListMineScoped(t *testing.T) {
	stores := newTestStores(t)
	orders := newOrders(stores)
	ctx := context.Background()

	a := seedUser(t, stores, "a@example.com", domain.RoleCustomer)
	b := seedUser(t, stores, "b@example.com", domain.RoleCustomer)
	placeOrder(t, stores, a.ID)
	placeOrder(t, stores, a.ID)
	placeOrder(t, stores, b.ID)

	mine, err := orders.ListMine(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := orders.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestOrderCustomerCancellation(t *testing.T) {
	stores := newTestStores(t)
	orders := newOrders(stores)
	ctx := context.Background()

	owner := seedUser(t, stores, "owner@example.com", domain.RoleCustomer)
	other := seedUser(t, stores, "other@example.com", domain.RoleCustomer)
	o := placeOrder(t, stores, owner.ID)

	// 别人的单不能动
	_, err := orders.UpdateStatus(ctx, o.ID, domain.StatusCancelled, other)
	assert.Equal(t, domain.KindNotAuthorized, domain.KindOf(err))

	// 买家不能推进状态
	_, err = orders.UpdateStatus(ctx, o.ID, domain.StatusShipped, owner)
	assert.Equal(t, domain.KindNotAuthorized, domain.KindOf(err))

	// pending 可以取消
	updated, err := orders.UpdateStatus(ctx, o.ID, domain.StatusCancelled, owner)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, updated.Status)

	// 终态之后不得再动
	_, err = orders.UpdateStatus(ctx, o.ID, domain.StatusPending, owner)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestOrderAdminStatusFlow(t *testing.T) {
	stores := newTestStores(t)
	orders := newOrders(stores)
	ctx := context.Background()

	owner := seedUser(t, stores, "owner@example.com", domain.RoleCustomer)
	admin := seedUser(t, stores, "admin@example.com", domain.RoleAdmin)
	o := placeOrder(t, stores, owner.ID)

	for _, next := range []string{domain.StatusProcessing, domain.StatusShipped, domain.StatusDelivered} {
		updated, err := orders.UpdateStatus(ctx, o.ID, next, admin)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	// delivered 是终态，admin 也出不去
	_, err := orders.UpdateStatus(ctx, o.ID, domain.StatusRefunded, admin)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = orders.UpdateStatus(ctx, o.ID, "unknown", admin)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = orders.UpdateStatus(ctx, utils.NewID(), domain.StatusProcessing, admin)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}
