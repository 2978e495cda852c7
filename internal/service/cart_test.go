package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopzone/internal/domain"
	"shopzone/pkg/utils"
)

func TestCartAddMergesQuantity(t *testing.T) {
	stores := newTestStores(t)
	cart := newCart(stores)
	ctx := context.Background()

	u := seedUser(t, stores, "shopper@example.com", domain.RoleCustomer)
	p := seedProduct(t, stores, "Pencil", 1.2, 10)

	it, err := cart.Add(ctx, u.ID, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, it.Quantity)
	require.NotNil(t, it.Product)
	assert.Equal(t, "Pencil", it.Product.Name)

	// 同商品再加是累加，不是覆盖，也不产生第二行
	it, err = cart.Add(ctx, u.ID, p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, it.Quantity)

	items, err := cart.Get(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestCartAddErrors(t *testing.T) {
	stores := newTestStores(t)
	cart := newCart(stores)
	ctx := context.Background()

	u := seedUser(t, stores, "shopper@example.com", domain.RoleCustomer)
	p := seedProduct(t, stores, "Scarce", 9.9, 2)

	_, err := cart.Add(ctx, u.ID, p.ID, 0)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = cart.Add(ctx, u.ID, utils.NewID(), 1)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	// 库存 2、要 3：报错且不得留下购物车行
	_, err = cart.Add(ctx, u.ID, p.ID, 3)
	assert.Equal(t, domain.KindInsufficientStock, domain.KindOf(err))
	items, err := cart.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartSetQuantity(t *testing.T) {
	stores := newTestStores(t)
	cart := newCart(stores)
	ctx := context.Background()

	u := seedUser(t, stores, "shopper@example.com", domain.RoleCustomer)
	p := seedProduct(t, stores, "Stapler", 6, 10)

	_, err := cart.SetQuantity(ctx, u.ID, p.ID, 4)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	_, err = cart.Add(ctx, u.ID, p.ID, 1)
	require.NoError(t, err)

	it, err := cart.SetQuantity(ctx, u.ID, p.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, it.Quantity) // 覆盖，不累加

	// 数量 <= 0 等同删除
	it, err = cart.SetQuantity(ctx, u.ID, p.ID, 0)
	require.NoError(t, err)
	assert.Nil(t, it)
	items, err := cart.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

// 商品被后台删掉之后，购物车读取要跳过孤儿行并顺手清理
func TestCartSelfHealsOrphans(t *testing.T) {
	stores := newTestStores(t)
	cart := newCart(stores)
	ctx := context.Background()

	u := seedUser(t, stores, "shopper@example.com", domain.RoleCustomer)
	live := seedProduct(t, stores, "Kept", 3, 5)
	doomed := seedProduct(t, stores, "Doomed", 3, 5)

	_, err := cart.Add(ctx, u.ID, live.ID, 1)
	require.NoError(t, err)
	item := &domain.CartItem{ID: utils.NewID(), UserID: u.ID, ProductID: doomed.ID, Quantity: 2}
	require.NoError(t, stores.Carts().Create(ctx, item))

	// 绕过 CatalogService.Delete 的购物车清理，直接删行，制造孤儿
	require.NoError(t, stores.Products().Delete(ctx, doomed.ID))

	items, err := cart.Get(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, live.ID, items[0].ProductID)

	// 孤儿行已被物理删除
	orphan, err := stores.Carts().FindOne(ctx, u.ID, doomed.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan)
}

func TestCartRemoveAndClear(t *testing.T) {
	stores := newTestStores(t)
	cart := newCart(stores)
	ctx := context.Background()

	u := seedUser(t, stores, "shopper@example.com", domain.RoleCustomer)
	p1 := seedProduct(t, stores, "One", 1, 9)
	p2 := seedProduct(t, stores, "Two", 2, 9)

	_, err := cart.Add(ctx, u.ID, p1.ID, 1)
	require.NoError(t, err)
	_, err = cart.Add(ctx, u.ID, p2.ID, 1)
	require.NoError(t, err)

	require.NoError(t, cart.Remove(ctx, u.ID, p1.ID))
	items, err := cart.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, cart.Clear(ctx, u.ID))
	items, err = cart.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
