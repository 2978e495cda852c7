package repo_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"shopzone/internal/domain"
	"shopzone/internal/repo"
	"shopzone/pkg/utils"
)

var testDBSeq atomic.Int64

func newTestStores(t *testing.T) *repo.Stores {
	t.Helper()
	dsn := fmt.Sprintf("file:repo%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, repo.AutoMigrate(db))
	return repo.NewStores(db)
}

func TestDecrementStock(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	p := &domain.Product{ID: utils.NewID(), Name: "Widget", Price: 2.5, Category: "misc", Stock: 3}
	require.NoError(t, stores.Products().Create(ctx, p))

	ok, err := stores.Products().DecrementStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	// 剩 1，要 2：不生效且库存不变
	ok, err = stores.Products().DecrementStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := stores.Products().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stock)

	// 扣到 0 是允许的
	ok, err = stores.Products().DecrementStock(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	got, err = stores.Products().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
}

func TestInTxRollsBackEverything(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := stores.InTx(ctx, func(tx domain.Stores) error {
		if err := tx.Products().Create(ctx, &domain.Product{
			ID: utils.NewID(), Name: "Ghost", Price: 1, Category: "misc", Stock: 1,
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	rows, err := stores.Products().List(ctx, domain.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUserEmailUnique(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	mk := func() *domain.User {
		return &domain.User{
			ID: utils.NewID(), Email: "dup@example.com", PasswordHash: "x",
			FirstName: "A", LastName: "B", Role: domain.RoleCustomer, IsActive: true,
		}
	}
	require.NoError(t, stores.Users().Create(ctx, mk()))
	err := stores.Users().Create(ctx, mk())
	require.Error(t, err) // 唯一索引兜底并发注册
}

func TestCartRowUniquePerUserProduct(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	userID, productID := utils.NewID(), utils.NewID()
	mk := func() *domain.CartItem {
		return &domain.CartItem{ID: utils.NewID(), UserID: userID, ProductID: productID, Quantity: 1}
	}
	require.NoError(t, stores.Carts().Create(ctx, mk()))
	require.Error(t, stores.Carts().Create(ctx, mk()))

	// 另一个用户放同一商品不冲突
	other := &domain.CartItem{ID: utils.NewID(), UserID: utils.NewID(), ProductID: productID, Quantity: 1}
	require.NoError(t, stores.Carts().Create(ctx, other))
}

func TestOrderCreatePersistsItems(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	o := &domain.Order{
		ID: utils.NewID(), UserID: utils.NewID(),
		Subtotal: 20, Tax: 1.7, Shipping: 5.99, Total: 27.69,
		Status: domain.StatusPending, ShippingAddress: "1 Main St", PaymentMethod: "card",
		Items: []domain.OrderItem{
			{ID: utils.NewID(), ProductID: utils.NewID(), Quantity: 2, Price: 10},
		},
	}
	require.NoError(t, stores.Orders().Create(ctx, o))

	got, err := stores.Orders().FindByID(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, o.ID, got.Items[0].OrderID)
	assert.Equal(t, 10.0, got.Items[0].Price)

	require.NoError(t, stores.Orders().UpdateStatus(ctx, o.ID, domain.StatusProcessing))
	got, err = stores.Orders().FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, got.Status)
}
