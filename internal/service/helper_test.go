package service_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"shopzone/internal/domain"
	"shopzone/internal/repo"
	"shopzone/internal/service"
	"shopzone/pkg/utils"
)

var testDBSeq atomic.Int64

// newTestStores 每个测试一套独立的内存库；单连接，避免
// 内存模式下连接间看不到彼此的数据
func newTestStores(t *testing.T) *repo.Stores {
	t.Helper()
	dsn := fmt.Sprintf("file:svc%d?mode=memory&cache=shared", testDBSeq.Add(1))
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

func seedProduct(t *testing.T, stores *repo.Stores, name string, price float64, stock int) *domain.Product {
	t.Helper()
	p := &domain.Product{
		ID:       utils.NewID(),
		Name:     name,
		Price:    price,
		Category: "electronics",
		Stock:    stock,
	}
	require.NoError(t, stores.Products().Create(context.Background(), p))
	return p
}

func seedUser(t *testing.T, stores *repo.Stores, email, role string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		PasswordHash: utils.HashPassword("secret1"),
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, stores.Users().Create(context.Background(), u))
	return u
}

func newCatalog(stores *repo.Stores) *service.CatalogService {
	return service.NewCatalogService(stores, nil, 0, zap.NewNop())
}

func newCart(stores *repo.Stores) *service.CartService {
	return service.NewCartService(stores, zap.NewNop())
}

func newOrders(stores *repo.Stores) *service.OrderService {
	return service.NewOrderService(stores, service.DefaultPricing, zap.NewNop())
}
