package router

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shopzone/internal/core/auth"
	"shopzone/internal/domain"
	"shopzone/internal/service"
)

// Deps 路由层依赖，全部在 main 里构造一次后注入；
// 不设包级注册表之类的全局状态
type Deps struct {
	Log    *zap.Logger
	DB     *gorm.DB // ez.Crud 直挂模型时用
	Stores domain.Stores
	JWTer  *auth.JWTer

	Catalog  *service.CatalogService
	Identity *service.IdentityService
	Cart     *service.CartService
	Orders   *service.OrderService
}
