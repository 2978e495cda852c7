package router

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopzone/internal/domain"
	"shopzone/internal/service"
	httpez "shopzone/internal/transport/http/ez"
	mdw "shopzone/internal/transport/http/middleware"
)

// NewAdminEngine 管理端：/admin/v1，统一要求 admin 角色
func NewAdminEngine(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		// 后台流量小，用现成的 ginzap 对；买家端才上带脱敏的 AccessLog
		ginzap.Ginzap(d.Log, time.RFC3339, true),
		ginzap.RecoveryWithZap(d.Log, true),
		mdw.Metrics(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(d.JWTer, d.Stores, domain.RoleAdmin))

	mountAdminCatalog(admin, d)
	mountAdminUsers(admin, d)
	mountAdminOrders(admin, d)

	return r
}

// ---------- 商品维护 ----------

func mountAdminCatalog(admin *gin.RouterGroup, d Deps) {
	ez := httpez.New(admin)

	httpez.RegisterAction[service.ProductInput, *domain.Product](ez,
		httpez.Action[service.ProductInput, *domain.Product]{
			Method: http.MethodPost,
			Path:   "/products",
			Binder: httpez.BindJSON,
			Handler: func(c *gin.Context, in *service.ProductInput) (*domain.Product, error) {
				return d.Catalog.Create(c.Request.Context(), *in)
			},
		})

	httpez.RegisterAction[service.ProductPatch, *domain.Product](ez,
		httpez.Action[service.ProductPatch, *domain.Product]{
			Method: http.MethodPut,
			Path:   "/products/:id",
			Binder: httpez.BindJSON,
			Handler: func(c *gin.Context, in *service.ProductPatch) (*domain.Product, error) {
				return d.Catalog.Update(c.Request.Context(), c.Param("id"), *in)
			},
		})

	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/products/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := d.Catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
				return nil, err
			}
			return gin.H{"ok": true}, nil
		},
	})
}

// ---------- 用户列表 ----------

func mountAdminUsers(admin *gin.RouterGroup, d Deps) {
	ez := httpez.New(admin)

	type listQ struct {
		Offset int `form:"offset,default=0"`
		Limit  int `form:"limit,default=20"`
	}
	type listOut struct {
		Total int64         `json:"total"`
		Items []domain.User `json:"items"`
	}
	httpez.RegisterAction[listQ, listOut](ez, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			users, total, err := d.Identity.ListUsers(c.Request.Context(), in.Offset, in.Limit)
			if err != nil {
				return listOut{}, err
			}
			return listOut{Total: total, Items: users}, nil
		},
	})
}

// ---------- 订单管理 ----------

func mountAdminOrders(admin *gin.RouterGroup, d Deps) {
	ez := httpez.New(admin)

	httpez.RegisterAction[struct{}, []domain.Order](ez, httpez.Action[struct{}, []domain.Order]{
		Method: http.MethodGet,
		Path:   "/orders",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Order, error) {
			return d.Orders.ListAll(c.Request.Context())
		},
	})

	httpez.RegisterAction[struct{}, *domain.Order](ez, httpez.Action[struct{}, *domain.Order]{
		Method: http.MethodGet,
		Path:   "/orders/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Order, error) {
			return d.Orders.Get(c.Request.Context(), c.Param("id"), mdw.CurrentUser(c))
		},
	})

	type statusIn struct {
		Status string `json:"status" binding:"required"`
	}
	httpez.RegisterAction[statusIn, *domain.Order](ez, httpez.Action[statusIn, *domain.Order]{
		Method: http.MethodPost,
		Path:   "/orders/:id/status",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *statusIn) (*domain.Order, error) {
			return d.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), in.Status, mdw.CurrentUser(c))
		},
	})
}
