package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"shopzone/internal/domain"
	"shopzone/internal/service"
	httpez "shopzone/internal/transport/http/ez"
	mdw "shopzone/internal/transport/http/middleware"
)

// NewAPIEngine 买家端：/api/v1
func NewAPIEngine(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		cors.Default(),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	api := r.Group("/api/v1")

	// 鉴权分组（购物车/订单/个人资料都挂这里）
	authUser := api.Group("")
	authUser.Use(mdw.AuthJWT(d.JWTer, d.Stores, ""))

	mountCatalogReads(api, d)
	mountAuthActions(api, authUser, d)
	mountCartActions(authUser, d)
	mountOrderActions(authUser, d)
	mountAddressBook(authUser, d)

	return r
}

// ---------- 商品（公开读） ----------

func mountCatalogReads(api *gin.RouterGroup, d Deps) {
	ez := httpez.New(api)

	type listQ struct {
		Category string `form:"category"`
		Search   string `form:"search"`
		Limit    int    `form:"limit,default=50"`
		Offset   int    `form:"offset,default=0"`
	}
	httpez.RegisterAction[listQ, []domain.Product](ez, httpez.Action[listQ, []domain.Product]{
		Method: http.MethodGet,
		Path:   "/products",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) ([]domain.Product, error) {
			return d.Catalog.List(c.Request.Context(), domain.ProductFilter{
				Category: in.Category,
				Search:   in.Search,
				Limit:    in.Limit,
				Offset:   in.Offset,
			})
		},
	})

	// 商品不存在返回 data=null（而非 404），与门店前端的空态渲染约定一致
	httpez.RegisterAction[struct{}, *domain.Product](ez, httpez.Action[struct{}, *domain.Product]{
		Method: http.MethodGet,
		Path:   "/products/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Product, error) {
			return d.Catalog.Get(c.Request.Context(), c.Param("id"))
		},
	})
}

// ---------- 注册/登录/个人资料 ----------

func mountAuthActions(api, authUser *gin.RouterGroup, d Deps) {
	ezPublic := httpez.New(api)

	httpez.RegisterAction[service.RegisterInput, *service.AuthResult](ezPublic,
		httpez.Action[service.RegisterInput, *service.AuthResult]{
			Method: http.MethodPost,
			Path:   "/auth/register",
			Binder: httpez.BindJSON,
			Handler: func(c *gin.Context, in *service.RegisterInput) (*service.AuthResult, error) {
				return d.Identity.Register(c.Request.Context(), *in)
			},
		})

	type loginIn struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	httpez.RegisterAction[loginIn, *service.AuthResult](ezPublic,
		httpez.Action[loginIn, *service.AuthResult]{
			Method: http.MethodPost,
			Path:   "/auth/login",
			Binder: httpez.BindJSON,
			Handler: func(c *gin.Context, in *loginIn) (*service.AuthResult, error) {
				return d.Identity.Login(c.Request.Context(), in.Email, in.Password)
			},
		})

	ezAuth := httpez.New(authUser)

	httpez.RegisterAction[struct{}, *domain.User](ezAuth, httpez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return mdw.CurrentUser(c), nil
		},
	})

	httpez.RegisterAction[service.ProfilePatch, *domain.User](ezAuth,
		httpez.Action[service.ProfilePatch, *domain.User]{
			Method: http.MethodPut,
			Path:   "/me",
			Binder: httpez.BindJSON,
			Handler: func(c *gin.Context, in *service.ProfilePatch) (*domain.User, error) {
				return d.Identity.UpdateProfile(c.Request.Context(), c.GetString(mdw.CtxUserID), *in)
			},
		})

	type pwIn struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required"`
	}
	httpez.RegisterAction[pwIn, gin.H](ezAuth, httpez.Action[pwIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/me/password",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *pwIn) (gin.H, error) {
			if err := d.Identity.ChangePassword(c.Request.Context(),
				c.GetString(mdw.CtxUserID), in.CurrentPassword, in.NewPassword); err != nil {
				return nil, err
			}
			return gin.H{"ok": true}, nil
		},
	})

	httpez.RegisterAction[struct{}, gin.H](ezAuth, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			d.Identity.Logout(c.Request.Context(), mdw.CurrentUser(c))
			return gin.H{"ok": true}, nil
		},
	})
}

// ---------- 购物车 ----------

func mountCartActions(authUser *gin.RouterGroup, d Deps) {
	ez := httpez.New(authUser)

	httpez.RegisterAction[struct{}, []domain.CartItem](ez, httpez.Action[struct{}, []domain.CartItem]{
		Method: http.MethodGet,
		Path:   "/cart",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.CartItem, error) {
			return d.Cart.Get(c.Request.Context(), c.GetString(mdw.CtxUserID))
		},
	})

	type addIn struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required"`
	}
	httpez.RegisterAction[addIn, *domain.CartItem](ez, httpez.Action[addIn, *domain.CartItem]{
		Method: http.MethodPost,
		Path:   "/cart/items",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *addIn) (*domain.CartItem, error) {
			return d.Cart.Add(c.Request.Context(), c.GetString(mdw.CtxUserID), in.ProductID, in.Quantity)
		},
	})

	type qtyIn struct {
		Quantity int `json:"quantity"`
	}
	// quantity <= 0 等同删除，返回 data=null
	httpez.RegisterAction[qtyIn, *domain.CartItem](ez, httpez.Action[qtyIn, *domain.CartItem]{
		Method: http.MethodPut,
		Path:   "/cart/items/:productId",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *qtyIn) (*domain.CartItem, error) {
			return d.Cart.SetQuantity(c.Request.Context(),
				c.GetString(mdw.CtxUserID), c.Param("productId"), in.Quantity)
		},
	})

	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/cart/items/:productId",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := d.Cart.Remove(c.Request.Context(),
				c.GetString(mdw.CtxUserID), c.Param("productId")); err != nil {
				return nil, err
			}
			return gin.H{"ok": true}, nil
		},
	})

	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/cart",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := d.Cart.Clear(c.Request.Context(), c.GetString(mdw.CtxUserID)); err != nil {
				return nil, err
			}
			return gin.H{"ok": true}, nil
		},
	})
}

// ---------- 订单 ----------

func mountOrderActions(authUser *gin.RouterGroup, d Deps) {
	ez := httpez.New(authUser)

	type checkoutIn struct {
		ShippingAddress string `json:"shippingAddress" binding:"required"`
		PaymentMethod   string `json:"paymentMethod" binding:"required"`
	}
	httpez.RegisterAction[checkoutIn, *domain.Order](ez, httpez.Action[checkoutIn, *domain.Order]{
		Method: http.MethodPost,
		Path:   "/orders",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *checkoutIn) (*domain.Order, error) {
			return d.Orders.Checkout(c.Request.Context(),
				c.GetString(mdw.CtxUserID), in.ShippingAddress, in.PaymentMethod)
		},
	})

	httpez.RegisterAction[struct{}, []domain.Order](ez, httpez.Action[struct{}, []domain.Order]{
		Method: http.MethodGet,
		Path:   "/orders",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Order, error) {
			return d.Orders.ListMine(c.Request.Context(), c.GetString(mdw.CtxUserID))
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
	// 买家这里只能把自己的单取消；其余流转走 admin 端
	httpez.RegisterAction[statusIn, *domain.Order](ez, httpez.Action[statusIn, *domain.Order]{
		Method: http.MethodPost,
		Path:   "/orders/:id/status",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *statusIn) (*domain.Order, error) {
			return d.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), in.Status, mdw.CurrentUser(c))
		},
	})
}

// ---------- 地址簿（ez.Crud 直挂，归属用户） ----------

func mountAddressBook(authUser *gin.RouterGroup, d Deps) {
	// 置默认地址时清掉该用户其余默认位（同请求内先清后写）
	clearOtherDefaults := func(c *gin.Context, a *domain.Address) error {
		if !a.IsDefault {
			return nil
		}
		return d.DB.WithContext(c.Request.Context()).
			Model(&domain.Address{}).
			Where("user_id = ? AND id <> ?", a.UserID, a.ID).
			Update("is_default", false).Error
	}

	httpez.Crud[domain.Address](httpez.CrudConfig[domain.Address]{
		DB:    d.DB,
		Group: authUser,
		Path:  "/addresses",
		New:   func() *domain.Address { return &domain.Address{} },
		Hooks: httpez.CrudHooks[domain.Address]{
			BeforeCreate: clearOtherDefaults,
			BeforeUpdate: clearOtherDefaults,
		},
		OrderBy: "created_at DESC",
	})
}
