package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shopzone/internal/core/auth"
	"shopzone/internal/domain"
	resp "shopzone/internal/transport/http/response"
)

const (
	CtxUserID = "userId"
	CtxRole   = "role"
	CtxUser   = "user"
)

// AuthJWT 认证闸：令牌有效且指向未停用的现存用户才放行。
// 角色取自用户行而非令牌，改角色即时生效。
// requireRole 非空时附加授权闸（admin 路由组用）
func AuthJWT(j *auth.JWTer, stores domain.Stores, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			abortUnauthenticated(c, "missing token")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			abortUnauthenticated(c, "invalid token")
			return
		}

		u, err := stores.Users().FindByID(c.Request.Context(), claims.UID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeServerError, "internal error"))
			return
		}
		if u == nil || !u.IsActive {
			abortUnauthenticated(c, "invalid token")
			return
		}

		if requireRole != "" && u.Role != requireRole {
			c.AbortWithStatusJSON(http.StatusOK,
				resp.ErrorKind(resp.CodeForbidden, string(domain.KindNotAuthorized), "forbidden"))
			return
		}

		c.Set(CtxUserID, u.ID)
		c.Set(CtxRole, u.Role)
		c.Set(CtxUser, u)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusOK,
		resp.ErrorKind(resp.CodeUnauthorized, string(domain.KindNotAuthenticated), msg))
}

// CurrentUser 取 AuthJWT 放进上下文的用户；未经过认证中间件时返回 nil
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
