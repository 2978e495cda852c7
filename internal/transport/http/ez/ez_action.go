package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shopzone/internal/domain"
	resp "shopzone/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / c.PostForm 取
)

// AErr 传输层错误（配合 resp.Error(int, msg)）；
// 业务错误走 domain.Error，在这里统一翻译
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// kindCode 业务错误类别 → 响应码
func kindCode(k domain.Kind) int {
	switch k {
	case domain.KindValidation, domain.KindEmptyCart:
		return resp.CodeBadRequest
	case domain.KindNotFound:
		return resp.CodeNotFound
	case domain.KindDuplicateEmail, domain.KindInsufficientStock:
		return resp.CodeConflict
	case domain.KindInvalidCredentials, domain.KindNotAuthenticated:
		return resp.CodeUnauthorized
	case domain.KindNotAuthorized:
		return resp.CodeForbidden
	default:
		return resp.CodeServerError
	}
}

// WriteErr 统一错误出口：业务错误带 kind 原样返回；
// 其余视为内部错误，不向调用方泄露细节
func WriteErr(c *gin.Context, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		c.JSON(http.StatusOK, resp.ErrorKind(kindCode(de.Kind), string(de.Kind), de.Error()))
		return
	}
	var ae *AErr
	if errors.As(err, &ae) {
		c.JSON(http.StatusOK, resp.Error(ae.Code, ae.Error()))
		return
	}
	_ = c.Error(err) // 交给访问日志
	c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, "internal error"))
}

// Action 非 CRUD 接口一行注册：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "DELETE"
	Path    string // 例："/auth/login"、"/orders/:id/status"
	Binder  Binder
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone
		}
		if bindErr != nil {
			c.JSON(http.StatusOK, resp.ErrorKind(resp.CodeBadRequest, string(domain.KindValidation), bindErr.Error()))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			WriteErr(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}
