package ez_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopzone/internal/domain"
	"shopzone/internal/transport/http/ez"
	resp "shopzone/internal/transport/http/response"
)

type echoIn struct {
	Name string `json:"name" binding:"required"`
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := ez.New(r.Group("/"))

	ez.RegisterAction[echoIn, gin.H](g, ez.Action[echoIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/echo",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *echoIn) (gin.H, error) {
			return gin.H{"name": in.Name}, nil
		},
	})
	ez.RegisterAction[struct{}, gin.H](g, ez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/fail/:kind",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			switch c.Param("kind") {
			case "notfound":
				return nil, domain.NotFound("order not found")
			case "stock":
				return nil, domain.InsufficientStock("Widget", 1, 2)
			case "creds":
				return nil, domain.InvalidCredentials()
			case "forbidden":
				return nil, domain.NotAuthorized("")
			case "empty":
				return nil, domain.EmptyCart()
			default:
				return nil, errors.New("disk on fire")
			}
		},
	})
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, body string) resp.Resp {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out resp.Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestActionSuccess(t *testing.T) {
	r := newTestRouter()
	out := do(t, r, http.MethodPost, "/echo", `{"name":"boxes"}`)
	assert.Equal(t, resp.CodeOK, out.Code)
	assert.Empty(t, out.Kind)
}

func TestActionBindFailureIsValidation(t *testing.T) {
	r := newTestRouter()
	out := do(t, r, http.MethodPost, "/echo", `{}`)
	assert.Equal(t, resp.CodeBadRequest, out.Code)
	assert.Equal(t, string(domain.KindValidation), out.Kind)
}

func TestErrorKindMapping(t *testing.T) {
	r := newTestRouter()
	cases := []struct {
		path     string
		wantCode int
		wantKind domain.Kind
	}{
		{"/fail/notfound", resp.CodeNotFound, domain.KindNotFound},
		{"/fail/stock", resp.CodeConflict, domain.KindInsufficientStock},
		{"/fail/creds", resp.CodeUnauthorized, domain.KindInvalidCredentials},
		{"/fail/forbidden", resp.CodeForbidden, domain.KindNotAuthorized},
		{"/fail/empty", resp.CodeBadRequest, domain.KindEmptyCart},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			out := do(t, r, http.MethodGet, tc.path, "")
			assert.Equal(t, tc.wantCode, out.Code)
			assert.Equal(t, string(tc.wantKind), out.Kind)
		})
	}
}

// 非业务错误不对外泄露细节
func TestUnexpectedErrorIsOpaque(t *testing.T) {
	r := newTestRouter()
	out := do(t, r, http.MethodGet, "/fail/other", "")
	assert.Equal(t, resp.CodeServerError, out.Code)
	assert.Equal(t, "internal error", out.Msg)
	assert.NotContains(t, out.Msg, "disk on fire")
}
