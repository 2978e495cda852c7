package domain

import (
	"errors"
	"fmt"
)

// Kind 业务错误类别，随响应一起返回给调用方（machine-readable）
type Kind string

const (
	KindValidation         Kind = "VALIDATION_ERROR"
	KindNotFound           Kind = "NOT_FOUND"
	KindDuplicateEmail     Kind = "DUPLICATE_EMAIL"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindNotAuthenticated   Kind = "NOT_AUTHENTICATED"
	KindNotAuthorized      Kind = "NOT_AUTHORIZED"
	KindInsufficientStock  Kind = "INSUFFICIENT_STOCK"
	KindEmptyCart          Kind = "EMPTY_CART"
)

// Error 调用方可见的业务错误；服务进程内部错误不走这里
type Error struct {
	Kind Kind
	Msg  string
	Err  error // 可选的底层原因，不对外序列化
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func E(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

func Validation(msg string) *Error   { return E(KindValidation, msg) }
func NotFound(msg string) *Error     { return E(KindNotFound, msg) }
func NotAuthorized(msg string) *Error {
	if msg == "" {
		msg = "not authorized"
	}
	return E(KindNotAuthorized, msg)
}

func NotAuthenticated() *Error {
	return E(KindNotAuthenticated, "not authenticated")
}

func InvalidCredentials() *Error {
	// 统一文案，不区分“邮箱不存在”与“密码错误”，避免账号枚举
	return E(KindInvalidCredentials, "invalid email or password")
}

func DuplicateEmail(email string) *Error {
	return E(KindDuplicateEmail, fmt.Sprintf("user with email %s already exists", email))
}

func EmptyCart() *Error { return E(KindEmptyCart, "cart is empty") }

// InsufficientStock 指明触发的商品、现有库存与请求数量
func InsufficientStock(name string, available, requested int) *Error {
	return E(KindInsufficientStock,
		fmt.Sprintf("insufficient stock for %q: %d available, %d requested", name, available, requested))
}

// KindOf 取错误类别；非业务错误返回空串
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }
