package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shopzone/internal/core/auth"
	"shopzone/internal/domain"
	"shopzone/internal/repo"
	"shopzone/internal/service"
)

func newIdentity(stores *repo.Stores) *service.IdentityService {
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "shopzone-test", TTL: time.Hour}
	return service.NewIdentityService(stores, jwter, zap.NewNop())
}

func validRegister() service.RegisterInput {
	return service.RegisterInput{
		Email:     "Jane.Doe@Example.com",
		Password:  "secret1",
		FirstName: "Jane",
		LastName:  "Doe",
		Phone:     " 555-0101 ",
	}
}

func TestRegister(t *testing.T) {
	svc := newIdentity(newTestStores(t))
	ctx := context.Background()

	res, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "jane.doe@example.com", res.User.Email) // 邮箱落库前统一小写
	assert.Equal(t, "555-0101", res.User.Phone)
	assert.Equal(t, domain.RoleCustomer, res.User.Role)
	assert.True(t, res.User.IsActive)
	assert.NotEqual(t, "secret1", res.User.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	svc := newIdentity(newTestStores(t))
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*service.RegisterInput)
	}{
		{"no email", func(in *service.RegisterInput) { in.Email = " " }},
		{"malformed email", func(in *service.RegisterInput) { in.Email = "not-an-email" }},
		{"short password", func(in *service.RegisterInput) { in.Password = "12345" }},
		{"blank first name", func(in *service.RegisterInput) { in.FirstName = "  " }},
		{"blank last name", func(in *service.RegisterInput) { in.LastName = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validRegister()
			tc.mutate(&in)
			_, err := svc.Register(ctx, in)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newIdentity(newTestStores(t))
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	// 大小写不同也算同一个邮箱
	in := validRegister()
	in.Email = "JANE.DOE@EXAMPLE.COM"
	_, err = svc.Register(ctx, in)
	assert.Equal(t, domain.KindDuplicateEmail, domain.KindOf(err))
}

func TestLogin(t *testing.T) {
	svc := newIdentity(newTestStores(t))
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	res, err := svc.Login(ctx, "jane.doe@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	// 未知邮箱与错误密码必须给完全一样的回应
	_, errUnknown := svc.Login(ctx, "nobody@example.com", "secret1")
	_, errBadPass := svc.Login(ctx, "jane.doe@example.com", "wrong-1")
	assert.Equal(t, domain.KindInvalidCredentials, domain.KindOf(errUnknown))
	assert.Equal(t, domain.KindInvalidCredentials, domain.KindOf(errBadPass))
	assert.Equal(t, errUnknown.Error(), errBadPass.Error())
}

func TestLoginDeactivatedAccount(t *testing.T) {
	stores := newTestStores(t)
	svc := newIdentity(stores)
	ctx := context.Background()

	res, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	res.User.IsActive = false
	require.NoError(t, stores.Users().Update(ctx, res.User))

	_, err = svc.Login(ctx, res.User.Email, "secret1")
	assert.Equal(t, domain.KindNotAuthorized, domain.KindOf(err))
}

func TestUpdateProfile(t *testing.T) {
	svc := newIdentity(newTestStores(t))
	ctx := context.Background()

	res, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	first, phone := "Janet", ""
	u, err := svc.UpdateProfile(ctx, res.User.ID, service.ProfilePatch{FirstName: &first, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Janet", u.FirstName)
	assert.Equal(t, "Doe", u.LastName) // 未传字段不动
	assert.Empty(t, u.Phone)           // 空串清除手机号

	blank := "  "
	_, err = svc.UpdateProfile(ctx, res.User.ID, service.ProfilePatch{LastName: &blank})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestChangePassword(t *testing.T) {
	svc := newIdentity(newTestStores(t))
	ctx := context.Background()

	res, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)
	uid := res.User.ID

	assert.Equal(t, domain.KindInvalidCredentials,
		domain.KindOf(svc.ChangePassword(ctx, uid, "wrong-1", "newpass1")))
	assert.Equal(t, domain.KindValidation,
		domain.KindOf(svc.ChangePassword(ctx, uid, "secret1", "short")))

	require.NoError(t, svc.ChangePassword(ctx, uid, "secret1", "newpass1"))

	_, err = svc.Login(ctx, res.User.Email, "secret1")
	assert.Equal(t, domain.KindInvalidCredentials, domain.KindOf(err))
	_, err = svc.Login(ctx, res.User.Email, "newpass1")
	assert.NoError(t, err)
}

func TestListUsers(t *testing.T) {
	stores := newTestStores(t)
	svc := newIdentity(stores)
	ctx := context.Background()

	seedUser(t, stores, "a@example.com", domain.RoleCustomer)
	seedUser(t, stores, "b@example.com", domain.RoleCustomer)
	seedUser(t, stores, "c@example.com", domain.RoleAdmin)

	users, total, err := svc.ListUsers(ctx, 0, 0) // limit 0 回落到默认值
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, users, 3)

	users, total, err = svc.ListUsers(ctx, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, users, 2)
}
