package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"shopzone/internal/core/auth"
	"shopzone/internal/domain"
	"shopzone/pkg/utils"
)

const minPasswordLen = 6

// IdentityService 注册/登录/资料维护；密码只存 bcrypt 散列
type IdentityService struct {
	stores domain.Stores
	jwter  *auth.JWTer
	log    *zap.Logger
}

func NewIdentityService(stores domain.Stores, jwter *auth.JWTer, log *zap.Logger) *IdentityService {
	return &IdentityService{stores: stores, jwter: jwter, log: log}
}

type RegisterInput struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone"`
}

// AuthResult {token, user}，register/login 共用
type AuthResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.Validation("a valid email is required")
	}
	if len(in.Password) < minPasswordLen {
		return nil, domain.Validation("password must be at least 6 characters long")
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, domain.Validation("first and last name are required")
	}

	existing, err := s.stores.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.DuplicateEmail(email)
	}

	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		PasswordHash: utils.HashPassword(in.Password),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         domain.RoleCustomer,
		IsActive:     true,
	}
	if err := s.stores.Users().Create(ctx, u); err != nil {
		// 并发注册兜底：预检通过但唯一索引冲突
		if isDupKey(err) {
			return nil, domain.DuplicateEmail(email)
		}
		return nil, err
	}

	tok, err := s.jwter.Issue(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("email", u.Email))
	return &AuthResult{Token: tok, User: u}, nil
}

func (s *IdentityService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.Validation("email and password are required")
	}

	u, err := s.stores.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.InvalidCredentials()
	}
	if !u.IsActive {
		return nil, domain.NotAuthorized("account is deactivated")
	}

	tok, err := s.jwter.Issue(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	s.log.Info("user logged in", zap.String("email", u.Email))
	return &AuthResult{Token: tok, User: u}, nil
}

func (s *IdentityService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.stores.Users().FindByID(ctx, id)
}

// ProfilePatch 部分更新；nil 字段不动，Phone 传空串表示清除
type ProfilePatch struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
}

func (s *IdentityService) UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (*domain.User, error) {
	u, err := s.stores.Users().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound("user not found")
	}

	if patch.FirstName != nil {
		if strings.TrimSpace(*patch.FirstName) == "" {
			return nil, domain.Validation("first name must not be blank")
		}
		u.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		if strings.TrimSpace(*patch.LastName) == "" {
			return nil, domain.Validation("last name must not be blank")
		}
		u.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Phone != nil {
		u.Phone = strings.TrimSpace(*patch.Phone)
	}

	if err := s.stores.Users().Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *IdentityService) ChangePassword(ctx context.Context, id, current, next string) error {
	u, err := s.stores.Users().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.NotFound("user not found")
	}
	if !utils.CheckPassword(current, u.PasswordHash) {
		return domain.InvalidCredentials()
	}
	if len(next) < minPasswordLen {
		return domain.Validation("password must be at least 6 characters long")
	}
	u.PasswordHash = utils.HashPassword(next)
	return s.stores.Users().Update(ctx, u)
}

func (s *IdentityService) ListUsers(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	if limit <= 0 || limit > domain.MaxPageSize {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.stores.Users().List(ctx, offset, limit)
}

// Logout 无服务端会话可销毁，仅留审计日志
func (s *IdentityService) Logout(ctx context.Context, u *domain.User) {
	s.log.Info("user logged out", zap.String("email", u.Email), zap.String("role", u.Role))
}
