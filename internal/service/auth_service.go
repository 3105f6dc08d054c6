package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"intern_hub_backend/internal/model"
	"intern_hub_backend/internal/repository"
	"intern_hub_backend/internal/util"
	"intern_hub_backend/pkg/logger"
	"intern_hub_backend/pkg/monitoring"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Name     string         `json:"name" binding:"required,min=1,max=100"`
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required,min=8,max=72"`
	Role     model.UserRole `json:"role" binding:"omitempty,oneof=intern external"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleTokenInput struct {
	IDToken string `json:"idToken" binding:"required"`
}

// AuthResult 登录/注册的响应
type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type AuthService struct {
	UserRepo  *repository.UserRepository
	StateRepo *repository.OAuthStateRepository
	Tokens    *util.TokenIssuer
	Google    GoogleProvider
}

func NewAuthService(userRepo *repository.UserRepository, stateRepo *repository.OAuthStateRepository, tokens *util.TokenIssuer, google GoogleProvider) *AuthService {
	return &AuthService{
		UserRepo:  userRepo,
		StateRepo: stateRepo,
		Tokens:    tokens,
		Google:    google,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	_, err := s.UserRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = model.Intern
	}
	provider := model.ProviderLocal
	user := &model.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: string(hashedPassword),
		Role:     role,
		Provider: &provider,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrEmailRegistered
		}
		return nil, err
	}

	logger.Log.Info("User registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return s.issue(user)
}

// Login 校验邮箱密码；用户不存在和密码错误返回同一错误
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.UserRepo.FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			monitoring.AuthAttempts.WithLabelValues("password", "failure").Inc()
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		monitoring.AuthAttempts.WithLabelValues("password", "failure").Inc()
		return nil, util.ErrInvalidCredentials
	}

	monitoring.AuthAttempts.WithLabelValues("password", "success").Inc()
	return s.issue(user)
}

func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.Tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) googleEnabled() bool {
	return s.Google != nil && s.StateRepo != nil
}

// GoogleAuthURL 生成一次性 state 并返回 Google 授权地址
func (s *AuthService) GoogleAuthURL(ctx context.Context) (string, error) {
	if !s.googleEnabled() {
		return "", util.ErrOAuthDisabled
	}
	state := model.GenerateUUID()
	if err := s.StateRepo.Save(ctx, state, util.OAuthStateTTL*time.Second); err != nil {
		return "", err
	}
	return s.Google.AuthCodeURL(state), nil
}

func (s *AuthService) GoogleCallback(ctx context.Context, state, code string) (*AuthResult, error) {
	if !s.googleEnabled() {
		return nil, util.ErrOAuthDisabled
	}
	ok, err := s.StateRepo.Consume(ctx, state)
	if err != nil {
		return nil, err
	}
	if !ok {
		monitoring.AuthAttempts.WithLabelValues("google", "failure").Inc()
		return nil, util.ErrInvalidOAuthState
	}

	profile, err := s.Google.Exchange(ctx, code)
	if err != nil {
		monitoring.AuthAttempts.WithLabelValues("google", "failure").Inc()
		logger.Log.Warn("Google code exchange failed", zap.Error(err))
		return nil, util.ErrInvalidCredentials
	}
	return s.loginGoogleUser(ctx, profile)
}

func (s *AuthService) GoogleIDTokenLogin(ctx context.Context, idToken string) (*AuthResult, error) {
	if s.Google == nil {
		return nil, util.ErrOAuthDisabled
	}
	profile, err := s.Google.VerifyIDToken(ctx, idToken)
	if err != nil {
		monitoring.AuthAttempts.WithLabelValues("google_id_token", "failure").Inc()
		logger.Log.Warn("Google ID token rejected", zap.Error(err))
		return nil, util.ErrInvalidCredentials
	}
	return s.loginGoogleUser(ctx, profile)
}

// loginGoogleUser 按邮箱查找用户，不存在则以 intern 角色创建
func (s *AuthService) loginGoogleUser(ctx context.Context, profile *GoogleProfile) (*AuthResult, error) {
	email := normalizeEmail(profile.Email)
	if email == "" {
		return nil, fmt.Errorf("google profile without email: %w", util.ErrInvalidCredentials)
	}
	// 未验证的邮箱不能用来匹配已有账号
	if !profile.EmailVerified {
		monitoring.AuthAttempts.WithLabelValues("google", "failure").Inc()
		return nil, fmt.Errorf("google email %s is not verified: %w", email, util.ErrInvalidCredentials)
	}

	user, err := s.UserRepo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		provider := model.ProviderGoogle
		name := profile.Name
		if name == "" {
			name = strings.SplitN(email, "@", 2)[0]
		}
		user = &model.User{
			Name:     name,
			Email:    email,
			Role:     model.Intern,
			Provider: &provider,
		}
		if profile.Picture != "" {
			picture := profile.Picture
			user.Avatar = &picture
		}
		if err := s.UserRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		logger.Log.Info("User created from Google login", zap.String("user_id", user.ID))
	case err != nil:
		return nil, err
	case user.Avatar == nil && profile.Picture != "":
		if err := s.UserRepo.Update(ctx, user.ID, map[string]interface{}{"avatar": profile.Picture}); err != nil {
			return nil, err
		}
		picture := profile.Picture
		user.Avatar = &picture
	}

	monitoring.AuthAttempts.WithLabelValues("google", "success").Inc()
	return s.issue(user)
}
