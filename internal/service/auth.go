package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/Hariharavelan7/Chat-Application/internal/jwt"
	"github.com/Hariharavelan7/Chat-Application/internal/model"
	"github.com/Hariharavelan7/Chat-Application/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=50"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	UserID       int64  `json:"user_id"`
	Name         string `json:"name"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// AuthService 认证服务
type AuthService struct {
	userRepo   *repository.UserRepository
	tokenRepo  *repository.TokenRepository
	jwtService *jwt.Service
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo *repository.UserRepository, tokenRepo *repository.TokenRepository, jwtService *jwt.Service) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
	}
}

// Register 用户注册
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*model.User, error) {
	// 密码加密
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		Name:         req.Name,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login 用户登录
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	// 查询用户
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 验证密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 生成 Token
	tokenPair, err := s.jwtService.GenerateTokenPair(user.ID)
	if err != nil {
		return nil, err
	}

	// 清理旧 Token，再保存新 Token 到 Redis
	if err := s.tokenRepo.DeleteOldToken(ctx, user.ID); err != nil {
		return nil, err
	}
	userInfo := &repository.UserTokenInfo{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}
	if err := s.tokenRepo.SaveToken(ctx, userInfo, tokenPair.AccessToken, s.jwtService.GetAccessExpire()); err != nil {
		return nil, err
	}

	return &LoginResponse{
		UserID:       user.ID,
		Name:         user.Name,
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    tokenPair.ExpiresAt,
	}, nil
}

// Logout 用户登出，使当前 Token 失效
func (s *AuthService) Logout(ctx context.Context, userID int64, accessToken string) error {
	return s.tokenRepo.DeleteToken(ctx, userID, accessToken)
}
