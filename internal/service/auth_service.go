package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"aj-fitness/config"
	"aj-fitness/internal/dto"
	"aj-fitness/pkg/jwt"
	"aj-fitness/pkg/redis"
)

var ErrInvalidCredentials = errors.New("用户名或密码错误")

// AuthService 操作员认证业务接口
// 会话只在 HTTP 边界校验，存储层与状态计算不感知登录态
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Logout 吊销当前会话 Token
	Logout(ctx context.Context, claims *jwt.Claims) error
}

type authService struct {
	cfg    *config.AuthConfig
	jwtMgr *jwt.Manager
	rdb    *redis.Client // 可为 nil，此时登出仅依赖 Token 自然过期
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.AuthConfig,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		jwtMgr: jwtMgr,
		rdb:    rdb,
		logger: logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 校验用户名
	if subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.cfg.OperatorUsername)) != 1 {
		s.logger.Warn("登录失败：用户名不匹配", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.OperatorPasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("登录失败：密码错误", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}

	// 3. 签发会话 Token
	token, err := s.jwtMgr.GenerateSessionToken(s.cfg.OperatorUsername)
	if err != nil {
		s.logger.Error("生成会话 Token 失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("操作员登录", zap.String("operator", s.cfg.OperatorUsername))

	return &dto.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int(s.jwtMgr.TTL().Seconds()),
		Operator:    s.cfg.OperatorUsername,
	}, nil
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.rdb == nil {
		s.logger.Warn("Redis 不可用，Token 将在过期后失效", zap.String("operator", claims.Operator))
		return nil
	}

	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.rdb.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("吊销 Token 失败", zap.Error(err))
		return err
	}

	s.logger.Info("操作员登出", zap.String("operator", claims.Operator))
	return nil
}
