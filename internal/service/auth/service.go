package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ashwinyue/next-mentor/internal/config"
)

var (
	ErrInvalidCredentials = errors.New("invalid passcode")
	ErrInvalidRole        = errors.New("role must be mentor or student")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Role 调用方身份
type Role string

const (
	RoleMentor  Role = "mentor"
	RoleStudent Role = "student"
)

// Valid 是否为已知身份
func (r Role) Valid() bool {
	return r == RoleMentor || r == RoleStudent
}

// Identity 已认证的调用方
type Identity struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role,omitempty"`
}

// Claims 访问令牌载荷
type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenRequest 签发令牌请求
type TokenRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Role     Role   `json:"role" binding:"required"`
	Passcode string `json:"passcode"`
}

// TokenResponse 签发令牌响应
type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
}

// Service 认证服务
type Service struct {
	secret       []byte
	passcodeHash []byte
	ttl          time.Duration
	now          func() time.Time
}

// NewService 创建认证服务
// 未配置密钥时生成随机密钥，重启后旧令牌失效
func NewService(cfg *config.AuthConfig) (*Service, error) {
	secret := strings.TrimSpace(cfg.JWTSecret)
	if secret == "" {
		randomBytes := make([]byte, 32)
		if _, err := rand.Read(randomBytes); err != nil {
			return nil, fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		secret = base64.StdEncoding.EncodeToString(randomBytes)
	}

	ttl := time.Duration(cfg.TokenTTL) * time.Minute
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	return &Service{
		secret:       []byte(secret),
		passcodeHash: []byte(strings.TrimSpace(cfg.PasscodeHash)),
		ttl:          ttl,
		now:          time.Now,
	}, nil
}

// IssueToken 校验口令并签发访问令牌
func (s *Service) IssueToken(ctx context.Context, req *TokenRequest) (*TokenResponse, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidCredentials)
	}
	if !req.Role.Valid() {
		return nil, ErrInvalidRole
	}

	// 未配置口令哈希时不校验
	if len(s.passcodeHash) > 0 {
		if err := bcrypt.CompareHashAndPassword(s.passcodeHash, []byte(req.Passcode)); err != nil {
			return nil, ErrInvalidCredentials
		}
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		Role: req.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt.UTC(),
		UserID:    userID,
		Role:      req.Role,
	}, nil
}

// ParseToken 验证令牌并返回调用方身份
func (s *Service) ParseToken(ctx context.Context, tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}

	return &Identity{UserID: claims.Subject, Role: claims.Role}, nil
}

// HashPasscode 生成口令的 bcrypt 哈希，用于写入配置
func HashPasscode(passcode string) (string, error) {
	if passcode == "" {
		return "", errors.New("passcode is empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash passcode: %w", err)
	}
	return string(hashed), nil
}
