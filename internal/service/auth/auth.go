// Package auth 实现请求方身份校验
// 令牌由上游身份服务签发，这里只做 HMAC 验签和主体提取
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mathsolver/mathchat/internal/service/types"
)

// Service 认证服务
type Service struct {
	secret []byte
}

// NewService 创建认证服务
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// ValidateToken 验证令牌并返回其主体的用户 ID
// 缺失、损坏、过期或签名不符的令牌一律返回 ErrAuthorization
func (s *Service) ValidateToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", fmt.Errorf("missing token: %w", types.ErrAuthorization)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token: %w", types.ErrAuthorization)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims: %w", types.ErrAuthorization)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("missing subject in token: %w", types.ErrAuthorization)
	}
	return sub, nil
}
