package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// tokenUserPrefix 用户Token前缀: user:token:{user_id} -> accessToken
	tokenUserPrefix = "user:token:"
	// tokenInfoPrefix Token信息前缀: token:info:{accessToken} -> userInfo JSON
	tokenInfoPrefix = "token:info:"
)

// UserTokenInfo 存储在Redis中的用户信息
type UserTokenInfo struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// TokenRepository Token 数据访问层
type TokenRepository struct {
	rdb *redis.Client
}

// NewTokenRepository 创建 Token Repository
func NewTokenRepository(rdb *redis.Client) *TokenRepository {
	return &TokenRepository{rdb: rdb}
}

// buildUserTokenKey 构建用户Token的Key: user:token:{user_id}
func buildUserTokenKey(userID int64) string {
	return fmt.Sprintf("%s%d", tokenUserPrefix, userID)
}

// buildTokenInfoKey 构建Token信息的Key: token:info:{accessToken}
func buildTokenInfoKey(accessToken string) string {
	return tokenInfoPrefix + accessToken
}

// SaveToken 保存Token到Redis
// 1. user:token:{user_id} -> accessToken
// 2. token:info:{accessToken} -> userInfo JSON
func (r *TokenRepository) SaveToken(ctx context.Context, userInfo *UserTokenInfo, accessToken string, expiration time.Duration) error {
	userTokenKey := buildUserTokenKey(userInfo.UserID)
	tokenInfoKey := buildTokenInfoKey(accessToken)

	userInfoJSON, err := json.Marshal(userInfo)
	if err != nil {
		return fmt.Errorf("failed to marshal user info: %w", err)
	}

	// 使用 Pipeline 批量执行
	pipe := r.rdb.Pipeline()
	pipe.Set(ctx, userTokenKey, accessToken, expiration)
	pipe.Set(ctx, tokenInfoKey, userInfoJSON, expiration)
	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	return nil
}

// GetUserInfoByToken 根据Token获取用户信息，不存在返回 nil
func (r *TokenRepository) GetUserInfoByToken(ctx context.Context, accessToken string) (*UserTokenInfo, error) {
	key := buildTokenInfoKey(accessToken)
	data, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var userInfo UserTokenInfo
	if err := json.Unmarshal([]byte(data), &userInfo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user info: %w", err)
	}

	return &userInfo, nil
}

// GetCurrentToken 获取用户当前有效的Token
func (r *TokenRepository) GetCurrentToken(ctx context.Context, userID int64) (string, error) {
	key := buildUserTokenKey(userID)
	token, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return token, err
}

// IsTokenCurrent 检查传入的Token是否是该用户当前有效的Token
func (r *TokenRepository) IsTokenCurrent(ctx context.Context, userID int64, token string) (bool, error) {
	currentToken, err := r.GetCurrentToken(ctx, userID)
	if err != nil {
		return false, err
	}
	return currentToken != "" && currentToken == token, nil
}

// DeleteToken 删除Token（登出时使用）
func (r *TokenRepository) DeleteToken(ctx context.Context, userID int64, accessToken string) error {
	pipe := r.rdb.Pipeline()
	pipe.Del(ctx, buildTokenInfoKey(accessToken))
	pipe.Del(ctx, buildUserTokenKey(userID))
	_, err := pipe.Exec(ctx)
	return err
}

// DeleteOldToken 删除旧Token（重新登录时清理旧Token）
func (r *TokenRepository) DeleteOldToken(ctx context.Context, userID int64) error {
	userTokenKey := buildUserTokenKey(userID)
	oldToken, err := r.rdb.Get(ctx, userTokenKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	return r.rdb.Del(ctx, buildTokenInfoKey(oldToken)).Err()
}
