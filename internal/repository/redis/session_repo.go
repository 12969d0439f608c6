package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
	ErrExtendFailed     = errors.New("token extend failed")
	ErrTokenDeleted     = errors.New("token delete failed")
)

const (
	sessionPrefix = "login:user:token"
	sessionExpire = 30 * time.Minute
)

// SessionRepository 单点登录：每个用户同时只有一个有效 access token。
type SessionRepository struct {
	Client *redis.Client
}

func sessionKey(userID uint64) string {
	return fmt.Sprintf("%s:%d", sessionPrefix, userID)
}

func (r *SessionRepository) AddUserToken(ctx context.Context, userID uint64, token string) error {
	if err := r.Client.Set(ctx, sessionKey(userID), token, sessionExpire).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *SessionRepository) GetUserToken(ctx context.Context, userID uint64) (string, error) {
	token, err := r.Client.Get(ctx, sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return token, nil
}

// ExtendUserToken 校验通过后滑动续期
func (r *SessionRepository) ExtendUserToken(ctx context.Context, userID uint64) error {
	if _, err := r.Client.Expire(ctx, sessionKey(userID), sessionExpire).Result(); err != nil {
		return ErrExtendFailed
	}
	return nil
}

func (r *SessionRepository) DeleteUserToken(ctx context.Context, userID uint64) error {
	if err := r.Client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return ErrTokenDeleted
	}
	return nil
}
