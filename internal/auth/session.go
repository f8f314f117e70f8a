package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoSession は該当ユーザーのセッションが存在しないことを示します。
var ErrNoSession = errors.New("auth: no active session")

// SessionStore はユーザーごとに現在有効なリフレッシュトークンを
// ひとつだけ保持します。Save の上書きがローテーションそのもので、
// 以前のトークンは照合に失敗するようになります。
type SessionStore interface {
	Save(ctx context.Context, userID int64, refreshToken string) error
	Get(ctx context.Context, userID int64) (string, error)
	Clear(ctx context.Context, userID int64) error
}

const sessionKeyPrefix = "session:"

// RedisSessionStore は Redis にリフレッシュセッションを保存します。
// キーのTTLはリフレッシュトークンの有効期間と揃えます。
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSessionStore は RedisSessionStore を作成します。
func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		rdb: rdb,
		ttl: ttl,
	}
}

// Save はユーザーのリフレッシュトークンを保存します（既存値は上書き）。
func (s *RedisSessionStore) Save(ctx context.Context, userID int64, refreshToken string) error {
	if refreshToken == "" {
		return fmt.Errorf("refreshToken is required")
	}
	return s.rdb.Set(ctx, sessionKey(userID), refreshToken, s.ttl).Err()
}

// Get は保存済みリフレッシュトークンを取得します。
func (s *RedisSessionStore) Get(ctx context.Context, userID int64) (string, error) {
	value, err := s.rdb.Get(ctx, sessionKey(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrNoSession
		}
		return "", err
	}
	return value, nil
}

// Clear はユーザーのセッションを削除します。
func (s *RedisSessionStore) Clear(ctx context.Context, userID int64) error {
	return s.rdb.Del(ctx, sessionKey(userID)).Err()
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("%s%d", sessionKeyPrefix, userID)
}

// MemorySessionStore はテストおよびRedisなしのローカル実行用の
// インメモリ実装です。
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[int64]string
}

// NewMemorySessionStore は MemorySessionStore を作成します。
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[int64]string),
	}
}

// Save はユーザーのリフレッシュトークンを保存します（既存値は上書き）。
func (s *MemorySessionStore) Save(ctx context.Context, userID int64, refreshToken string) error {
	if refreshToken == "" {
		return fmt.Errorf("refreshToken is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = refreshToken
	return nil
}

// Get は保存済みリフレッシュトークンを取得します。
func (s *MemorySessionStore) Get(ctx context.Context, userID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.sessions[userID]
	if !ok {
		return "", ErrNoSession
	}
	return value, nil
}

// Clear はユーザーのセッションを削除します。
func (s *MemorySessionStore) Clear(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}
