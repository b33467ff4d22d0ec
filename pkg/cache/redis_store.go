package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"VideoHub.com/config"
)

// scan 每批次返回的 key 数量
const scanBatch = 200

// RedisStore 基于 go-redis 的缓存实现
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisClient 按配置创建 redis 客户端并检查连通性
func NewRedisClient(ctx context.Context) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.ConfigInfo.Redis.Addr,
		Password: config.ConfigInfo.Redis.Password,
		DB:       config.ConfigInfo.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect redis %s: %w", config.ConfigInfo.Redis.Addr, err)
	}
	return client, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil // 缓存未命中
		}
		return nil, false, fmt.Errorf("failed to get cache %s: %w", key, err)
	}
	return data, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, val, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache %s: %w", key, err)
	}
	return nil
}

// Evict 使用 SCAN 代替 KEYS, 避免大 keyspace 时阻塞 redis
func (s *RedisStore) Evict(ctx context.Context, pattern string) (int64, error) {
	var (
		cursor  uint64
		removed int64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to scan cache %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			n, err := s.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("failed to delete cache %s: %w", pattern, err)
			}
			removed += n
		}
		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}

func (s *RedisStore) EvictAll(ctx context.Context, namespace string) (int64, error) {
	return s.Evict(ctx, namespacePattern(namespace))
}

func (s *RedisStore) Generation(ctx context.Context, genKey string) (int64, error) {
	gen, err := s.client.Get(ctx, genKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("failed to read generation %s: %w", genKey, err)
	}
	return gen, nil
}

func (s *RedisStore) Bump(ctx context.Context, genKey string) error {
	if err := s.client.Incr(ctx, genKey).Err(); err != nil {
		return fmt.Errorf("failed to bump generation %s: %w", genKey, err)
	}
	return nil
}

// SetIfGeneration WATCH 代数 key, 期间被 Bump 时事务放弃写入
func (s *RedisStore) SetIfGeneration(ctx context.Context, key string, val []byte, ttl time.Duration, genKey string, gen int64) (bool, error) {
	stored := false
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, val, ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to set cache %s: %w", key, err)
	}
	return stored, nil
}
