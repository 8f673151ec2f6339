package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps values in Redis under a namespace prefix, so several
// pcrec instances can share one comparison list.
type RedisStore struct {
	client    *redis.Client
	ctx       context.Context
	namespace string
}

func NewRedisStore(addr string, db int, namespace string) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	return &RedisStore{
		client:    rdb,
		ctx:       context.Background(),
		namespace: namespace,
	}
}

func (r *RedisStore) key(k string) string {
	if r.namespace == "" {
		return k
	}
	return r.namespace + ":" + k
}

func (r *RedisStore) Get(key string) (string, bool, error) {
	val, err := r.client.Get(r.ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisStore) Set(key string, value string) error {
	return r.client.Set(r.ctx, r.key(key), value, 0).Err()
}

func (r *RedisStore) Delete(key string) error {
	return r.client.Del(r.ctx, r.key(key)).Err()
}

// Ping checks that the server is reachable.
func (r *RedisStore) Ping() error {
	return r.client.Ping(r.ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
