package redis

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"DentalPlanner/pkg/log"
	"github.com/redis/go-redis/v9"
)

var (
	ErrNotFound      = errors.New("key not found")
	ErrLimitExceeded = errors.New("list limit exceeded")
	ErrConflict      = errors.New("key changed concurrently")
)

// maxTxRetries bounds how often an optimistic transaction is retried after
// another client touched a watched key.
const maxTxRetries = 50

type IRedis interface {
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, keys ...string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Expire(ctx context.Context, expiration time.Duration, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Update(ctx context.Context, key string, expiration time.Duration, fn func(current []byte) ([]byte, error)) error
	AppendBounded(ctx context.Context, key string, values [][]byte, limit int64, expiration time.Duration) (int64, error)
	ListLen(ctx context.Context, key string) (int64, error)
	ListRange(ctx context.Context, key string) ([][]byte, error)
	Ping(ctx context.Context) error
	Close() error
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	log.Info(log.Fields{"address": redisAddr}, "Connecting to Redis")

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Error(log.Fields{"address": redisAddr, "error": err.Error()}, "Failed to connect to Redis")
	} else {
		log.Info(log.Fields{"address": redisAddr}, "Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func NewWithClient(client *redis.Client) IRedis {
	return &redisClient{client: client}
}

func (r *redisClient) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	if err := r.client.Set(ctx, key, value, expiration).Err(); err != nil {
		log.WithRequestID(ctx).WithFields(log.Fields{"key": key, "error": err.Error()}).Error("Error setting key")
		return err
	}
	return nil
}

func (r *redisClient) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	} else if err != nil {
		log.WithRequestID(ctx).WithFields(log.Fields{"key": key, "error": err.Error()}).Error("Error getting key")
		return nil, err
	}
	return val, nil
}

func (r *redisClient) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		log.WithRequestID(ctx).WithFields(log.Fields{"keys": len(keys), "error": err.Error()}).Error("Error deleting keys")
		return err
	}
	return nil
}

func (r *redisClient) DeleteByPrefix(ctx context.Context, prefix string) error {
	var keys []string
	iter := r.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.WithRequestID(ctx).WithFields(log.Fields{"prefix": prefix, "error": err.Error()}).Error("Error scanning prefix")
		return err
	}
	return r.Delete(ctx, keys...)
}

func (r *redisClient) Expire(ctx context.Context, expiration time.Duration, keys ...string) error {
	pipe := r.client.TxPipeline()
	for _, key := range keys {
		pipe.Expire(ctx, key, expiration)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.WithRequestID(ctx).WithField("error", err.Error()).Error("Error refreshing expiration")
		return err
	}
	return nil
}

func (r *redisClient) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		log.WithRequestID(ctx).WithFields(log.Fields{"key": key, "error": err.Error()}).Error("Error checking key")
		return false, err
	}
	return n > 0, nil
}

// Update replaces the value at key with fn(current) inside a WATCH/MULTI
// transaction, retrying when another client writes the key in between.
// A missing key fails with ErrNotFound; errors from fn are returned as is.
func (r *redisClient) Update(ctx context.Context, key string, expiration time.Duration, fn func(current []byte) ([]byte, error)) error {
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		} else if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, expiration)
			return nil
		})
		return err
	}

	return r.watch(ctx, txf, key)
}

// AppendBounded pushes values onto the list at key as one unit, refusing
// with ErrLimitExceeded when the list would grow beyond limit. It returns
// the new list length.
func (r *redisClient) AppendBounded(ctx context.Context, key string, values [][]byte, limit int64, expiration time.Duration) (int64, error) {
	if len(values) == 0 {
		return r.ListLen(ctx, key)
	}

	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}

	var length int64
	txf := func(tx *redis.Tx) error {
		n, err := tx.LLen(ctx, key).Result()
		if err != nil {
			return err
		}
		if n+int64(len(values)) > limit {
			return ErrLimitExceeded
		}

		var push *redis.IntCmd
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			push = pipe.RPush(ctx, key, args...)
			pipe.Expire(ctx, key, expiration)
			return nil
		})
		if err != nil {
			return err
		}
		length = push.Val()
		return nil
	}

	if err := r.watch(ctx, txf, key); err != nil {
		return 0, err
	}
	return length, nil
}

func (r *redisClient) ListLen(ctx context.Context, key string) (int64, error) {
	n, err := r.client.LLen(ctx, key).Result()
	if err != nil {
		log.WithRequestID(ctx).WithFields(log.Fields{"key": key, "error": err.Error()}).Error("Error reading list length")
		return 0, err
	}
	return n, nil
}

// ListRange returns every element of the list at key, oldest first. A
// missing key yields an empty slice.
func (r *redisClient) ListRange(ctx context.Context, key string) ([][]byte, error) {
	vals, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		log.WithRequestID(ctx).WithFields(log.Fields{"key": key, "error": err.Error()}).Error("Error reading list")
		return nil, err
	}

	out := make([][]byte, len(vals))
	for i, v := range vals {
		out[i] = []byte(v)
	}
	return out, nil
}

func (r *redisClient) watch(ctx context.Context, txf func(tx *redis.Tx) error, key string) error {
	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrLimitExceeded) {
			log.WithRequestID(ctx).WithFields(log.Fields{"key": key, "error": err.Error()}).Error("Error running transaction")
		}
		return err
	}

	log.WithRequestID(ctx).WithFields(log.Fields{"key": key, "attempts": maxTxRetries}).Error("Transaction kept conflicting")
	return ErrConflict
}

func (r *redisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisClient) Close() error {
	return r.client.Close()
}
