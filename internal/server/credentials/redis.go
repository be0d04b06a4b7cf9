package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/examkeeper/internal/common"
	"github.com/dmitrijs2005/examkeeper/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const (
	tokenKeyPrefix   = "examkeeper:token:"
	voucherKeyPrefix = "examkeeper:voucher:"

	maxWatchRetries = 5
)

// RedisStore keeps credentials in Redis so that several server replicas
// share sessions. Token prolongation runs in a WATCH/MULTI transaction;
// vouchers are consumed with GETDEL.
type RedisStore struct {
	issuer
	client *redis.Client
}

// NewRedisStore connects to addr and checks the connection with PING.
func NewRedisStore(ctx context.Context, addr, password string, opts Options) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisStoreWithClient(client, opts), nil
}

func NewRedisStoreWithClient(client *redis.Client, opts Options) *RedisStore {
	return &RedisStore{issuer: issuer{opts: opts.withDefaults()}, client: client}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// ttl keeps the Redis key a little longer than the logical expiry so that an
// expired lookup still finds and removes it.
func (s *RedisStore) ttl(expiresAt time.Time) time.Duration {
	d := expiresAt.Sub(s.opts.Now()) + time.Minute
	if d < time.Minute {
		d = time.Minute
	}
	return d
}

func (s *RedisStore) CreateToken(ctx context.Context, accountID string) (*models.SecurityToken, error) {
	t := s.newToken(accountID)

	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, tokenKeyPrefix+t.Payload, b, s.ttl(t.ExpiresAt)).Err(); err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	return t, nil
}

func (s *RedisStore) RetrieveToken(ctx context.Context, payload string) (*models.SecurityToken, error) {
	if t, ok := s.predefined(payload); ok {
		return t, nil
	}

	key := tokenKeyPrefix + payload
	var result *models.SecurityToken

	txf := func(tx *redis.Tx) error {
		b, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return common.ErrorNotFoundOrExpired
		}
		if err != nil {
			return err
		}

		t := &models.SecurityToken{}
		if err := json.Unmarshal(b, t); err != nil {
			return err
		}

		if t.Expired(s.opts.Now()) {
			if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				return nil
			}); err != nil {
				return err
			}
			return common.ErrorNotFoundOrExpired
		}

		t.ExpiresAt = t.ExpiresAt.Add(s.opts.TokenValidity)
		updated, err := json.Marshal(t)
		if err != nil {
			return err
		}
		if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, s.ttl(t.ExpiresAt))
			return nil
		}); err != nil {
			return err
		}
		result = t
		return nil
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, common.ErrorNotFoundOrExpired) {
			return nil, err
		}
		if err != nil {
			return nil, fmt.Errorf("redis error: %w", err)
		}
		return result, nil
	}
	return nil, fmt.Errorf("redis error: token %w after %d attempts", redis.TxFailedErr, maxWatchRetries)
}

func (s *RedisStore) DeleteToken(ctx context.Context, payload string) error {
	if err := s.client.Del(ctx, tokenKeyPrefix+payload).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (s *RedisStore) CreateVoucher(ctx context.Context, email, backlink string) (*models.SecurityVoucher, error) {
	v, err := s.newVoucher(email, backlink)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, voucherKeyPrefix+v.Payload, b, s.ttl(v.ExpiresAt)).Err(); err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	return v, nil
}

func (s *RedisStore) UtilizeVoucher(ctx context.Context, payload string) (*models.SecurityVoucher, error) {
	if s.forged(payload) {
		return nil, common.ErrorNotFoundOrExpired
	}

	b, err := s.client.GetDel(ctx, voucherKeyPrefix+payload).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, common.ErrorNotFoundOrExpired
	}
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	v := &models.SecurityVoucher{}
	if err := json.Unmarshal(b, v); err != nil {
		return nil, err
	}
	if v.Expired(s.opts.Now()) {
		return nil, common.ErrorNotFoundOrExpired
	}
	return v, nil
}
