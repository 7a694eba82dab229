package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/payflow/payment-gateway/internal/core/domain"
	"github.com/payflow/payment-gateway/internal/core/ports"
	"github.com/payflow/payment-gateway/internal/pkg/metrics"
)

const defaultUserTTL = 5 * time.Minute

// CachedUserStore is a read-through cache in front of a UserStore for id
// lookups, which sit on the deposit/withdraw path. Cache failures fall back
// to the underlying store.
// Key format: user:<id>
type CachedUserStore struct {
	next   ports.UserStore
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewCachedUserStore wraps next. A non-positive ttl uses defaultUserTTL.
func NewCachedUserStore(next ports.UserStore, client *redis.Client, ttl time.Duration, log zerolog.Logger) *CachedUserStore {
	if ttl <= 0 {
		ttl = defaultUserTTL
	}
	return &CachedUserStore{next: next, client: client, ttl: ttl, log: log}
}

// FindByID serves from Redis when possible. Not-found results are not cached.
func (c *CachedUserStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	key := c.key(id)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var u domain.User
		if jerr := json.Unmarshal(raw, &u); jerr == nil {
			metrics.UserCacheTotal.WithLabelValues("hit").Inc()
			return &u, nil
		}
		metrics.UserCacheTotal.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		metrics.UserCacheTotal.WithLabelValues("miss").Inc()
	default:
		metrics.UserCacheTotal.WithLabelValues("error").Inc()
		c.log.Warn().Err(err).Int64("user_id", id).Msg("user cache read failed, falling back to store")
	}

	u, err := c.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, jerr := json.Marshal(u); jerr == nil {
		if serr := c.client.Set(ctx, key, payload, c.ttl).Err(); serr != nil {
			c.log.Warn().Err(serr).Int64("user_id", id).Msg("user cache write failed")
		}
	}
	return u, nil
}

func (c *CachedUserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return c.next.FindByEmail(ctx, email)
}

func (c *CachedUserStore) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return c.next.FindByPhone(ctx, phone)
}

func (c *CachedUserStore) ListAll(ctx context.Context) ([]*domain.User, error) {
	return c.next.ListAll(ctx)
}

type userEnabler interface {
	SetEnabled(ctx context.Context, email string, enabled bool) error
}

// SetEnabled writes the flag through to the underlying store and drops the
// cached record, so the next id lookup sees the new state.
func (c *CachedUserStore) SetEnabled(ctx context.Context, email string, enabled bool) error {
	w, ok := c.next.(userEnabler)
	if !ok {
		return errors.New("user cache: underlying store does not support SetEnabled")
	}
	if err := w.SetEnabled(ctx, email, enabled); err != nil {
		return err
	}
	u, err := c.next.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	return c.Invalidate(ctx, u.ID)
}

// Invalidate drops the cached record for id.
func (c *CachedUserStore) Invalidate(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("user cache invalidate: %w", err)
	}
	return nil
}

func (c *CachedUserStore) key(id int64) string {
	return "user:" + strconv.FormatInt(id, 10)
}
