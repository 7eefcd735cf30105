package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hospital-rp/staffd/pkg/staff"
	"github.com/hospital-rp/staffd/pkg/storage"
)

// CachedStore layers a two-level read cache over the PostgreSQL store:
// an in-process LRU in front of Redis. Only the hot lookup paths are
// cached (member by id, member by access code, shifts); everything else
// passes straight through. Writes invalidate.
type CachedStore struct {
	*Store
	redis *redis.Client
	l1    *lru.Cache[string, []byte]
	ttl   time.Duration
}

// NewCachedStore wraps the store with a Redis/LRU read cache.
func NewCachedStore(store *Store, config storage.Config) (*CachedStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	size := config.L1CacheSize
	if size <= 0 {
		size = 1024
	}
	l1, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create l1 cache: %w", err)
	}

	ttl := config.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &CachedStore{Store: store, redis: client, l1: l1, ttl: ttl}, nil
}

func memberKey(id string) string       { return "member:" + id }
func memberCodeKey(code string) string { return "member:code:" + code }
func shiftKey(id string) string        { return "shift:" + id }

const shiftsListKey = "shifts:list"

// cacheGet reads L1 first, then Redis, refilling L1 on a Redis hit.
func (c *CachedStore) cacheGet(ctx context.Context, key string, out interface{}) bool {
	if data, ok := c.l1.Get(key); ok {
		if json.Unmarshal(data, out) == nil {
			return true
		}
		c.l1.Remove(key)
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if json.Unmarshal(data, out) != nil {
		return false
	}
	c.l1.Add(key, data)
	return true
}

func (c *CachedStore) cacheSet(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.l1.Add(key, data)
	c.redis.Set(ctx, key, data, c.ttl)
}

func (c *CachedStore) invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		c.l1.Remove(key)
	}
	c.redis.Del(ctx, keys...)
}

func (c *CachedStore) invalidateMember(ctx context.Context, m *staff.Member) {
	if m == nil {
		return
	}
	c.invalidate(ctx, memberKey(m.ID), memberCodeKey(m.AccessCode))
}

// --- cached reads ---

func (c *CachedStore) GetMember(ctx context.Context, id string) (*staff.Member, error) {
	var cached staff.Member
	if c.cacheGet(ctx, memberKey(id), &cached) {
		return &cached, nil
	}

	m, err := c.Store.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cacheSet(ctx, memberKey(id), m)
	return m, nil
}

func (c *CachedStore) GetMemberByAccessCode(ctx context.Context, accessCode string) (*staff.Member, error) {
	var cached staff.Member
	if c.cacheGet(ctx, memberCodeKey(accessCode), &cached) {
		return &cached, nil
	}

	m, err := c.Store.GetMemberByAccessCode(ctx, accessCode)
	if err != nil {
		return nil, err
	}
	c.cacheSet(ctx, memberCodeKey(accessCode), m)
	return m, nil
}

func (c *CachedStore) GetShift(ctx context.Context, id string) (*staff.Shift, error) {
	var cached staff.Shift
	if c.cacheGet(ctx, shiftKey(id), &cached) {
		return &cached, nil
	}

	sh, err := c.Store.GetShift(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cacheSet(ctx, shiftKey(id), sh)
	return sh, nil
}

func (c *CachedStore) ListShifts(ctx context.Context) ([]*staff.Shift, error) {
	var cached []*staff.Shift
	if c.cacheGet(ctx, shiftsListKey, &cached) {
		return cached, nil
	}

	shifts, err := c.Store.ListShifts(ctx)
	if err != nil {
		return nil, err
	}
	c.cacheSet(ctx, shiftsListKey, shifts)
	return shifts, nil
}

// --- invalidating writes ---

func (c *CachedStore) CreateMember(ctx context.Context, m *staff.Member) error {
	if err := c.Store.CreateMember(ctx, m); err != nil {
		return err
	}
	c.invalidateMember(ctx, m)
	return nil
}

func (c *CachedStore) UpdateMember(ctx context.Context, id string, update staff.MemberUpdate) (*staff.Member, error) {
	// The access code may change, so the old code key has to go too.
	old, _ := c.Store.GetMember(ctx, id)

	m, err := c.Store.UpdateMember(ctx, id, update)
	if err != nil {
		return nil, err
	}
	c.invalidateMember(ctx, old)
	c.invalidateMember(ctx, m)
	return m, nil
}

func (c *CachedStore) DeleteMember(ctx context.Context, id string) error {
	old, _ := c.Store.GetMember(ctx, id)

	if err := c.Store.DeleteMember(ctx, id); err != nil {
		return err
	}
	c.invalidateMember(ctx, old)
	c.invalidate(ctx, memberKey(id))
	return nil
}

func (c *CachedStore) ChangeRole(ctx context.Context, params storage.ChangeRoleParams) (*storage.RoleChangeResult, error) {
	res, err := c.Store.ChangeRole(ctx, params)
	if err != nil {
		return nil, err
	}
	c.invalidateMember(ctx, res.Member)
	c.invalidateMember(ctx, res.Displaced)
	return res, nil
}

func (c *CachedStore) CreateShift(ctx context.Context, sh *staff.Shift) error {
	if err := c.Store.CreateShift(ctx, sh); err != nil {
		return err
	}
	c.invalidate(ctx, shiftsListKey)
	return nil
}

func (c *CachedStore) UpdateShift(ctx context.Context, id string, update staff.ShiftUpdate) (*staff.Shift, error) {
	sh, err := c.Store.UpdateShift(ctx, id, update)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, shiftKey(id), shiftsListKey)
	return sh, nil
}

func (c *CachedStore) DeleteShift(ctx context.Context, id string) error {
	if err := c.Store.DeleteShift(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, shiftKey(id), shiftsListKey)
	return nil
}

// --- lifecycle ---

func (c *CachedStore) HealthCheck(ctx context.Context) error {
	if err := c.Store.HealthCheck(ctx); err != nil {
		return err
	}
	if err := c.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis unhealthy: %w", err)
	}
	return nil
}

func (c *CachedStore) Close() error {
	if err := c.redis.Close(); err != nil {
		c.Store.Close()
		return fmt.Errorf("failed to close redis: %w", err)
	}
	return c.Store.Close()
}
