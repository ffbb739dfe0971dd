package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	domainpricing "hotelbooking/internal/domain/pricing"
)

const keyPrefix = "pricing:rules:"

// anyBranch keys the unscoped listing.
const anyBranch = "_any"

// NewClient builds a client; the caller pings it.
func NewClient(addr, password string, db int) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// RuleCache is a read-through cache in front of a RuleStore. Entries hold
// every rule visible to a branch; the type filter runs after the lookup. Any
// Redis failure falls through to the backing store.
type RuleCache struct {
	Next   domainpricing.RuleStore
	Client goredis.UniversalClient
	TTL    time.Duration
	Logger *slog.Logger
}

func (c *RuleCache) Rules(ctx context.Context, branchID string, ruleType domainpricing.RuleType) ([]domainpricing.Rule, error) {
	key := Key(branchID)
	if rules, ok := c.load(ctx, key); ok {
		return filterType(rules, ruleType), nil
	}
	rules, err := c.Next.Rules(ctx, branchID, "")
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, rules)
	return filterType(rules, ruleType), nil
}

// Save writes through and drops the keys that could hold a stale view.
func (c *RuleCache) Save(ctx context.Context, rule domainpricing.Rule) error {
	if err := c.Next.Save(ctx, rule); err != nil {
		return err
	}
	c.invalidate(ctx, rule.BranchID)
	return nil
}

// ErrInsertUnsupported is returned by Insert when the backing store cannot
// insert conditionally.
var ErrInsertUnsupported = errors.New("redis: backing rule store has no insert")

// Insert delegates a conditional insert to the backing store and drops the
// cached views only when a rule was actually added.
func (c *RuleCache) Insert(ctx context.Context, rule domainpricing.Rule) (bool, error) {
	ins, ok := c.Next.(interface {
		Insert(ctx context.Context, rule domainpricing.Rule) (bool, error)
	})
	if !ok {
		return false, ErrInsertUnsupported
	}
	inserted, err := ins.Insert(ctx, rule)
	if err != nil || !inserted {
		return inserted, err
	}
	c.invalidate(ctx, rule.BranchID)
	return true, nil
}

// Key returns the cache key for a branch listing.
func Key(branchID string) string {
	if branchID == "" {
		return keyPrefix + anyBranch
	}
	return keyPrefix + branchID
}

func (c *RuleCache) load(ctx context.Context, key string) ([]domainpricing.Rule, bool) {
	raw, err := c.Client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.logger().Warn("rule cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	var rules []domainpricing.Rule
	if err := json.Unmarshal(raw, &rules); err != nil {
		c.logger().Warn("rule cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	return rules, true
}

func (c *RuleCache) store(ctx context.Context, key string, rules []domainpricing.Rule) {
	raw, err := json.Marshal(rules)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, key, raw, c.ttl()).Err(); err != nil {
		c.logger().Warn("rule cache write failed", "key", key, "error", err)
	}
}

// invalidate drops the branch and unscoped keys; an all-branch rule drops every key.
func (c *RuleCache) invalidate(ctx context.Context, branchID string) {
	keys := []string{Key(branchID), Key("")}
	if branchID == domainpricing.AllBranches {
		keys = keys[:0]
		iter := c.Client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			c.logger().Warn("rule cache scan failed", "error", err)
			return
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := c.Client.Del(ctx, keys...).Err(); err != nil {
		c.logger().Warn("rule cache invalidation failed", "keys", keys, "error", err)
	}
}

func (c *RuleCache) ttl() time.Duration {
	if c.TTL <= 0 {
		return 5 * time.Minute
	}
	return c.TTL
}

func (c *RuleCache) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func filterType(rules []domainpricing.Rule, ruleType domainpricing.RuleType) []domainpricing.Rule {
	if ruleType == "" {
		return rules
	}
	out := make([]domainpricing.Rule, 0, len(rules))
	for _, r := range rules {
		if r.Type == ruleType {
			out = append(out, r)
		}
	}
	return out
}

var _ domainpricing.RuleStore = (*RuleCache)(nil)
