package redis

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainpricing "hotelbooking/internal/domain/pricing"
	"hotelbooking/internal/infra/storage/memory"
)

type countingStore struct {
	rules []domainpricing.Rule
	calls int
	saved []domainpricing.Rule
}

func (s *countingStore) Rules(ctx context.Context, branchID string, ruleType domainpricing.RuleType) ([]domainpricing.Rule, error) {
	s.calls++
	return domainpricing.FilterRules(s.rules, branchID, ruleType), nil
}

func (s *countingStore) Save(ctx context.Context, rule domainpricing.Rule) error {
	s.saved = append(s.saved, rule)
	s.rules = append(s.rules, rule)
	return nil
}

// unreachable points at a closed port so every command fails fast.
func unreachable() *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "pricing:rules:blr", Key("blr"))
	assert.Equal(t, "pricing:rules:_any", Key(""))
}

func TestRulesFallThroughWhenRedisDown(t *testing.T) {
	store := &countingStore{rules: []domainpricing.Rule{
		{ID: "1", BranchID: "all", Type: domainpricing.RuleWeekend, Multiplier: 1.3, Active: true},
		{ID: "2", BranchID: "blr", Type: domainpricing.RuleEarlyBird, Multiplier: 0.9, Active: true},
		{ID: "3", BranchID: "del", Type: domainpricing.RuleWeekend, Multiplier: 1.1, Active: true},
	}}
	client := unreachable()
	defer client.Close()
	cache := &RuleCache{Next: store, Client: client, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	rules, err := cache.Rules(context.Background(), "blr", domainpricing.RuleWeekend)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "1", rules[0].ID)
	assert.Equal(t, 1, store.calls)

	require.NoError(t, cache.Save(context.Background(), domainpricing.Rule{ID: "4", BranchID: "all", Type: domainpricing.RuleWeekday, Multiplier: 1}))
	assert.Len(t, store.saved, 1)
}

func TestFilterType(t *testing.T) {
	rules := []domainpricing.Rule{{ID: "a", Type: domainpricing.RuleWeekend}, {ID: "b", Type: domainpricing.RulePeakSeason}}
	assert.Len(t, filterType(rules, ""), 2)
	got := filterType(rules, domainpricing.RulePeakSeason)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestInsertDelegatesToBackingStore(t *testing.T) {
	client := unreachable()
	defer client.Close()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rule := domainpricing.Rule{ID: "seed:all:weekend", BranchID: "all", Type: domainpricing.RuleWeekend, Multiplier: 1.3, Active: true}

	_, err := (&RuleCache{Next: &countingStore{}, Client: client, Logger: logger}).Insert(context.Background(), rule)
	assert.ErrorIs(t, err, ErrInsertUnsupported)

	store := memory.NewRuleStore()
	cache := &RuleCache{Next: store, Client: client, Logger: logger}
	inserted, err := cache.Insert(context.Background(), rule)
	require.NoError(t, err)
	assert.True(t, inserted)

	rule.Multiplier = 2
	inserted, err = cache.Insert(context.Background(), rule)
	require.NoError(t, err)
	assert.False(t, inserted)

	stored, err := store.Rules(context.Background(), "blr", domainpricing.RuleWeekend)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 1.3, stored[0].Multiplier)
}
