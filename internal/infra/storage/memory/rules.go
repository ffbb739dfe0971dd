package memory

import (
	"context"
	"sync"

	domainpricing "hotelbooking/internal/domain/pricing"
)

// RuleStore keeps pricing rules in insertion order.
type RuleStore struct {
	mu    sync.RWMutex
	rules []domainpricing.Rule
}

func NewRuleStore(seed ...domainpricing.Rule) *RuleStore {
	return &RuleStore{rules: append([]domainpricing.Rule(nil), seed...)}
}

func (s *RuleStore) Rules(ctx context.Context, branchID string, ruleType domainpricing.RuleType) ([]domainpricing.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domainpricing.FilterRules(s.rules, branchID, ruleType), nil
}

// Save inserts the rule or replaces the stored rule with the same id.
func (s *RuleStore) Save(ctx context.Context, rule domainpricing.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rules {
		if rule.ID != "" && s.rules[i].ID == rule.ID {
			s.rules[i] = rule
			return nil
		}
	}
	s.rules = append(s.rules, rule)
	return nil
}

// Insert appends the rule unless one with the same id is stored.
func (s *RuleStore) Insert(ctx context.Context, rule domainpricing.Rule) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rules {
		if s.rules[i].ID == rule.ID {
			return false, nil
		}
	}
	s.rules = append(s.rules, rule)
	return true, nil
}

var _ domainpricing.RuleStore = (*RuleStore)(nil)
