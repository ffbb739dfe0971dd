package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotelbooking/internal/domain/shared/daterange"
)

// AllBranches scopes a rule to every branch.
const AllBranches = "all"

const (
	DefaultLastMinuteDays = 3
	DefaultEarlyBirdDays  = 30
	DefaultMinNights      = 7

	// StayDiscountMinNights gates every length_of_stay rule regardless of its own min_nights.
	StayDiscountMinNights = 7
)

type RuleType string

const (
	RuleWeekend      RuleType = "weekend"
	RuleWeekday      RuleType = "weekday"
	RulePeakSeason   RuleType = "peak_season"
	RuleLastMinute   RuleType = "last_minute"
	RuleEarlyBird    RuleType = "early_bird"
	RuleLengthOfStay RuleType = "length_of_stay"
)

var (
	ErrUnknownRuleType    = errors.New("pricing: unknown rule type")
	ErrInvalidMultiplier  = errors.New("pricing: multiplier must be positive")
	ErrInvalidSeason      = errors.New("pricing: peak season requires start_date <= end_date")
	ErrInvalidDiscount    = errors.New("pricing: discount percent must be within (0, 100]")
	ErrInvalidThreshold   = errors.New("pricing: days threshold cannot be negative")
	ErrRuleBranchRequired = errors.New("pricing: rule branch required")
)

// Rule is a named pricing modifier scoped to a branch or to AllBranches.
type Rule struct {
	ID              string
	Name            string
	BranchID        string
	Type            RuleType
	Multiplier      float64
	StartDate       string
	EndDate         string
	DaysThreshold   *int
	MinNights       int
	DiscountPercent float64
	Active          bool
	CreatedAt       time.Time
}

// RuleStore is the rule persistence port. An empty branchID returns rules of every
// branch, otherwise the branch's own rules plus AllBranches ones. An empty
// ruleType matches every type.
type RuleStore interface {
	Rules(ctx context.Context, branchID string, ruleType RuleType) ([]Rule, error)
	Save(ctx context.Context, rule Rule) error
}

func ParseRuleType(raw string) (RuleType, error) {
	t := RuleType(strings.ToLower(strings.TrimSpace(raw)))
	switch t {
	case RuleWeekend, RuleWeekday, RulePeakSeason, RuleLastMinute, RuleEarlyBird, RuleLengthOfStay:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRuleType, raw)
}

// Validate checks rule parameters before the rule is stored.
func (r Rule) Validate() error {
	if _, err := ParseRuleType(string(r.Type)); err != nil {
		return err
	}
	if strings.TrimSpace(r.BranchID) == "" {
		return ErrRuleBranchRequired
	}
	if r.DaysThreshold != nil && *r.DaysThreshold < 0 {
		return ErrInvalidThreshold
	}
	switch r.Type {
	case RuleLengthOfStay:
		if r.DiscountPercent <= 0 || r.DiscountPercent > 100 {
			return ErrInvalidDiscount
		}
		return nil
	case RulePeakSeason:
		start, err := daterange.ParseDay(r.StartDate)
		if err != nil {
			return fmt.Errorf("%w: start_date: %v", ErrInvalidSeason, err)
		}
		end, err := daterange.ParseDay(r.EndDate)
		if err != nil {
			return fmt.Errorf("%w: end_date: %v", ErrInvalidSeason, err)
		}
		if end.Before(start) {
			return ErrInvalidSeason
		}
	}
	if r.Multiplier <= 0 {
		return ErrInvalidMultiplier
	}
	return nil
}

// VisibleTo reports whether the rule applies to branchID.
func (r Rule) VisibleTo(branchID string) bool {
	if branchID == "" {
		return true
	}
	return r.BranchID == branchID || r.BranchID == AllBranches
}

// Threshold returns the day threshold, falling back to the type default.
func (r Rule) Threshold() int {
	if r.DaysThreshold != nil {
		return *r.DaysThreshold
	}
	if r.Type == RuleEarlyBird {
		return DefaultEarlyBirdDays
	}
	return DefaultLastMinuteDays
}

func (r Rule) minNights() int {
	if r.MinNights > 0 {
		return r.MinNights
	}
	return DefaultMinNights
}

func (r Rule) factor() float64 {
	if r.Multiplier <= 0 {
		return 1.0
	}
	return r.Multiplier
}

// appliesTo tests a multiplicative rule against one night of a stay. last_minute
// and early_bird depend on the stay's check-in, not on the night.
func (r Rule) appliesTo(night, checkIn, now time.Time) (bool, error) {
	switch r.Type {
	case RuleWeekend:
		wd := night.Weekday()
		return wd == time.Friday || wd == time.Saturday, nil
	case RuleWeekday:
		wd := night.Weekday()
		return wd != time.Friday && wd != time.Saturday && wd != time.Sunday, nil
	case RulePeakSeason:
		start, err := daterange.ParseDay(r.StartDate)
		if err != nil {
			return false, fmt.Errorf("rule %s start_date: %w", r.ID, err)
		}
		end, err := daterange.ParseDay(r.EndDate)
		if err != nil {
			return false, fmt.Errorf("rule %s end_date: %w", r.ID, err)
		}
		day := daterange.Day(night)
		return !day.Before(start) && !day.After(end), nil
	case RuleLastMinute:
		return daterange.DaysUntil(now, checkIn) <= r.Threshold(), nil
	case RuleEarlyBird:
		return daterange.DaysUntil(now, checkIn) >= r.Threshold(), nil
	}
	return false, nil
}

// FilterRules applies RuleStore scoping semantics to an in-memory slice.
func FilterRules(rules []Rule, branchID string, ruleType RuleType) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if !r.VisibleTo(branchID) {
			continue
		}
		if ruleType != "" && r.Type != ruleType {
			continue
		}
		out = append(out, r)
	}
	return out
}
