package pricing

import (
	"strings"
	"time"
	"unicode"
)

func intPtr(v int) *int { return &v }

// StableRuleID derives a rule id from its branch, type and name, so installing
// the same rule twice overwrites instead of adding a second, compounding copy.
func StableRuleID(branchID string, t RuleType, name string) string {
	slug := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return "stock:" + branchID + ":" + string(t) + ":" + strings.Join(slug, "-")
}

// DefaultRules returns the stock rule set installed for a branch (or
// AllBranches), each carrying its StableRuleID.
func DefaultRules(branchID string, now time.Time) []Rule {
	if branchID == "" {
		branchID = AllBranches
	}
	now = now.UTC()
	rules := []Rule{
		{
			Name:       "Weekend Premium",
			BranchID:   branchID,
			Type:       RuleWeekend,
			Multiplier: 1.3,
			Active:     true,
			CreatedAt:  now,
		},
		{
			Name:       "Holiday Season",
			BranchID:   branchID,
			Type:       RulePeakSeason,
			Multiplier: 1.5,
			StartDate:  "2024-12-20",
			EndDate:    "2025-01-05",
			Active:     true,
			CreatedAt:  now,
		},
		{
			Name:          "Early Bird Discount",
			BranchID:      branchID,
			Type:          RuleEarlyBird,
			Multiplier:    0.9,
			DaysThreshold: intPtr(DefaultEarlyBirdDays),
			Active:        true,
			CreatedAt:     now,
		},
		{
			Name:          "Last Minute Deal",
			BranchID:      branchID,
			Type:          RuleLastMinute,
			Multiplier:    0.85,
			DaysThreshold: intPtr(DefaultLastMinuteDays),
			Active:        true,
			CreatedAt:     now,
		},
		{
			Name:            "Weekly Stay Discount",
			BranchID:        branchID,
			Type:            RuleLengthOfStay,
			MinNights:       DefaultMinNights,
			DiscountPercent: 10,
			Active:          true,
			CreatedAt:       now,
		},
	}
	for i := range rules {
		rules[i].ID = StableRuleID(branchID, rules[i].Type, rules[i].Name)
	}
	return rules
}
