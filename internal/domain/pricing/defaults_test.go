package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRulesCarryStableIDs(t *testing.T) {
	first := DefaultRules("blr", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	second := DefaultRules("blr", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	seen := map[string]bool{}
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.False(t, seen[first[i].ID], "ids are unique within a set")
		seen[first[i].ID] = true
	}
	assert.Equal(t, "stock:blr:weekend:weekend-premium", first[0].ID)
	assert.NotEqual(t, first[0].ID, DefaultRules(AllBranches, time.Now())[0].ID)
	assert.Equal(t, "stock:all:weekday:quiet-tuesdays", StableRuleID(AllBranches, RuleWeekday, "  Quiet  Tuesdays!"))
}
