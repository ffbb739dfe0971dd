package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbranches "hotelbooking/internal/domain/branches"
	domainpricing "hotelbooking/internal/domain/pricing"
	domainrooms "hotelbooking/internal/domain/rooms"
	"hotelbooking/internal/domain/shared/money"
	"hotelbooking/internal/infra/storage/memory"
)

const fixture = `
default_branches = true
default_rule_branches = ["all"]

[[branches]]
id = "BLISS-PUNE"
name = "Blissful Abodes Pune"
city = "Pune"
starting_price = 4200
status = "inactive"

[[rooms]]
id = "blr-101"
branch = "blr"
name = "Deluxe 101"
type = "deluxe"
capacity = 3
price = 4500.50
currency = "INR"

[[rooms]]
id = "blr-102"
branch = "blr"
name = "Standard 102"
type = "standard"
price = 2500
availability = "maintenance"

[[rules]]
name = "Diwali"
branch = "blr"
type = "peak_season"
multiplier = 1.4
start_date = "2025-10-18"
end_date = "2025-10-24"

[[rules]]
name = "Quiet Tuesdays"
type = "weekday"
multiplier = 0.95
active = false
`

func newStores() (Stores, *memory.BranchRepository, *memory.RoomRepository, *memory.RuleStore) {
	branches := memory.NewBranchRepository()
	rooms := memory.NewRoomRepository()
	rules := memory.NewRuleStore()
	return Stores{Branches: branches, Rooms: rooms, Rules: rules}, branches, rooms, rules
}

func TestApplyFixture(t *testing.T) {
	f, err := Parse(fixture)
	require.NoError(t, err)

	ctx := context.Background()
	stores, branches, rooms, rules := newStores()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	sum, err := Apply(ctx, f, stores, now)
	require.NoError(t, err)
	assert.Equal(t, Summary{Branches: 6, Rooms: 2, Rules: 7}, sum)

	active, err := branches.List(ctx, domainbranches.Filter{Status: domainbranches.StatusActive})
	require.NoError(t, err)
	assert.Len(t, active, 5)
	pune, err := branches.ByID(ctx, "BLISS-PUNE")
	require.NoError(t, err)
	assert.Equal(t, int64(420000), pune.StartingPrice.Amount)

	room, err := rooms.ByID(ctx, "blr-101")
	require.NoError(t, err)
	assert.Equal(t, int64(450050), room.Price.Amount)
	assert.Equal(t, domainrooms.Available, room.Availability)
	assert.Equal(t, 3, room.Capacity)

	other, err := rooms.ByID(ctx, "blr-102")
	require.NoError(t, err)
	assert.Equal(t, domainrooms.Maintenance, other.Availability)
	assert.Equal(t, 2, other.Capacity)

	peak, err := rules.Rules(ctx, "blr", domainpricing.RulePeakSeason)
	require.NoError(t, err)
	assert.Len(t, peak, 2, "holiday default plus branch rule")

	weekday, err := rules.Rules(ctx, "", domainpricing.RuleWeekday)
	require.NoError(t, err)
	require.Len(t, weekday, 1)
	assert.False(t, weekday[0].Active)
	assert.Equal(t, domainpricing.AllBranches, weekday[0].BranchID)
	assert.Equal(t, "stock:all:weekday:quiet-tuesdays", weekday[0].ID)
}

func TestApplyTwiceKeepsStoredState(t *testing.T) {
	f, err := Parse(fixture)
	require.NoError(t, err)
	ctx := context.Background()
	stores, _, rooms, rules := newStores()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err = Apply(ctx, f, stores, now)
	require.NoError(t, err)

	// a guest claims the room between two restarts
	require.NoError(t, rooms.CompareAndSetAvailability(ctx, "blr-101", domainrooms.Available, domainrooms.Unavailable))

	sum, err := Apply(ctx, f, stores, now.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, Summary{Existing: 15}, sum)

	room, err := rooms.ByID(ctx, "blr-101")
	require.NoError(t, err)
	assert.Equal(t, domainrooms.Unavailable, room.Availability)

	weekend, err := rules.Rules(ctx, "blr", domainpricing.RuleWeekend)
	require.NoError(t, err)
	assert.Len(t, weekend, 1, "a second weekend premium would compound the price")

	engine := domainpricing.NewEngine(rules, nil)
	engine.Now = func() time.Time { return now }
	quote := engine.Quote(ctx, domainpricing.Input{
		BaseRate: money.Must(100000, "INR"),
		CheckIn:  time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		BranchID: "blr",
	})
	assert.Equal(t, int64(130000), quote.Total.Amount, "one saturday night at the weekend premium")
}

func TestBuildRejectsBadFixtures(t *testing.T) {
	now := time.Now()
	_, err := File{Rooms: []Room{{ID: "a"}}}.BuildRooms(now)
	assert.ErrorIs(t, err, ErrInvalidFixture)

	_, err = File{Rooms: []Room{{ID: "a", Branch: "b"}, {ID: "a", Branch: "b"}}}.BuildRooms(now)
	assert.ErrorIs(t, err, ErrInvalidFixture)

	_, err = File{Rules: []Rule{{Type: "surge", Multiplier: 2}}}.BuildRules(now)
	assert.ErrorIs(t, err, ErrInvalidFixture)

	_, err = File{Rules: []Rule{{Type: "peak_season", Multiplier: 2, StartDate: "2025-02-01", EndDate: "2025-01-01"}}}.BuildRules(now)
	assert.ErrorIs(t, err, ErrInvalidFixture)

	_, err = File{Rules: []Rule{{Name: "Twice", Type: "weekend", Multiplier: 1.1}, {Name: "twice", Type: "weekend", Multiplier: 1.2}}}.BuildRules(now)
	assert.ErrorIs(t, err, ErrInvalidFixture)

	_, err = File{DefaultBranches: true, Branches: []Branch{{ID: "BLISS-GOA", Name: "Second Goa"}}}.BuildBranches(now)
	assert.ErrorIs(t, err, ErrInvalidFixture)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[rooms]]\nid = \"x\"\nbranch = \"b\"\ncolour = \"red\"\n"), 0o600))
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidFixture)
}
