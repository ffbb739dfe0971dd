// Package seed loads branch, room and pricing-rule fixtures from a TOML file.
// Applying a fixture only inserts: a record whose id is already stored is left
// as it is, so restarts never reset room availability or duplicate rules.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	domainbranches "hotelbooking/internal/domain/branches"
	domainpricing "hotelbooking/internal/domain/pricing"
	domainrooms "hotelbooking/internal/domain/rooms"
	"hotelbooking/internal/domain/shared/money"
)

var ErrInvalidFixture = errors.New("seed: invalid fixture")

type File struct {
	// DefaultBranches installs the five launch branches.
	DefaultBranches bool `toml:"default_branches"`

	// DefaultRuleBranches installs the stock rule set for each listed branch.
	DefaultRuleBranches []string `toml:"default_rule_branches"`
	Branches            []Branch `toml:"branches"`
	Rooms               []Room   `toml:"rooms"`
	Rules               []Rule   `toml:"rules"`
}

type Branch struct {
	ID            string   `toml:"id"`
	Name          string   `toml:"name"`
	Address       string   `toml:"address"`
	City          string   `toml:"city"`
	State         string   `toml:"state"`
	Pincode       string   `toml:"pincode"`
	Phone         string   `toml:"phone"`
	Email         string   `toml:"email"`
	Manager       string   `toml:"manager"`
	Amenities     []string `toml:"amenities"`
	RoomTypes     []string `toml:"room_types"`
	TotalRooms    int      `toml:"total_rooms"`
	StartingPrice float64  `toml:"starting_price"`
	Status        string   `toml:"status"`
}

type Room struct {
	ID           string  `toml:"id"`
	Branch       string  `toml:"branch"`
	Name         string  `toml:"name"`
	Type         string  `toml:"type"`
	Capacity     int     `toml:"capacity"`
	Price        float64 `toml:"price"`
	Currency     string  `toml:"currency"`
	Availability string  `toml:"availability"`
}

type Rule struct {
	// ID is optional; without it the id derives from branch, type and name.
	ID              string  `toml:"id"`
	Name            string  `toml:"name"`
	Branch          string  `toml:"branch"`
	Type            string  `toml:"type"`
	Multiplier      float64 `toml:"multiplier"`
	StartDate       string  `toml:"start_date"`
	EndDate         string  `toml:"end_date"`
	DaysThreshold   *int    `toml:"days_threshold"`
	MinNights       int     `toml:"min_nights"`
	DiscountPercent float64 `toml:"discount_percent"`
	Active          *bool   `toml:"active"`
}

func Load(path string) (File, error) {
	var f File
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return File{}, fmt.Errorf("seed: decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return File{}, fmt.Errorf("%w: unknown keys %v", ErrInvalidFixture, undecoded)
	}
	return f, nil
}

func Parse(data string) (File, error) {
	var f File
	if _, err := toml.Decode(data, &f); err != nil {
		return File{}, fmt.Errorf("seed: decode: %w", err)
	}
	return f, nil
}

// BuildBranches lists the launch branches first when requested. An explicit
// branch may not reuse an id.
func (f File) BuildBranches(now time.Time) ([]domainbranches.Branch, error) {
	out := make([]domainbranches.Branch, 0, len(f.Branches)+5)
	if f.DefaultBranches {
		out = append(out, domainbranches.IndianBranches(now)...)
	}
	seen := make(map[domainbranches.BranchID]bool, cap(out))
	for _, b := range out {
		seen[b.ID] = true
	}
	for i, b := range f.Branches {
		branch := domainbranches.Branch{
			ID:            domainbranches.BranchID(b.ID),
			Name:          b.Name,
			Location:      domainbranches.Location{Address: b.Address, City: b.City, State: b.State, Pincode: b.Pincode},
			Contact:       domainbranches.Contact{Phone: b.Phone, Email: b.Email, Manager: b.Manager},
			Amenities:     b.Amenities,
			RoomTypes:     b.RoomTypes,
			TotalRooms:    b.TotalRooms,
			StartingPrice: money.FromMajor(b.StartingPrice, money.DefaultCurrency),
			Status:        domainbranches.Status(b.Status),
		}
		if err := branch.Normalize(now); err != nil {
			return nil, fmt.Errorf("%w: branch %d: %v", ErrInvalidFixture, i, err)
		}
		if seen[branch.ID] {
			return nil, fmt.Errorf("%w: duplicate branch id %q", ErrInvalidFixture, branch.ID)
		}
		seen[branch.ID] = true
		out = append(out, branch)
	}
	return out, nil
}

func (f File) BuildRooms(now time.Time) ([]domainrooms.Room, error) {
	out := make([]domainrooms.Room, 0, len(f.Rooms))
	seen := make(map[string]bool, len(f.Rooms))
	for i, r := range f.Rooms {
		if r.ID == "" || r.Branch == "" {
			return nil, fmt.Errorf("%w: room %d needs id and branch", ErrInvalidFixture, i)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("%w: duplicate room id %q", ErrInvalidFixture, r.ID)
		}
		seen[r.ID] = true
		availability := domainrooms.Available
		if r.Availability != "" {
			a, err := domainrooms.ParseAvailability(r.Availability)
			if err != nil {
				return nil, fmt.Errorf("%w: room %q: %v", ErrInvalidFixture, r.ID, err)
			}
			availability = a
		}
		capacity := r.Capacity
		if capacity <= 0 {
			capacity = 2
		}
		out = append(out, domainrooms.Room{
			ID:           domainrooms.RoomID(r.ID),
			BranchID:     r.Branch,
			Name:         r.Name,
			Type:         r.Type,
			Capacity:     capacity,
			Price:        money.FromMajor(r.Price, r.Currency),
			Availability: availability,
			UpdatedAt:    now.UTC(),
		})
	}
	return out, nil
}

// BuildRules expands the stock sets first, then the explicit rules. Every
// rule gets a stable id so applying the fixture again finds it.
func (f File) BuildRules(now time.Time) ([]domainpricing.Rule, error) {
	out := make([]domainpricing.Rule, 0, len(f.Rules)+5*len(f.DefaultRuleBranches))
	for _, branch := range f.DefaultRuleBranches {
		out = append(out, domainpricing.DefaultRules(branch, now)...)
	}
	for i, r := range f.Rules {
		ruleType, err := domainpricing.ParseRuleType(r.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %d: %v", ErrInvalidFixture, i, err)
		}
		active := true
		if r.Active != nil {
			active = *r.Active
		}
		rule := domainpricing.Rule{
			ID:              strings.TrimSpace(r.ID),
			Name:            r.Name,
			BranchID:        r.Branch,
			Type:            ruleType,
			Multiplier:      r.Multiplier,
			StartDate:       r.StartDate,
			EndDate:         r.EndDate,
			DaysThreshold:   r.DaysThreshold,
			MinNights:       r.MinNights,
			DiscountPercent: r.DiscountPercent,
			Active:          active,
			CreatedAt:       now.UTC(),
		}
		if rule.BranchID == "" {
			rule.BranchID = domainpricing.AllBranches
		}
		if rule.ID == "" {
			rule.ID = domainpricing.StableRuleID(rule.BranchID, rule.Type, rule.Name)
		}
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("%w: rule %q: %v", ErrInvalidFixture, r.Name, err)
		}
		out = append(out, rule)
	}
	seen := make(map[string]bool, len(out))
	for _, r := range out {
		if seen[r.ID] {
			return nil, fmt.Errorf("%w: duplicate rule id %q", ErrInvalidFixture, r.ID)
		}
		seen[r.ID] = true
	}
	return out, nil
}

// RoomInserter stores a room unless its id is taken.
type RoomInserter interface {
	Insert(ctx context.Context, room *domainrooms.Room) (bool, error)
}

// RuleInserter stores a rule unless its id is taken.
type RuleInserter interface {
	Insert(ctx context.Context, rule domainpricing.Rule) (bool, error)
}

// Stores receive the fixture. Branches is optional.
type Stores struct {
	Branches domainbranches.Repository
	Rooms    RoomInserter
	Rules    RuleInserter
}

// Summary counts inserted records; Existing counts those already stored.
type Summary struct {
	Branches int
	Rooms    int
	Rules    int
	Existing int
}

// Apply validates the whole fixture before writing any of it.
func Apply(ctx context.Context, f File, stores Stores, now time.Time) (Summary, error) {
	builtBranches, err := f.BuildBranches(now)
	if err != nil {
		return Summary{}, err
	}
	builtRooms, err := f.BuildRooms(now)
	if err != nil {
		return Summary{}, err
	}
	builtRules, err := f.BuildRules(now)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	count := func(inserted bool, n *int) {
		if inserted {
			*n++
		} else {
			sum.Existing++
		}
	}
	if stores.Branches != nil {
		for i := range builtBranches {
			inserted, err := stores.Branches.Insert(ctx, &builtBranches[i])
			if err != nil {
				return sum, fmt.Errorf("seed: insert branch %s: %w", builtBranches[i].ID, err)
			}
			count(inserted, &sum.Branches)
		}
	}
	for i := range builtRooms {
		inserted, err := stores.Rooms.Insert(ctx, &builtRooms[i])
		if err != nil {
			return sum, fmt.Errorf("seed: insert room %s: %w", builtRooms[i].ID, err)
		}
		count(inserted, &sum.Rooms)
	}
	for _, r := range builtRules {
		inserted, err := stores.Rules.Insert(ctx, r)
		if err != nil {
			return sum, fmt.Errorf("seed: insert rule %s: %w", r.ID, err)
		}
		count(inserted, &sum.Rules)
	}
	return sum, nil
}
