// Package branches registers hotel branches and serves the public branch
// directory.
package branches

import (
	"context"
	"strings"

	"hotelbooking/internal/app/auth"
	"hotelbooking/internal/app/commands"
	"hotelbooking/internal/app/dto"
	handlersupport "hotelbooking/internal/app/handlers/support"
	"hotelbooking/internal/app/queries"
	domainbranches "hotelbooking/internal/domain/branches"
	"hotelbooking/internal/domain/shared/money"
)

const (
	addKey  = "branches.add"
	listKey = "branches.list"
	getKey  = "branches.get"
)

// StatusAll lists branches regardless of status.
const StatusAll = "all"

type AddCommand struct {
	Principal     auth.Principal
	ID            string
	Name          string
	Address       string
	City          string
	State         string
	Pincode       string
	Phone         string
	Email         string
	Manager       string
	Amenities     []string
	RoomTypes     []string
	TotalRooms    int
	StartingPrice float64
	CheckInTime   string
	CheckOutTime  string
	Status        string
}

func (c AddCommand) Key() string               { return addKey }
func (c AddCommand) Actor() auth.Principal     { return c.Principal }
func (c AddCommand) AllowedRoles() []auth.Role { return []auth.Role{auth.RoleAdmin} }

func (c AddCommand) Validate() error {
	if strings.TrimSpace(c.ID) == "" || strings.TrimSpace(c.Name) == "" {
		return handlersupport.Invalid("branch_id and name are required")
	}
	if c.StartingPrice < 0 {
		return handlersupport.Invalid("starting_price cannot be negative")
	}
	return nil
}

type AddHandler struct {
	Branches domainbranches.Repository
	handlersupport.Deps
}

func (h *AddHandler) Handle(ctx context.Context, cmd AddCommand) (dto.BranchDTO, error) {
	branch := &domainbranches.Branch{
		ID:   domainbranches.BranchID(cmd.ID),
		Name: cmd.Name,
		Location: domainbranches.Location{
			Address: strings.TrimSpace(cmd.Address),
			City:    strings.TrimSpace(cmd.City),
			State:   strings.TrimSpace(cmd.State),
			Pincode: strings.TrimSpace(cmd.Pincode),
		},
		Contact: domainbranches.Contact{
			Phone:   strings.TrimSpace(cmd.Phone),
			Email:   strings.TrimSpace(cmd.Email),
			Manager: strings.TrimSpace(cmd.Manager),
		},
		Amenities:     cmd.Amenities,
		RoomTypes:     cmd.RoomTypes,
		TotalRooms:    cmd.TotalRooms,
		StartingPrice: money.FromMajor(cmd.StartingPrice, money.DefaultCurrency),
		CheckInTime:   strings.TrimSpace(cmd.CheckInTime),
		CheckOutTime:  strings.TrimSpace(cmd.CheckOutTime),
		Status:        domainbranches.Status(cmd.Status),
	}
	if err := branch.Normalize(h.Clock()); err != nil {
		return dto.BranchDTO{}, err
	}
	inserted, err := h.Branches.Insert(ctx, branch)
	if err != nil {
		return dto.BranchDTO{}, err
	}
	if !inserted {
		return dto.BranchDTO{}, domainbranches.ErrBranchExists
	}
	h.Log().Info("branch added", "branch_id", branch.ID, "city", branch.Location.City)
	return dto.MapBranch(branch), nil
}

// ListQuery is public. An empty status lists active branches.
type ListQuery struct {
	Status string
	City   string
}

func (q ListQuery) Key() string { return listKey }

func (q ListQuery) Validate() error {
	if _, err := q.filter(); err != nil {
		return handlersupport.Invalid("%v", err)
	}
	return nil
}

func (q ListQuery) filter() (domainbranches.Filter, error) {
	f := domainbranches.Filter{City: strings.TrimSpace(q.City)}
	if strings.EqualFold(strings.TrimSpace(q.Status), StatusAll) {
		return f, nil
	}
	status, err := domainbranches.ParseStatus(q.Status)
	if err != nil {
		return f, err
	}
	f.Status = status
	return f, nil
}

type ListHandler struct {
	Branches domainbranches.Repository
	handlersupport.Deps
}

func (h *ListHandler) Handle(ctx context.Context, q ListQuery) (dto.BranchCollection, error) {
	out := dto.BranchCollection{Items: []dto.BranchDTO{}}
	filter, err := q.filter()
	if err != nil {
		return out, handlersupport.Invalid("%v", err)
	}
	list, err := h.Branches.List(ctx, filter)
	if err != nil {
		h.Log().Warn("branch scan failed", "city", filter.City, "error", err)
		return out, nil
	}
	for _, b := range list {
		out.Items = append(out.Items, dto.MapBranch(b))
	}
	return out, nil
}

type GetQuery struct {
	ID string
}

func (q GetQuery) Key() string { return getKey }

func (q GetQuery) Validate() error {
	if strings.TrimSpace(q.ID) == "" {
		return handlersupport.Invalid("branch_id is required")
	}
	return nil
}

type GetHandler struct {
	Branches domainbranches.Repository
}

func (h *GetHandler) Handle(ctx context.Context, q GetQuery) (dto.BranchDTO, error) {
	b, err := h.Branches.ByID(ctx, domainbranches.BranchID(strings.TrimSpace(q.ID)))
	if err != nil {
		return dto.BranchDTO{}, err
	}
	return dto.MapBranch(b), nil
}

var (
	_ commands.Handler[AddCommand, dto.BranchDTO]      = (*AddHandler)(nil)
	_ queries.Handler[ListQuery, dto.BranchCollection] = (*ListHandler)(nil)
	_ queries.Handler[GetQuery, dto.BranchDTO]         = (*GetHandler)(nil)
)
