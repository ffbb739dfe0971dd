package dto

import (
	"time"

	domainbranches "hotelbooking/internal/domain/branches"
)

type BranchLocationDTO struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

type BranchContactDTO struct {
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Manager string `json:"manager,omitempty"`
}

type BranchDTO struct {
	ID            string            `json:"branch_id"`
	Name          string            `json:"name"`
	Location      BranchLocationDTO `json:"location"`
	Contact       BranchContactDTO  `json:"contact"`
	Amenities     []string          `json:"amenities"`
	RoomTypes     []string          `json:"room_types"`
	CheckInTime   string            `json:"check_in_time"`
	CheckOutTime  string            `json:"check_out_time"`
	TotalRooms    int               `json:"total_rooms"`
	StartingPrice MoneyDTO          `json:"starting_price"`
	Status        string            `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
}

func MapBranch(b *domainbranches.Branch) BranchDTO {
	out := BranchDTO{
		ID:   string(b.ID),
		Name: b.Name,
		Location: BranchLocationDTO{
			Address: b.Location.Address,
			City:    b.Location.City,
			State:   b.Location.State,
			Pincode: b.Location.Pincode,
		},
		Contact:       BranchContactDTO(b.Contact),
		Amenities:     b.Amenities,
		RoomTypes:     b.RoomTypes,
		CheckInTime:   b.CheckInTime,
		CheckOutTime:  b.CheckOutTime,
		TotalRooms:    b.TotalRooms,
		StartingPrice: MapMoney(b.StartingPrice),
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
	}
	if out.Amenities == nil {
		out.Amenities = []string{}
	}
	if out.RoomTypes == nil {
		out.RoomTypes = []string{}
	}
	return out
}

type BranchCollection struct {
	Items []BranchDTO `json:"items"`
}
