package rooms

import "hotelbooking/internal/domain/shared/daterange"

// Occupancy holds the confirmed stays per room used for date conflict checks.
type Occupancy map[RoomID][]daterange.DateRange

func (o Occupancy) Add(id RoomID, stay daterange.DateRange) {
	o[id] = append(o[id], stay)
}

// Conflicts reports whether any recorded stay of the room overlaps r.
// Back-to-back stays (checkout == checkin) do not conflict.
func (o Occupancy) Conflicts(id RoomID, r daterange.DateRange) bool {
	for _, stay := range o[id] {
		if stay.Overlaps(r) {
			return true
		}
	}
	return false
}

// FreeFor keeps the rooms with no conflicting stay. A nil range disables date filtering.
func FreeFor(list []*Room, occ Occupancy, r *daterange.DateRange) []*Room {
	if r == nil {
		return list
	}
	out := make([]*Room, 0, len(list))
	for _, room := range list {
		if occ.Conflicts(room.ID, *r) {
			continue
		}
		out = append(out, room)
	}
	return out
}
