package branches

import (
	"time"

	"hotelbooking/internal/domain/shared/money"
)

var standardRoomTypes = []string{"single", "double", "family", "couple", "vip"}

// IndianBranches returns the five launch branches.
func IndianBranches(now time.Time) []Branch {
	at := now.UTC()
	mk := func(id, name string, loc Location, contact Contact, amenities []string, rooms int, from int64) Branch {
		return Branch{
			ID:            BranchID(id),
			Name:          name,
			Location:      loc,
			Contact:       contact,
			Amenities:     amenities,
			CheckInTime:   DefaultCheckInTime,
			CheckOutTime:  DefaultCheckOutTime,
			TotalRooms:    rooms,
			RoomTypes:     append([]string(nil), standardRoomTypes...),
			StartingPrice: money.Must(from*100, money.DefaultCurrency),
			Status:        StatusActive,
			CreatedAt:     at,
		}
	}
	return []Branch{
		mk("BLISS-MUM", "Blissful Abodes Mumbai",
			Location{Address: "Bandra Kurla Complex, Mumbai", City: "Mumbai", State: "Maharashtra", Pincode: "400051", Latitude: 19.0542, Longitude: 72.8256},
			Contact{Phone: "+91-22-6123-4567", Email: "mumbai@blissfulabodes.com", Manager: "Rajesh Kumar"},
			[]string{"Pool", "Spa", "Restaurant", "Gym", "Sea-facing rooms", "Rooftop infinity pool", "Conference facilities"},
			80, 4500),
		mk("BLISS-DEL", "Blissful Abodes Delhi",
			Location{Address: "Connaught Place, New Delhi", City: "Delhi", State: "Delhi", Pincode: "110001", Latitude: 28.6304, Longitude: 77.2177},
			Contact{Phone: "+91-11-4987-6543", Email: "delhi@blissfulabodes.com", Manager: "Priya Sharma"},
			[]string{"Heritage wing", "Business center", "Ayurvedic spa", "Fine dining restaurant"},
			100, 5000),
		mk("BLISS-BLR", "Blissful Abodes Bangalore",
			Location{Address: "MG Road, Bangalore", City: "Bangalore", State: "Karnataka", Pincode: "560001", Latitude: 12.9716, Longitude: 77.5946},
			Contact{Phone: "+91-80-2345-6789", Email: "bangalore@blissfulabodes.com", Manager: "Arjun Reddy"},
			[]string{"Tech-friendly rooms", "Startup lounge", "EV charging stations", "Tech support 24/7"},
			70, 4800),
		mk("BLISS-GOA", "Blissful Abodes Goa",
			Location{Address: "Calangute Beach, Goa", City: "Goa", State: "Goa", Pincode: "403516", Latitude: 15.5439, Longitude: 73.7553},
			Contact{Phone: "+91-832-245-6789", Email: "goa@blissfulabodes.com", Manager: "Maria Fernandes"},
			[]string{"Beach access", "Watersports center", "Pool villas", "Yoga studio"},
			60, 6000),
		mk("BLISS-CHE", "Blissful Abodes Chennai",
			Location{Address: "Marina Beach Road, Chennai", City: "Chennai", State: "Tamil Nadu", Pincode: "600006", Latitude: 13.0827, Longitude: 80.2707},
			Contact{Phone: "+91-44-4567-8901", Email: "chennai@blissfulabodes.com", Manager: "Rajesh Krishnan"},
			[]string{"Beach view rooms", "Traditional South Indian restaurant", "Ayurvedic spa", "Cultural temple tours"},
			100, 4500),
	}
}
