package intake

// DefaultCountryCode is preselected for every new visitor.
const DefaultCountryCode = "+94"

// FloorRooms is one entry of the floor/room reference catalog.
type FloorRooms struct {
	Floor string   `json:"floor"`
	Rooms []string `json:"rooms"`
}

// CountryCode is a dialing code offered next to the contact number.
type CountryCode struct {
	Code    string `json:"code"`
	Country string `json:"country"`
	Flag    string `json:"flag"`
}

var floorCatalog = []FloorRooms{
	{Floor: "Ground Floor", Rooms: []string{"Lobby", "Reception", "Cafe", "Security Office", "Main Entrance"}},
	{Floor: "1st Floor", Rooms: []string{"Meeting Room A", "Meeting Room B", "Conference Hall", "Common Area", "Pantry"}},
	{Floor: "2nd Floor", Rooms: []string{"Executive Office", "Board Room", "HR Department", "Finance Department", "Break Room"}},
	{Floor: "3rd Floor", Rooms: []string{"IT Department", "Development Team", "Testing Lab", "Server Room", "Storage"}},
	{Floor: "4th Floor", Rooms: []string{"Marketing Department", "Sales Team", "Customer Service", "Training Room", "Library"}},
	{Floor: "5th Floor", Rooms: []string{"Research Lab", "Innovation Center", "Project Room", "Collaboration Space", "Quiet Zone"}},
}

var countryCodes = []CountryCode{
	{Code: "+1", Country: "US/CA", Flag: "🇺🇸"},
	{Code: "+44", Country: "UK", Flag: "🇬🇧"},
	{Code: "+91", Country: "IN", Flag: "🇮🇳"},
	{Code: "+86", Country: "CN", Flag: "🇨🇳"},
	{Code: "+49", Country: "DE", Flag: "🇩🇪"},
	{Code: "+33", Country: "FR", Flag: "🇫🇷"},
	{Code: "+81", Country: "JP", Flag: "🇯🇵"},
	{Code: "+82", Country: "KR", Flag: "🇰🇷"},
	{Code: "+61", Country: "AU", Flag: "🇦🇺"},
	{Code: "+55", Country: "BR", Flag: "🇧🇷"},
	{Code: "+94", Country: "LK", Flag: "🇱🇰"},
}

// FloorCatalog returns a copy of the floors and rooms a visit may grant.
func FloorCatalog() []FloorRooms {
	out := make([]FloorRooms, len(floorCatalog))
	for i, f := range floorCatalog {
		out[i] = FloorRooms{Floor: f.Floor, Rooms: append([]string(nil), f.Rooms...)}
	}
	return out
}

func IsKnownRoom(floor, room string) bool {
	for _, f := range floorCatalog {
		if f.Floor != floor {
			continue
		}
		for _, r := range f.Rooms {
			if r == room {
				return true
			}
		}
	}
	return false
}

// CountryCodes returns a copy of the dialing code reference list.
func CountryCodes() []CountryCode {
	return append([]CountryCode(nil), countryCodes...)
}

func IsKnownCountryCode(code string) bool {
	for _, c := range countryCodes {
		if c.Code == code {
			return true
		}
	}
	return false
}
