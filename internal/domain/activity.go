// Package domain contains the core data types for the trip companion.
// It is imported by every other internal package and depends on nothing
// internal itself.
package domain

// Category is the fixed set of activity tags.
type Category string

const (
	CategoryLogistics   Category = "logistics"
	CategoryTransport   Category = "transport"
	CategorySightseeing Category = "sightseeing"
	CategoryFood        Category = "food"
	CategoryShopping    Category = "shopping"
)

// NoteCritical marks a time-sensitive stop (e.g. the last bus back).
const NoteCritical = "CRITICAL"

// Cost is the price of an activity in the two currencies the traveler tracks.
type Cost struct {
	NOK float64 `json:"nok" yaml:"nok" validate:"gte=0"`
	EUR float64 `json:"eur" yaml:"eur" validate:"gte=0"`
}

// Links are the optional external references attached to an activity.
type Links struct {
	Ticket    string `json:"ticket_url,omitempty" yaml:"ticketUrl" validate:"omitempty,url"`
	Route     string `json:"route_url,omitempty" yaml:"routeUrl" validate:"omitempty,url"`
	Instagram string `json:"instagram_url,omitempty" yaml:"instagramUrl" validate:"omitempty,url"`
}

// Activity is one scheduled itinerary stop.
// EndCoords is nil for point stops; when set the stop spans a route segment
// (a bus ride, a walk) and EndLocationName names its destination.
type Activity struct {
	ID              string      `json:"id" yaml:"id" validate:"required"`
	Title           string      `json:"title" yaml:"title" validate:"required"`
	StartTime       TimeOfDay   `json:"start_time" yaml:"startTime"`
	EndTime         TimeOfDay   `json:"end_time" yaml:"endTime"`
	LocationName    string      `json:"location_name" yaml:"locationName" validate:"required"`
	Coords          Coordinate  `json:"coords" yaml:"coords"`
	EndLocationName string      `json:"end_location_name,omitempty" yaml:"endLocationName"`
	EndCoords       *Coordinate `json:"end_coords,omitempty" yaml:"endCoords"`
	Description     string      `json:"description" yaml:"description"`
	FullDescription string      `json:"full_description,omitempty" yaml:"fullDescription"`
	Tips            string      `json:"tips,omitempty" yaml:"tips"`
	KeyDetails      string      `json:"key_details,omitempty" yaml:"keyDetails"`
	Category        Category    `json:"category" yaml:"type" validate:"required,oneof=logistics transport sightseeing food shopping"`
	Cost            Cost        `json:"cost" yaml:"price"`
	Completed       bool        `json:"completed" yaml:"completed"`
	Links           Links       `json:"links" yaml:"links"`
	Notes           string      `json:"notes,omitempty" yaml:"notes"`
}

// IsRoute reports whether the activity spans a segment rather than a point.
func (a Activity) IsRoute() bool {
	return a.EndCoords != nil
}

// IsCritical reports whether the activity is flagged as time-sensitive.
func (a Activity) IsCritical() bool {
	return a.Notes == NoteCritical
}
