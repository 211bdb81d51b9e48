package entity

import "time"

// Category is the fixed set of event categories.
type Category string

const (
	CategoryParty   Category = "Party"
	CategoryConcert Category = "Concert"
	CategoryChill   Category = "Chill"
	CategorySports  Category = "Sports"
	CategoryArt     Category = "Art"

	// CategoryAll is the filter wildcard; never persisted on an event.
	CategoryAll Category = "All"
)

// Categories lists every persistable category in display order.
func Categories() []Category {
	return []Category{CategoryParty, CategoryConcert, CategoryChill, CategorySports, CategoryArt}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryParty, CategoryConcert, CategoryChill, CategorySports, CategoryArt:
		return true
	}
	return false
}

// Event is a persisted event record. Attendees are embedded profile
// snapshots, not references; a price of 0 means the event is free.
type Event struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Date        time.Time    `json:"date"`
	Location    string       `json:"location"`
	ImageURL    string       `json:"imageUrl"`
	Description string       `json:"description"`
	Attendees   []PublicUser `json:"attendees"`
	Category    Category     `json:"category"`
	HostID      string       `json:"hostId,omitempty"`
	Price       float64      `json:"price"`
}

// HasAttendee reports whether userID appears in the attendee list.
func (e Event) HasAttendee(userID string) bool {
	for _, a := range e.Attendees {
		if a.ID == userID {
			return true
		}
	}
	return false
}
