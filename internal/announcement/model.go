package announcement

import (
	"errors"
	"time"
)

// ErrNotFound is returned by the repository when no row matches.
var ErrNotFound = errors.New("announcement not found")

// Announcement is a published notice with its associated categories.
type Announcement struct {
	ID              string
	Title           string
	Content         string
	PublicationDate time.Time
	LastUpdate      time.Time
	Categories      []Category
}

// Category is a fixed reference tag announcements can be associated
// with. Codes are unique across the system.
type Category struct {
	ID    string
	Code  string
	Label string
}

// SortField names an announcement attribute results can be ordered by.
type SortField string

const (
	SortByTitle           SortField = "title"
	SortByPublicationDate SortField = "publicationDate"
	SortByLastUpdate      SortField = "lastUpdate"
)

// Filter defines parameters for listing announcements. All result sets
// are returned in full; there is no pagination.
type Filter struct {
	Search     string
	Categories []string
	SortBy     SortField
	Descending bool
}
