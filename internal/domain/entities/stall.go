package entities

import "time"

// Default values applied to stall records with missing descriptive
// fields, matching what the mobile clients expect to render.
const (
	DefaultStallName    = "Unknown Stall"
	DefaultDishType     = "Various"
	DefaultArea         = "Unknown Area"
	DefaultOpeningHours = "Not specified"
)

// Stall represents a food stall in the system
type Stall struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	DishType     string    `json:"dish_type" db:"dish_type"`
	Area         string    `json:"area" db:"area"`
	Location     Location  `json:"location" db:"-"`
	Images       []string  `json:"images" db:"-"`
	Description  string    `json:"description" db:"description"`
	OpeningHours string    `json:"opening_hours" db:"opening_hours"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	OwnerName    string    `json:"owner_name,omitempty" db:"owner_name"`
	Rating       float64   `json:"rating" db:"rating"`
	NumRatings   int       `json:"num_ratings" db:"num_ratings"`
	CreatedBy    string    `json:"created_by" db:"created_by"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// HasLocation reports whether the stall carries real coordinates.
// (0,0) is the "location unknown" sentinel written by clients that
// could not obtain a fix. Such stalls are not excluded from
// distance-based features; callers can use this to tag them.
func (s *Stall) HasLocation() bool {
	return s.Location.Latitude != 0 || s.Location.Longitude != 0
}

// ApplyDefaults fills missing descriptive fields with their sentinel
// values so a partially-written document never renders empty.
func (s *Stall) ApplyDefaults() {
	if s.Name == "" {
		s.Name = DefaultStallName
		if s.ID != "" {
			s.Name = "Stall " + s.ID
		}
	}
	if s.DishType == "" {
		s.DishType = DefaultDishType
	}
	if s.Area == "" {
		s.Area = DefaultArea
	}
	if s.OpeningHours == "" {
		s.OpeningHours = DefaultOpeningHours
	}
	if s.Images == nil {
		s.Images = []string{}
	}
	if s.Rating < 0 {
		s.Rating = 0
	}
	if s.NumRatings < 0 {
		s.NumRatings = 0
	}
}

// UpdateRating folds a new review rating into the running mean.
// Invariant: rating' = (rating*numRatings + r) / (numRatings+1).
func (s *Stall) UpdateRating(newRating float64) {
	total := s.Rating * float64(s.NumRatings)
	s.NumRatings++
	s.Rating = (total + newRating) / float64(s.NumRatings)
}

// AddImage appends an image URL; the slice keeps upload order.
func (s *Stall) AddImage(url string) {
	s.Images = append(s.Images, url)
}
