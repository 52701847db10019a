package entities

import "time"

// Dish is a named menu item attached to a stall, used for
// categorization and filter population.
type Dish struct {
	ID        string    `json:"id" db:"id"`
	StallID   string    `json:"stall_id" db:"stall_id"`
	Name      string    `json:"name" db:"name"`
	Tags      []string  `json:"tags" db:"-"`
	Price     string    `json:"price,omitempty" db:"price"`
	ImageURL  string    `json:"image_url,omitempty" db:"image_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AddTag appends tag if absent; tags behave as a set.
func (d *Dish) AddTag(tag string) {
	for _, t := range d.Tags {
		if t == tag {
			return
		}
	}
	d.Tags = append(d.Tags, tag)
}

// RemoveTag removes tag if present.
func (d *Dish) RemoveTag(tag string) {
	for i, t := range d.Tags {
		if t == tag {
			d.Tags = append(d.Tags[:i], d.Tags[i+1:]...)
			return
		}
	}
}
