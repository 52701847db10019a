package entities

import "time"

// Review represents one user's rating and comment for one stall.
//
// UserName, UserProfileImageURL and StallName are denormalized copies
// taken from the authoring user and the stall at write time. They are
// intentionally not refreshed when the source records change; readers
// get the names as they were when the review was written.
type Review struct {
	ID                  string    `json:"id" db:"id"`
	StallID             string    `json:"stall_id" db:"stall_id"`
	UserID              string    `json:"user_id" db:"user_id"`
	Rating              float64   `json:"rating" db:"rating"`
	Comment             string    `json:"comment" db:"comment"`
	UserName            string    `json:"user_name" db:"user_name"`
	UserProfileImageURL string    `json:"user_profile_image_url,omitempty" db:"user_profile_image_url"`
	StallName           string    `json:"stall_name" db:"stall_name"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
}
