package model

import "time"

// Movie is a single text entry in a user's movie list.
//
// OwnerID references the User who created the entry. It is set once at
// creation and never changes — ownership is what gates update and delete.
// The `json:"..."` tags control how the struct serializes; for example:
//
//	movie := Movie{ID: "abc", Content: "Blade Runner"}
//	json.Marshal(movie) → {"id":"abc","content":"Blade Runner",...}
type Movie struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
