package models

import "time"

// RoomCategory enumerates the room types.
type RoomCategory string

const (
	RoomSingle RoomCategory = "single"
	RoomDouble RoomCategory = "double"
	RoomSuite  RoomCategory = "suite"
)

// Valid reports whether the category is one of the known types.
func (c RoomCategory) Valid() bool {
	switch c {
	case RoomSingle, RoomDouble, RoomSuite:
		return true
	}
	return false
}

// Room is a bookable hotel room. Available is an administrative
// override ("temporarily closed" when false); whether a room is free on
// a given day is always derived from the booking calendar, never cached.
type Room struct {
	ID        int64        `json:"id"`
	Number    string       `json:"number"`
	Category  RoomCategory `json:"category"`
	RateCents Cents        `json:"nightly_rate"`
	Available bool         `json:"available"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Client is a hotel guest. Deleting a client cascades deletion of their
// bookings (documented cascade policy, enforced by the schema).
type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User roles.
const (
	RoleStaff = 1
	RoleAdmin = 2
)

// User is a backend operator account.
type User struct {
	ID           int64     `json:"id"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
	Role         int       `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Category groups kitchen recipes.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Recipe is a kitchen recipe served by the hotel restaurant.
type Recipe struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`
	Image        string `json:"image,omitempty"`
	CategoryID   *int64 `json:"category_id,omitempty"`
}
