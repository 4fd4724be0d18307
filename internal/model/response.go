package model

import "time"

// Contact preference values accepted on a response.
const (
	ContactEmail = "email"
	ContactPhone = "phone_whatsapp"
)

// Attendance status values accepted on a response.
const (
	StatusIn    = "in"
	StatusOut   = "out"
	StatusMaybe = "maybe"
)

// SessionResponse is one respondent's RSVP for a session. PlayerNameSearch
// holds the lowercased player name and serves as the weakest identity key
// when neither email nor phone is present.
type SessionResponse struct {
	ID               int64     `json:"id"`
	SessionID        string    `json:"session_id"`
	PlayerName       string    `json:"player_name"`
	PlayerNameSearch string    `json:"player_name_search"`
	Email            *string   `json:"email"`
	PhoneWhatsapp    *string   `json:"phone_whatsapp"`
	PreferredContact *string   `json:"preferred_contact"`
	Status           *string   `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
