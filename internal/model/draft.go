package model

import "time"

// SessionDraft is in-progress wizard form data, keyed by a client-held
// draft key. Data is an opaque JSON object merged field-by-field on save.
type SessionDraft struct {
	Key       string    `json:"key"`
	Data      string    `json:"data"`
	UpdatedAt time.Time `json:"updated_at"`
}
