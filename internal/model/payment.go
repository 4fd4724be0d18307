package model

import "time"

type Payment struct {
	ID              int64     `json:"id"`
	SessionID       string    `json:"session_id"`
	StripeSessionID string    `json:"stripe_session_id"`
	AmountCents     int64     `json:"amount_cents"`
	Currency        string    `json:"currency"`
	PayerEmail      *string   `json:"payer_email"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}
