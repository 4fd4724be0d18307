package model

import "time"

type Session struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Venue          string    `json:"venue"`
	Time           string    `json:"time"`
	MinPlayers     *int64    `json:"min_players"`
	MaxPlayers     *int64    `json:"max_players"`
	Message        string    `json:"message"`
	RequireContact bool      `json:"require_contact"`
	PriceCents     *int64    `json:"price_cents"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
