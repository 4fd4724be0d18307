package rsvp

import "strings"

// ContactKey derives the identity key used to treat two submissions as the
// same person: email wins over phone, phone wins over the trimmed player
// name, and the result is always lowercased.
//
// Phone numbers are deliberately not canonicalized — "+65 1234 5678" and
// "+6512345678" are distinct keys. That matches the stored matching
// contract; fixing it would silently merge rows that the matcher keeps
// separate.
func ContactKey(email, phone *string, playerName string) string {
	if email != nil && *email != "" {
		return strings.ToLower(*email)
	}
	if phone != nil && *phone != "" {
		return strings.ToLower(*phone)
	}
	return strings.ToLower(strings.TrimSpace(playerName))
}
