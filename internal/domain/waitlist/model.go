// Package waitlist collects landing-page sign-ups.
package waitlist

import "time"

// Entry is a normalized waitlist address.
type Entry struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
