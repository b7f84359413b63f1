package model

import "time"

// ContactMessage represents a message submitted via the contact form.
// Phone and Message are stored as empty strings when absent, never NULL.
type ContactMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// RecentContactsLimit is the number of records returned by the debug listing.
const RecentContactsLimit = 50
