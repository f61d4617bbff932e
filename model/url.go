package model

import "time"

// URLRecord is the durable representation of one shortened URL.
// Timestamps serialize as RFC3339 strings in the stored JSON array.
type URLRecord struct {
	ID              string       `json:"id"`
	OriginalURL     string       `json:"originalUrl"`
	ShortCode       string       `json:"shortCode"`
	CreatedAt       time.Time    `json:"createdAt"`
	ExpiresAt       time.Time    `json:"expiresAt"`
	ValidityMinutes int          `json:"validityMinutes"`
	IsExpired       bool         `json:"isExpired"`
	Clicks          []ClickEvent `json:"clicks"`
}

// ExpiredAt reports whether the record is past its expiry at the given instant.
func (u *URLRecord) ExpiredAt(now time.Time) bool {
	return now.After(u.ExpiresAt)
}

// ClickEvent is one recorded access of a short code. Immutable once appended.
type ClickEvent struct {
	Timestamp   time.Time   `json:"timestamp"`
	Referrer    string      `json:"referrer"`
	UserAgent   string      `json:"userAgent"`
	Geolocation Geolocation `json:"geolocation"`
}

// Geolocation is the location snapshot attached to a click.
type Geolocation struct {
	Country string `json:"country"`
	City    string `json:"city"`
	IP      string `json:"ip"`
}

// Submission is one inbound URL shortening request.
// ValidityMinutes nil means "use the service default".
type Submission struct {
	URL             string `json:"url"`
	ValidityMinutes *int   `json:"validityMinutes,omitempty"`
	CustomShortCode string `json:"customShortCode,omitempty"`
}

// DirectReferrer is recorded when a click carries no referrer.
const DirectReferrer = "direct"
