package export

import "time"

// Result describes a finished export file
type Result struct {
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	ExpiresAt   time.Time `json:"expires_at"`
	Rows        int       `json:"rows"`
	Truncated   bool      `json:"truncated"`
	GeneratedAt time.Time `json:"generated_at"`
}
