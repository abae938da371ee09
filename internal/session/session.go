package session

// Status is the availability state a booking site reports for a slot.
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusSoldOut   Status = "SOLD OUT"
)

// Session is one bookable offering observed during a scrape. It is produced
// fresh each cycle; nothing about it is stable across scrapes except the
// concatenation of its fields.
type Session struct {
	Type       string `json:"session_type"`
	DateTime   string `json:"date_time"`
	Status     Status `json:"status"`
	Site       string `json:"site"`
	URL        string `json:"url"`
	QtyInStock int    `json:"qty_in_stock"`
	Booked     bool   `json:"is_booked,omitempty"`
}

// Identity returns the exact-string key used for status store lookups.
// Lookups against this key require byte equality; it is deliberately
// unrelated to Matches, which is only for booked-slot detection.
func (s Session) Identity() string {
	return s.Site + ":" + s.Type + ":" + s.DateTime
}
