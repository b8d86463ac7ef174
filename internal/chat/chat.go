// Package chat holds the parsed representation of a chat export.
package chat

import "time"

// Record is one message row of a parsed chat export.
// Index is the position assigned when the export was parsed; it survives
// filtering so that exported rows keep their original index.
type Record struct {
	Index     int       `json:"index"`
	Timestamp time.Time `json:"timestamp"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
}

// Table is an ordered sequence of records, oldest first as parsed.
type Table []Record

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t)
}

// Usernames returns the distinct usernames in first-seen order.
func (t Table) Usernames() []string {
	seen := make(map[string]bool, 8)
	var names []string
	for _, r := range t {
		if !seen[r.Username] {
			seen[r.Username] = true
			names = append(names, r.Username)
		}
	}
	return names
}
