package status

import "strings"

// StatusOperational is the single canonical healthy status value.
// Every other status string counts as degraded.
const StatusOperational = "operational"

// Component is one entry of a status feed response.
type Component struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Operational reports whether the component is healthy.
func (c Component) Operational() bool {
	return c.Status == StatusOperational
}

// Normalize lowercases statuses and fills placeholder values for missing
// fields, matching how the feed is ingested everywhere else.
func Normalize(components []Component) []Component {
	out := make([]Component, len(components))
	for i, c := range components {
		if c.ID == "" {
			c.ID = "unknown"
		}
		if c.Name == "" {
			c.Name = "Unknown Component"
		}
		if c.Status == "" {
			c.Status = "unknown"
		}
		c.Status = strings.ToLower(c.Status)
		out[i] = c
	}
	return out
}
