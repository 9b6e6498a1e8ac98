package model

import "time"

// Importance grades how much a catalyst can move the underlying.
type Importance string

const (
	ImportanceHigh   Importance = "High"
	ImportanceMedium Importance = "Medium"
)

// ParseImportance maps free text to an Importance, defaulting to Medium.
func ParseImportance(s string) Importance {
	switch s {
	case "High", "high", "HIGH":
		return ImportanceHigh
	default:
		return ImportanceMedium
	}
}

// CalendarEvent is a dated catalyst such as an earnings release.
type CalendarEvent struct {
	Date       time.Time  `json:"date"`
	Label      string     `json:"label"`
	Importance Importance `json:"importance"`
}
