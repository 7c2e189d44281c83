package models

import "time"

// Alert is raised when the most recent events form an unbroken run of the
// watched category.
type Alert struct {
	Category string
	Count    int
	Through  time.Time // newest event in the streak
}

// AlertView is the wire form of an Alert.
type AlertView struct {
	Category string `json:"watched_category"`
	Count    int    `json:"count"`
	Through  string `json:"through"`
}

// View renders a for API responses.
func (a Alert) View() *AlertView {
	return &AlertView{Category: a.Category, Count: a.Count, Through: FormatTimestamp(a.Through)}
}

// StreakResponse is returned by GET /streak.
type StreakResponse struct {
	Category  string     `json:"watched_category"`
	Threshold int        `json:"threshold"`
	Fired     bool       `json:"fired"`
	Alert     *AlertView `json:"alert,omitempty"`
}
