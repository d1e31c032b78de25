package models

import "time"

// DayCount is one calendar day of activity for a single member
type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// MemberProfile aggregates one participant's engagement across an export
type MemberProfile struct {
	Name             string     `json:"name"`
	TotalMessages    int        `json:"total_messages"`
	FirstActive      time.Time  `json:"first_active"`
	LastActive       time.Time  `json:"last_active"`
	MessageFrequency float64    `json:"message_frequency"` // messages per day
	DailyActivity    []DayCount `json:"daily_activity"`
	MostActiveHour   int        `json:"most_active_hour"` // 0-23, local time
	RecentMessages   []string   `json:"recent_messages"`
}

// ResourceCategory classifies a shared URL
type ResourceCategory string

const (
	ResourceCategoryLink     ResourceCategory = "link"
	ResourceCategoryTool     ResourceCategory = "tool"
	ResourceCategoryDocument ResourceCategory = "document"
)

// Resource is a single URL occurrence shared in the chat. Occurrences are
// not deduplicated; the same URL shared twice yields two resources.
type Resource struct {
	URL        string           `json:"url"`
	Domain     string           `json:"domain"` // "unknown" when the host cannot be parsed
	SharedBy   string           `json:"shared_by"`
	DateShared time.Time        `json:"date_shared"`
	Context    string           `json:"context"` // surrounding message body, truncated
	Category   ResourceCategory `json:"category"`
	Title      string           `json:"title,omitempty"` // best-effort page title
}

// DailyActivity is one calendar day of group-wide activity
type DailyActivity struct {
	Date          string `json:"date"` // YYYY-MM-DD
	MessageCount  int    `json:"message_count"`
	ActiveMembers int    `json:"active_members"`
}

// HourCount is one hour-of-day bucket of group-wide activity
type HourCount struct {
	Hour  int `json:"hour"` // 0-23
	Count int `json:"count"`
}

// AnalysisReport is the combined output of one export analysis, handed to
// persistence and presentation layers as plain data.
type AnalysisReport struct {
	ID                 string          `json:"id"`
	CreatedAt          time.Time       `json:"created_at"`
	MessageCount       int             `json:"message_count"`
	Members            []MemberProfile `json:"members"`
	Resources          []Resource      `json:"resources"`
	DailyStats         []DailyActivity `json:"daily_stats"`
	HourlyDistribution []HourCount     `json:"hourly_distribution"`
	ActiveMembers      int             `json:"active_members"` // distinct authors in the configured activity window
	Recap              string          `json:"recap,omitempty"`
}
