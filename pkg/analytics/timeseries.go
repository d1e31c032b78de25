package analytics

import (
	"time"

	"github.com/chatlens/chatlens/pkg/models"
)

// GenerateDailyStats buckets non-system messages into per-day counts over the
// inclusive calendar span from the first to the last message. Days without
// activity are present with zero counts. Output is sorted ascending by date.
func GenerateDailyStats(messages []models.Message) []models.DailyActivity {
	var first, last time.Time
	counts := make(map[string]int)
	members := make(map[string]map[string]struct{})

	for _, msg := range messages {
		if msg.IsSystem() {
			continue
		}

		if first.IsZero() || msg.Timestamp.Before(first) {
			first = msg.Timestamp
		}
		if last.IsZero() || msg.Timestamp.After(last) {
			last = msg.Timestamp
		}

		date := msg.Timestamp.Format("2006-01-02")
		counts[date]++
		if members[date] == nil {
			members[date] = make(map[string]struct{})
		}
		members[date][msg.Author] = struct{}{}
	}

	if first.IsZero() {
		return []models.DailyActivity{}
	}

	stats := make([]models.DailyActivity, 0)
	day := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, first.Location())
	end := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, last.Location())

	for !day.After(end) {
		date := day.Format("2006-01-02")
		stats = append(stats, models.DailyActivity{
			Date:          date,
			MessageCount:  counts[date],
			ActiveMembers: len(members[date]),
		})
		day = day.AddDate(0, 0, 1)
	}

	return stats
}

// GenerateHourlyDistribution counts non-system messages per local hour of
// day. All 24 hours are present, sorted ascending.
func GenerateHourlyDistribution(messages []models.Message) []models.HourCount {
	var counts [24]int
	for _, msg := range messages {
		if msg.IsSystem() {
			continue
		}
		counts[msg.Timestamp.Hour()]++
	}

	dist := make([]models.HourCount, 24)
	for h := 0; h < 24; h++ {
		dist[h] = models.HourCount{Hour: h, Count: counts[h]}
	}

	return dist
}

// ActiveMembersInPeriod counts the distinct non-system authors who posted
// within the last N days.
func ActiveMembersInPeriod(messages []models.Message, days int) int {
	return activeMembersSince(messages, time.Now().AddDate(0, 0, -days))
}

func activeMembersSince(messages []models.Message, cutoff time.Time) int {
	authors := make(map[string]struct{})
	for _, msg := range messages {
		if msg.IsSystem() || !msg.Timestamp.After(cutoff) {
			continue
		}
		authors[msg.Author] = struct{}{}
	}
	return len(authors)
}
