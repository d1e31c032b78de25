// Package analytics derives engagement statistics from a parsed message
// sequence. All aggregation here is pure and in-memory; the only I/O is the
// optional, best-effort resource title enrichment.
package analytics

import (
	"sort"
	"time"

	"github.com/chatlens/chatlens/pkg/models"
)

const (
	recentMessageCount  = 3
	recentMessageLength = 100
)

// AnalyzeMembers aggregates the message sequence into one engagement profile
// per distinct author. System messages are excluded. Profiles are sorted
// descending by message count; authors with equal counts keep their
// first-appearance order.
func AnalyzeMembers(messages []models.Message) []models.MemberProfile {
	byAuthor := make(map[string][]models.Message)
	order := make([]string, 0)

	for _, msg := range messages {
		if msg.IsSystem() {
			continue
		}
		if _, seen := byAuthor[msg.Author]; !seen {
			order = append(order, msg.Author)
		}
		byAuthor[msg.Author] = append(byAuthor[msg.Author], msg)
	}

	profiles := make([]models.MemberProfile, 0, len(order))
	for _, author := range order {
		profiles = append(profiles, buildProfile(author, byAuthor[author]))
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].TotalMessages > profiles[j].TotalMessages
	})

	return profiles
}

func buildProfile(author string, msgs []models.Message) models.MemberProfile {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})

	first := msgs[0].Timestamp
	last := msgs[len(msgs)-1].Timestamp

	dayCounts := make(map[string]int)
	var hourCounts [24]int
	for _, msg := range msgs {
		dayCounts[msg.Timestamp.Format("2006-01-02")]++
		hourCounts[msg.Timestamp.Hour()]++
	}

	daily := make([]models.DayCount, 0, len(dayCounts))
	for date, count := range dayCounts {
		daily = append(daily, models.DayCount{Date: date, Count: count})
	}
	sort.Slice(daily, func(i, j int) bool {
		return daily[i].Date < daily[j].Date
	})

	// First hour reaching the maximum, scanning ascending for determinism.
	mostActiveHour := 0
	for h := 1; h < 24; h++ {
		if hourCounts[h] > hourCounts[mostActiveHour] {
			mostActiveHour = h
		}
	}

	return models.MemberProfile{
		Name:             author,
		TotalMessages:    len(msgs),
		FirstActive:      first,
		LastActive:       last,
		MessageFrequency: float64(len(msgs)) / float64(max(daysBetween(first, last), 1)),
		DailyActivity:    daily,
		MostActiveHour:   mostActiveHour,
		RecentMessages:   recentMessages(msgs),
	}
}

// recentMessages returns up to the last 3 non-empty message bodies in
// chronological order, each truncated to 100 characters.
func recentMessages(msgs []models.Message) []string {
	bodies := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Content == "" {
			continue
		}
		bodies = append(bodies, truncate(msg.Content, recentMessageLength))
	}

	if len(bodies) > recentMessageCount {
		bodies = bodies[len(bodies)-recentMessageCount:]
	}
	return bodies
}

// daysBetween returns the number of whole days between two timestamps.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// truncate shortens s to at most max characters.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
