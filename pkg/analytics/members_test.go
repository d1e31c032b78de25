package analytics

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/chatlens/chatlens/pkg/models"
)

func textMsg(author, content string, ts time.Time) models.Message {
	return models.Message{
		Timestamp: ts,
		Author:    author,
		Content:   content,
		Type:      models.MessageTypeText,
	}
}

func systemMsg(content string, ts time.Time) models.Message {
	return models.Message{
		Timestamp: ts,
		Author:    models.SystemAuthor,
		Content:   content,
		Type:      models.MessageTypeSystem,
	}
}

func at(day, hour int) time.Time {
	return time.Date(2024, 1, day, hour, 0, 0, 0, time.UTC)
}

func TestAnalyzeMembersEmptyInput(t *testing.T) {
	profiles := AnalyzeMembers(nil)
	if len(profiles) != 0 {
		t.Errorf("expected no profiles, got %d", len(profiles))
	}
}

func TestAnalyzeMembersExcludesSystemMessages(t *testing.T) {
	messages := []models.Message{
		systemMsg("Alice added Bob", at(1, 9)),
		textMsg("Alice", "hello", at(1, 10)),
	}

	profiles := AnalyzeMembers(messages)
	if len(profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(profiles))
	}
	if profiles[0].Name != "Alice" {
		t.Errorf("expected profile for Alice, got %q", profiles[0].Name)
	}
}

func TestAnalyzeMembersCountsAndBounds(t *testing.T) {
	messages := []models.Message{
		textMsg("Alice", "one", at(1, 9)),
		textMsg("Bob", "hi", at(1, 10)),
		textMsg("Alice", "two", at(2, 14)),
		textMsg("Alice", "three", at(3, 14)),
	}

	profiles := AnalyzeMembers(messages)
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}

	// Sorted descending by message count.
	alice := profiles[0]
	if alice.Name != "Alice" {
		t.Fatalf("expected Alice first, got %q", alice.Name)
	}
	if alice.TotalMessages != 3 {
		t.Errorf("expected 3 messages, got %d", alice.TotalMessages)
	}
	if !alice.FirstActive.Equal(at(1, 9)) {
		t.Errorf("expected first active %v, got %v", at(1, 9), alice.FirstActive)
	}
	if !alice.LastActive.Equal(at(3, 14)) {
		t.Errorf("expected last active %v, got %v", at(3, 14), alice.LastActive)
	}
}

func TestAnalyzeMembersMessageFrequency(t *testing.T) {
	tests := []struct {
		name     string
		messages []models.Message
		want     float64
	}{
		{
			name: "single day counts as one",
			messages: []models.Message{
				textMsg("Alice", "a", at(1, 9)),
				textMsg("Alice", "b", at(1, 10)),
			},
			want: 2,
		},
		{
			name: "spread over two full days",
			messages: []models.Message{
				textMsg("Alice", "a", at(1, 9)),
				textMsg("Alice", "b", at(2, 9)),
				textMsg("Alice", "c", at(3, 9)),
				textMsg("Alice", "d", at(3, 10)),
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := AnalyzeMembers(tt.messages)
			if len(profiles) != 1 {
				t.Fatalf("expected 1 profile, got %d", len(profiles))
			}
			if profiles[0].MessageFrequency != tt.want {
				t.Errorf("expected frequency %v, got %v", tt.want, profiles[0].MessageFrequency)
			}
		})
	}
}

func TestAnalyzeMembersDailyActivitySumsToTotal(t *testing.T) {
	messages := []models.Message{
		textMsg("Alice", "a", at(1, 9)),
		textMsg("Alice", "b", at(1, 23)),
		textMsg("Alice", "c", at(4, 7)),
		textMsg("Alice", "d", at(9, 7)),
		textMsg("Alice", "e", at(9, 8)),
	}

	profiles := AnalyzeMembers(messages)
	if len(profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(profiles))
	}

	sum := 0
	for _, day := range profiles[0].DailyActivity {
		sum += day.Count
	}
	if sum != profiles[0].TotalMessages {
		t.Errorf("daily activity sums to %d, want %d", sum, profiles[0].TotalMessages)
	}

	// Ordered ascending by date, only days with activity present.
	if len(profiles[0].DailyActivity) != 3 {
		t.Fatalf("expected 3 active days, got %d", len(profiles[0].DailyActivity))
	}
	for i := 1; i < len(profiles[0].DailyActivity); i++ {
		if profiles[0].DailyActivity[i].Date <= profiles[0].DailyActivity[i-1].Date {
			t.Error("daily activity not sorted ascending by date")
		}
	}
}

func TestAnalyzeMembersMostActiveHour(t *testing.T) {
	messages := []models.Message{
		textMsg("Alice", "a", at(1, 14)),
		textMsg("Alice", "b", at(2, 14)),
		textMsg("Alice", "c", at(3, 9)),
	}

	profiles := AnalyzeMembers(messages)
	if profiles[0].MostActiveHour != 14 {
		t.Errorf("expected most active hour 14, got %d", profiles[0].MostActiveHour)
	}
}

func TestAnalyzeMembersMostActiveHourTieTakesLowest(t *testing.T) {
	messages := []models.Message{
		textMsg("Alice", "a", at(1, 18)),
		textMsg("Alice", "b", at(2, 9)),
	}

	profiles := AnalyzeMembers(messages)
	if profiles[0].MostActiveHour != 9 {
		t.Errorf("expected tie broken by lowest hour 9, got %d", profiles[0].MostActiveHour)
	}
}

func TestAnalyzeMembersRecentMessages(t *testing.T) {
	long := strings.Repeat("x", 150)
	messages := []models.Message{
		textMsg("Alice", "first", at(1, 9)),
		textMsg("Alice", "", at(1, 10)),
		textMsg("Alice", "second", at(1, 11)),
		textMsg("Alice", "third", at(1, 12)),
		textMsg("Alice", long, at(1, 13)),
	}

	profiles := AnalyzeMembers(messages)
	recent := profiles[0].RecentMessages

	if len(recent) != 3 {
		t.Fatalf("expected 3 recent messages, got %d", len(recent))
	}
	// Chronological order, empty bodies skipped, long bodies truncated.
	if recent[0] != "second" || recent[1] != "third" {
		t.Errorf("unexpected recent messages: %v", recent[:2])
	}
	if len(recent[2]) != 100 {
		t.Errorf("expected truncation to 100 characters, got %d", len(recent[2]))
	}
}

func TestAnalyzeMembersSortStableForTies(t *testing.T) {
	messages := []models.Message{
		textMsg("Alice", "a", at(1, 9)),
		textMsg("Bob", "b", at(1, 10)),
		textMsg("Carol", "c", at(1, 11)),
	}

	profiles := AnalyzeMembers(messages)
	wantOrder := []string{"Alice", "Bob", "Carol"}
	for i, want := range wantOrder {
		if profiles[i].Name != want {
			t.Errorf("position %d: expected %q, got %q", i, want, profiles[i].Name)
		}
	}
}

func TestAnalyzeMembersManyAuthors(t *testing.T) {
	var messages []models.Message
	for i := 0; i < 10; i++ {
		author := fmt.Sprintf("member-%d", i)
		for j := 0; j <= i; j++ {
			messages = append(messages, textMsg(author, "m", at(1+j, 9)))
		}
	}

	profiles := AnalyzeMembers(messages)
	if len(profiles) != 10 {
		t.Fatalf("expected 10 profiles, got %d", len(profiles))
	}
	for i := 1; i < len(profiles); i++ {
		if profiles[i].TotalMessages > profiles[i-1].TotalMessages {
			t.Error("profiles not sorted descending by total messages")
		}
	}
}
