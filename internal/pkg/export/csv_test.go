package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sycophancy-survey-be/internal/dto"
)

func participantFixture() dto.ParticipantDetails {
	completed := time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC)
	return dto.ParticipantDetails{
		ParticipantSummary: dto.ParticipantSummary{
			Id:         uuid.MustParse("11111111-1111-1111-1111-111111111111"),
			Name:       "Test User",
			Age:        28,
			Location:   "San Francisco, CA",
			Profession: "Software Engineer",
			Education:  "bachelors",
		},
		Sessions: []dto.SessionDetail{
			{
				Id:              uuid.New(),
				ChallengeNumber: 1,
				ChallengeTitle:  "Trip Planning",
				PreferredAgent:  "A",
				Reason:          "warmer tone",
				CompletedAt:     &completed,
				Conversations: []dto.ConversationDetail{
					{Side: "A", Messages: []dto.ChatMessage{{Role: "user", Content: "hi"}, {Role: "assistant", Content: "hello"}}},
					{Side: "B", Messages: []dto.ChatMessage{{Role: "user", Content: "hi"}}},
				},
			},
		},
	}
}

func parseCSV(t *testing.T, raw string) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestBuildCSVRowPerSession(t *testing.T) {
	raw, err := BuildCSV([]dto.ParticipantDetails{participantFixture()})
	require.NoError(t, err)

	records := parseCSV(t, raw)
	require.Len(t, records, 2)
	assert.Equal(t, Header, records[0])

	row := records[1]
	require.Len(t, row, len(Header))
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", row[0])
	assert.Equal(t, "Test User", row[1])
	assert.Equal(t, "28", row[2])
	assert.Equal(t, "1", row[6])
	assert.Equal(t, "Trip Planning", row[7])
	assert.Equal(t, "A", row[8])
	assert.Equal(t, "warmer tone", row[9])
	assert.Equal(t, "2", row[10])
	assert.Equal(t, "1", row[11])
	assert.Equal(t, "2026-08-20 14:30:00", row[12])
}

func TestBuildCSVParticipantWithoutSessions(t *testing.T) {
	p := participantFixture()
	p.Sessions = nil

	raw, err := BuildCSV([]dto.ParticipantDetails{p})
	require.NoError(t, err)

	records := parseCSV(t, raw)
	require.Len(t, records, 2)
	row := records[1]
	assert.Equal(t, "Test User", row[1])
	assert.Equal(t, "", row[6])
	assert.Equal(t, "", row[12])
	assert.Equal(t, "0", row[10])
	assert.Equal(t, "0", row[11])
}

func TestBuildCSVEscapesCommasAndQuotes(t *testing.T) {
	p := participantFixture()
	p.Sessions[0].Reason = `said "cheaper, faster"`

	raw, err := BuildCSV([]dto.ParticipantDetails{p})
	require.NoError(t, err)

	records := parseCSV(t, raw)
	assert.Equal(t, `said "cheaper, faster"`, records[1][9])
}
