// Package export flattens study data into the analysis CSV. One row per
// (participant, session); column order is fixed and consumed by the
// research team's notebooks, so changes here are breaking.
package export

import (
	"encoding/csv"
	"fmt"
	"strings"

	"sycophancy-survey-be/internal/dto"
)

// Header is the fixed CSV column order.
var Header = []string{
	"Participant ID",
	"Name",
	"Age",
	"Location",
	"Profession",
	"Education",
	"Challenge Number",
	"Challenge Title",
	"Preferred Agent",
	"Reason",
	"Messages A Count",
	"Messages B Count",
	"Completion Date",
}

// BuildCSV renders participants and their sessions as CSV. Participants
// without sessions still get one row so recruitment is visible in the
// sheet.
func BuildCSV(participants []dto.ParticipantDetails) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(Header); err != nil {
		return "", err
	}

	for _, p := range participants {
		if len(p.Sessions) == 0 {
			if err := w.Write(baseRow(p, dto.SessionDetail{})); err != nil {
				return "", err
			}
			continue
		}
		for _, session := range p.Sessions {
			if err := w.Write(baseRow(p, session)); err != nil {
				return "", err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func baseRow(p dto.ParticipantDetails, session dto.SessionDetail) []string {
	messagesA, messagesB := 0, 0
	for _, c := range session.Conversations {
		switch c.Side {
		case "A":
			messagesA = len(c.Messages)
		case "B":
			messagesB = len(c.Messages)
		}
	}

	challengeNumber := ""
	if session.ChallengeNumber > 0 {
		challengeNumber = fmt.Sprintf("%d", session.ChallengeNumber)
	}
	completed := ""
	if session.CompletedAt != nil {
		completed = session.CompletedAt.UTC().Format("2006-01-02 15:04:05")
	}

	return []string{
		p.Id.String(),
		p.Name,
		fmt.Sprintf("%d", p.Age),
		p.Location,
		p.Profession,
		p.Education,
		challengeNumber,
		session.ChallengeTitle,
		session.PreferredAgent,
		session.Reason,
		fmt.Sprintf("%d", messagesA),
		fmt.Sprintf("%d", messagesB),
		completed,
	}
}
