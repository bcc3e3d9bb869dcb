package interviewsvc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkrupp/smart-interviewer/internal/domain"
	"github.com/mkrupp/smart-interviewer/internal/svc/interviewsvc"
)

func TestNormalizeTranscript(t *testing.T) {
	t.Parallel()

	ai := func(s string) domain.Turn { return domain.Turn{Role: domain.RoleAI, Content: s} }
	user := func(s string) domain.Turn { return domain.Turn{Role: domain.RoleUser, Content: s} }

	tests := []struct {
		name        string
		turns       []domain.Turn
		wantHistory []interviewsvc.ChatTurn
		wantMessage string
	}{
		{
			name:        "empty transcript starts the interview",
			turns:       nil,
			wantHistory: nil,
			wantMessage: interviewsvc.StartMessage,
		},
		{
			name:        "single human turn",
			turns:       []domain.Turn{user("hello")},
			wantHistory: []interviewsvc.ChatTurn{},
			wantMessage: "hello",
		},
		{
			name:  "history opening with the interviewer gets a synthetic human turn",
			turns: []domain.Turn{ai("Hi, tell me about yourself"), user("I build things")},
			wantHistory: []interviewsvc.ChatTurn{
				{Role: interviewsvc.ChatRoleUser, Text: interviewsvc.StartMessage},
				{Role: interviewsvc.ChatRoleModel, Text: "Hi, tell me about yourself"},
			},
			wantMessage: "I build things",
		},
		{
			name:  "history opening with a human turn is kept",
			turns: []domain.Turn{user("ready"), ai("Q1"), user("A1")},
			wantHistory: []interviewsvc.ChatTurn{
				{Role: interviewsvc.ChatRoleUser, Text: "ready"},
				{Role: interviewsvc.ChatRoleModel, Text: "Q1"},
			},
			wantMessage: "A1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			history, message := interviewsvc.NormalizeTranscript(tt.turns)

			assert.Equal(t, tt.wantHistory, history)
			assert.Equal(t, tt.wantMessage, message)
		})
	}
}
