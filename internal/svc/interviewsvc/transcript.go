package interviewsvc

import (
	"github.com/mkrupp/smart-interviewer/internal/domain"
)

// StartMessage opens the interview when no human turn precedes the model.
const StartMessage = "Start the interview. Greet me and ask your first question."

// ChatRole is the speaker of a turn as the model sees it.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatTurn is one history entry sent to the model.
type ChatTurn struct {
	Role ChatRole
	Text string
}

// NormalizeTranscript converts the transcript into model history plus the
// message to send. All but the last turn become history; the model requires
// history to open with a user turn, so StartMessage is prepended when the
// first turn is the interviewer's. An empty transcript sends StartMessage.
func NormalizeTranscript(turns []domain.Turn) (history []ChatTurn, message string) {
	if len(turns) == 0 {
		return nil, StartMessage
	}

	prior := turns[:len(turns)-1]
	history = make([]ChatTurn, 0, len(prior)+1)

	for _, turn := range prior {
		history = append(history, ChatTurn{Role: chatRole(turn.Role), Text: turn.Content})
	}

	if len(history) > 0 && history[0].Role == ChatRoleModel {
		history = append([]ChatTurn{{Role: ChatRoleUser, Text: StartMessage}}, history...)
	}

	return history, turns[len(turns)-1].Content
}

func chatRole(role domain.TurnRole) ChatRole {
	if role == domain.RoleAI {
		return ChatRoleModel
	}

	return ChatRoleUser
}
