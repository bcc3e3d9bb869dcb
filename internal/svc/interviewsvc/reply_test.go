package interviewsvc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/smart-interviewer/internal/svc/interviewsvc"
)

const modelJSON = `{"evaluation":{"question":"What is Go?","score":8,"strengths":["clear"],"weaknesses":["short"],"improvement":"more depth","modelAnswer":"A language"},"feedback":"Good.","nextQuestion":"Why channels?"}`

func TestParseReply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		wantRaw string
	}{
		{"plain JSON", modelJSON, modelJSON},
		{"json fenced", "```json\n" + modelJSON + "\n```", modelJSON},
		{"bare fenced with whitespace", "  ```\n" + modelJSON + "\n```  \n", modelJSON},
		{"first message without evaluation", `{"evaluation":null,"feedback":"Hi","nextQuestion":"Q1"}`,
			`{"evaluation":null,"feedback":"Hi","nextQuestion":"Q1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reply := interviewsvc.ParseReply(tt.text)

			assert.Equal(t, tt.wantRaw, string(reply.Raw))
		})
	}

	reply := interviewsvc.ParseReply(modelJSON)
	require.NotNil(t, reply.Evaluation)
	assert.InDelta(t, 8.0, reply.Evaluation.Score, 1e-9)
	assert.Equal(t, "Why channels?", reply.NextQuestion)
}

func TestParseReply_Degrades(t *testing.T) {
	t.Parallel()

	text := "Sorry, I can only answer in prose today."

	reply := interviewsvc.ParseReply(text)

	assert.Nil(t, reply.Evaluation)
	assert.Equal(t, text, reply.Feedback)
	assert.Empty(t, reply.NextQuestion)
	assert.JSONEq(t, `{"evaluation":null,"feedback":"Sorry, I can only answer in prose today.","nextQuestion":""}`,
		string(reply.Raw))
}
