package interviewsvc_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/smart-interviewer/internal/domain"
	"github.com/mkrupp/smart-interviewer/internal/svc/interviewsvc"
)

// fakeModel records the last chat request and returns a canned reply.
type fakeModel struct {
	reply string
	err   error
	last  interviewsvc.ChatRequest
	calls int
}

func (m *fakeModel) Chat(_ context.Context, req interviewsvc.ChatRequest) (string, error) {
	m.calls++
	m.last = req

	return m.reply, m.err
}

func newTransport(t *testing.T, model interviewsvc.Model) *interviewsvc.HTTPTransport {
	t.Helper()

	svc, err := interviewsvc.NewInterviewServiceWith(model, interviewsvc.InterviewConfig{Timeout: time.Second})
	require.NoError(t, err)

	return interviewsvc.NewHTTPTransport(svc)
}

func post(h http.Handler, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))

	return rec
}

func TestHTTPTransport_Interview(t *testing.T) {
	t.Parallel()

	model := &fakeModel{reply: "```json\n" + modelJSON + "\n```"}
	h := newTransport(t, model)

	rec := post(h, "/api/interview", `{
		"messages": [
			{"role": "ai", "content": "Hello! What is Go?"},
			{"role": "user", "content": "A programming language."}
		],
		"config": {"mode": "technical", "difficulty": "easy", "role": "SRE"}
	}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, modelJSON, rec.Body.String())

	assert.Equal(t, "A programming language.", model.last.Message)
	assert.Equal(t, []interviewsvc.ChatTurn{
		{Role: interviewsvc.ChatRoleUser, Text: interviewsvc.StartMessage},
		{Role: interviewsvc.ChatRoleModel, Text: "Hello! What is Go?"},
	}, model.last.History)
	assert.Contains(t, model.last.SystemInstruction, "role of: SRE")
}

func TestHTTPTransport_InterviewFailures(t *testing.T) {
	t.Parallel()

	validBody := `{"messages":[],"config":{"mode":"hr","difficulty":"hard"}}`

	tests := []struct {
		name       string
		body       string
		modelErr   error
		wantStatus int
		wantBody   string
		wantCalls  int
	}{
		{
			name:       "invalid mode",
			body:       `{"messages":[],"config":{"mode":"chess","difficulty":"hard"}}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Unknown interview mode \"chess\"."}`,
		},
		{
			name:       "invalid turn role",
			body:       `{"messages":[{"role":"system","content":"x"}],"config":{"mode":"hr","difficulty":"hard"}}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Message 0 has unknown role \"system\"."}`,
		},
		{
			name:       "missing api key",
			body:       validBody,
			modelErr:   domain.ErrModelNotConfigured,
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Interview model is not configured on the server."}`,
			wantCalls:  1,
		},
		{
			name:       "model fault",
			body:       validBody,
			modelErr:   errors.Join(domain.ErrModelFailed, errors.New("quota exceeded for key abc")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Failed to process interview request."}`,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			model := &fakeModel{err: tt.modelErr}
			rec := post(newTransport(t, model), "/api/interview", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, tt.wantCalls, model.calls)
		})
	}
}

func TestGeminiModel_MissingAPIKey(t *testing.T) {
	t.Parallel()

	_, err := interviewsvc.NewGeminiModel("", "gemini-2.5-flash").Chat(context.Background(), interviewsvc.ChatRequest{
		Message: interviewsvc.StartMessage,
	})
	require.ErrorIs(t, err, domain.ErrModelNotConfigured)
}

func TestHTTPTransport_Score(t *testing.T) {
	t.Parallel()

	body, err := json.Marshal(domain.InterviewRequest{
		Config:   domain.InterviewConfig{Mode: domain.ModeTechnical, Difficulty: domain.DifficultyEasy},
		Messages: transcript(),
	})
	require.NoError(t, err)

	rec := post(newTransport(t, &fakeModel{}), "/api/interview/score", string(body))

	require.Equal(t, http.StatusOK, rec.Code)

	var score domain.InterviewScore
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &score))
	assert.Equal(t, 3, score.QuestionsAnswered)
	assert.InDelta(t, 8, score.Overall, 1e-9)
}

func TestHTTPTransport_Report(t *testing.T) {
	t.Parallel()

	rec := post(newTransport(t, &fakeModel{}), "/api/interview/report",
		`{"messages":[{"role":"ai","content":"Hi"}],"config":{"mode":"hr","difficulty":"easy"},"durationSeconds":61}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Regexp(t, `^attachment; filename=interview-report-\d{4}-\d{2}-\d{2}\.txt$`,
		rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), "Duration: 01:01\n")
	assert.Contains(t, rec.Body.String(), "[AI] Hi\n")
}
