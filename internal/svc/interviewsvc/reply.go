package interviewsvc

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/mkrupp/smart-interviewer/internal/domain"
)

//nolint:gochecknoglobals
var (
	jsonFence = regexp.MustCompile("```json\n?")
	anyFence  = regexp.MustCompile("```\n?")
)

// ParseReply interprets the model's text. Markdown code fences are removed
// and, if the remainder is valid JSON, it is kept verbatim in Raw. Anything
// else degrades to a reply whose feedback is the original text.
func ParseReply(text string) domain.InterviewReply {
	clean := jsonFence.ReplaceAllString(text, "")
	clean = strings.TrimSpace(anyFence.ReplaceAllString(clean, ""))

	if json.Valid([]byte(clean)) {
		var reply domain.InterviewReply

		// non-object JSON is still relayed as is
		_ = json.Unmarshal([]byte(clean), &reply)
		reply.Raw = json.RawMessage(clean)

		return reply
	}

	reply := domain.InterviewReply{
		Evaluation:   nil,
		Feedback:     text,
		NextQuestion: "",
	}

	raw, err := json.Marshal(reply)
	if err == nil {
		reply.Raw = raw
	}

	return reply
}
