package interviewsvc

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mkrupp/smart-interviewer/internal/domain"
)

const reportRule = "=================================================="

// ReportFilename is the attachment name of a report generated at t.
func ReportFilename(t time.Time) string {
	return "interview-report-" + t.UTC().Format(time.DateOnly) + ".txt"
}

// BuildReport renders a plain-text interview report.
func BuildReport(req domain.ReportRequest, score domain.InterviewScore) string {
	var b strings.Builder

	b.WriteString("AI Interview Report\n" + reportRule + "\n\n")
	fmt.Fprintf(&b, "Mode: %s\n", req.Config.Mode)
	fmt.Fprintf(&b, "Difficulty: %s\n", req.Config.Difficulty)
	fmt.Fprintf(&b, "Duration: %s\n", formatDuration(req.DurationSeconds))
	fmt.Fprintf(&b, "Questions Answered: %d\n", score.QuestionsAnswered)
	fmt.Fprintf(&b, "Overall Score: %.1f/10\n\n", score.Overall)
	b.WriteString(reportRule + "\nConversation\n" + reportRule + "\n\n")

	for _, turn := range req.Messages {
		fmt.Fprintf(&b, "[%s] %s\n", strings.ToUpper(string(turn.Role)), turn.Content)

		if eval := turn.Evaluation; eval != nil {
			fmt.Fprintf(&b, "Score: %s/10\n", strconv.FormatFloat(eval.Score, 'f', -1, 64))
			fmt.Fprintf(&b, "Strengths: %s\n", strings.Join(eval.Strengths, ", "))
			fmt.Fprintf(&b, "Weaknesses: %s\n", strings.Join(eval.Weaknesses, ", "))
			fmt.Fprintf(&b, "Improvement: %s\n", eval.Improvement)
			fmt.Fprintf(&b, "Model Answer: %s\n", eval.ModelAnswer)
		}

		b.WriteString("\n")
	}

	return b.String()
}

func formatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}

	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
