package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkrupp/smart-interviewer/internal/domain"
	context_ "github.com/mkrupp/smart-interviewer/internal/infra/context"
	"github.com/mkrupp/smart-interviewer/internal/infra/logging"
)

//nolint:paralleltest
func TestGetLogger_ConsoleOutput(t *testing.T) {
	var buf bytes.Buffer

	logging.Configure(context.Background(), logging.LoggerConfig{
		OutputHandle: &buf,
		Level:        "debug",
		Filter:       "svc.noisy:error",
		Color:        "never",
	}, "test")

	ctx := context_.WithTraceID(context.Background(), "trace-1")
	ctx = context_.WithSession(ctx, domain.SessionClaims{ID: "user_1"})

	logging.GetLogger("svc.authsvc").InfoContext(ctx, "hello", "k", "v")
	logging.GetLogger("svc.noisy.child").InfoContext(ctx, "suppressed")

	out := buf.String()

	assert.Contains(t, out, "[INFO] hello")
	assert.Contains(t, out, "logger=svc.authsvc")
	assert.Contains(t, out, "k=v")
	assert.Contains(t, out, "trace.id=trace-1")
	assert.Contains(t, out, "session.user=user_1")
	assert.NotContains(t, out, "suppressed")
	assert.False(t, strings.Contains(out, "\033["), "no ANSI codes expected")
}

//nolint:paralleltest
func TestGetLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer

	logging.Configure(context.Background(), logging.LoggerConfig{
		OutputHandle: &buf,
		Level:        "warn",
		JSON:         true,
	}, "test")

	log := logging.GetLogger("svc.interviewsvc")
	log.Info("below level")
	log.Warn("at level")

	out := buf.String()

	assert.NotContains(t, out, "below level")
	assert.Contains(t, out, `"msg":"at level"`)
	assert.Contains(t, out, `"logger":"svc.interviewsvc"`)
}
