package parser

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnostic_String(t *testing.T) {
	file := fileDiagnostic(slog.LevelInfo, KindInferredFormat, "inferred date format: day/month/year")
	assert.Equal(t, "inferred_format: inferred date format: day/month/year", file.String())

	msg := messageDiagnostic(slog.LevelWarn, KindMissingSeparator, 4, "raw", "no separator")
	assert.Equal(t, "missing_separator at message 4: no separator", msg.String())
}

func TestLogDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	LogDiagnostics(context.Background(), logger, []Diagnostic{
		messageDiagnostic(slog.LevelWarn, KindUnparseableDate, 2, "13/13/20 - x", "bad date"),
		fileDiagnostic(slog.LevelDebug, KindInferredFormat, "hidden"),
	})

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "kind=unparseable_date")
	assert.Contains(t, out, "index=2")
	assert.Contains(t, out, `raw="13/13/20 - x"`)
	assert.NotContains(t, out, "hidden")
}
