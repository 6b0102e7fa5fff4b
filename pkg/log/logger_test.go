package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/logiteval/pkg/errors"
)

func TestTestLogger(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationEvaluate)
	testLogger.Warn("warning message")
	testLogger.Error("error message", fmt.Errorf("fold failed"), FoldKey, 3)

	require.NotEmpty(t, buffer.String())
	assert.True(t, testLogger.ContainsMessage("debug message"))
	assert.True(t, testLogger.ContainsMessage("warning message"))
	assert.True(t, testLogger.ContainsField("key1", "value1"))
	assert.True(t, testLogger.ContainsField("number", 42.0))
	assert.True(t, testLogger.ContainsField(ErrAttrKey, "fold failed"))
	assert.True(t, testLogger.ContainsField(FoldKey, 3.0))
}

func TestTestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	child := testLogger.With(ComponentKey, "evaluation", ModeKey, ModeCrossValidated)
	child.Info("fold finished", FoldKey, 1)

	entries, err := testLogger.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "evaluation", entries[0][ComponentKey])
	assert.Equal(t, ModeCrossValidated, entries[0][ModeKey])
	assert.Equal(t, 1.0, entries[0][FoldKey])
}

func TestTestLoggerEnabled(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	assert.True(t, testLogger.Enabled(ctx, LevelInfo))
	assert.True(t, testLogger.Enabled(ctx, LevelError))
	assert.False(t, testLogger.Enabled(ctx, LevelDebug))

	testLogger.Debug("hidden")
	testLogger.Info("shown")
	assert.False(t, testLogger.ContainsMessage("hidden"))
	assert.True(t, testLogger.ContainsMessage("shown"))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "debug", want: LevelDebug},
		{in: "INFO", want: LevelInfo},
		{in: "", want: LevelInfo},
		{in: "warn", want: LevelWarn},
		{in: "error", want: LevelError},
		{in: "verbose", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupLoggerTo(t *testing.T) {
	defer SetLogger(nil)

	var buf bytes.Buffer
	require.NoError(t, SetupLoggerTo(&buf, "info"))

	GetLogger().Error("fit failed", errors.NewValueError("Fit", "bad input"), FoldKey, 2)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "fit failed", entry["message"])
	assert.Equal(t, "ERROR", entry["severity"])
	assert.Equal(t, 2.0, entry[FoldKey])
	assert.Contains(t, entry, StacktraceAttrKey)

	assert.Error(t, SetupLoggerTo(&buf, "loud"))
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	assert.False(t, logger.Enabled(context.Background(), LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), LevelWarn))

	logger.Debug("hidden")
	logger.With(ComponentKey, "glm").Info("fit finished", IterationKey, 6)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "fit finished", entry["message"])
	assert.Equal(t, "glm", entry[ComponentKey])
	assert.Equal(t, 6.0, entry[IterationKey])
}

func TestZerologLoggerStructuredError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)

	logger.Error("evaluation failed", errors.NewInvalidFoldCountError(1, 8))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "InvalidFoldCountError", entry["type"])
	assert.Equal(t, 1.0, entry["folds"])
	assert.Equal(t, 8.0, entry["rows"])
}

func TestZerologInstallWarnings(t *testing.T) {
	defer errors.SetZerologWarnFunc(nil)

	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)
	logger.InstallWarnings()

	errors.Warn(errors.NewConvergenceWarning("IRLS", 25, ""))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "ConvergenceWarning", entry["type"])
	assert.Equal(t, 25.0, entry["iterations"])
}
