package logger

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// stripANSI removes ANSI color codes from a string for testing
func stripANSI(str string) string {
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(str, "")
}

// The console encoder must never silently discard fields.
func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	encoder := newMinimalEncoder()

	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Date(2026, 1, 2, 13, 4, 35, 0, time.UTC),
		LoggerName: "ix.citeseer",
		Message:    "Fold written",
	}

	testFields := []struct {
		field    zapcore.Field
		mustFind string
	}{
		{zap.Int("fold", 2), "fold=2"},
		{zap.Int64("records", 9999999), "records=9999999"},
		{zap.String("relation", "simName"), "relation=simName"},
		{zap.Float64("sim_threshold", 0.5), "sim_threshold=0.5"},
		{zap.Bool("write_truth", true), "write_truth=true"},
		{zap.Strings("relations", []string{"a", "b"}), "relations=[a b]"},
		{zap.Error(errors.New("disk full")), "error=disk full"},
		{zap.Error(nil), ""},
	}

	var allFields []zapcore.Field
	for _, tf := range testFields {
		allFields = append(allFields, tf.field)
	}

	buf, err := encoder.EncodeEntry(entry, allFields)
	require.NoError(t, err)
	out := stripANSI(buf.String())

	assert.Contains(t, out, "13:04:35")
	assert.Contains(t, out, "ix.citeseer")
	assert.Contains(t, out, "Fold written")
	for _, tf := range testFields {
		if tf.mustFind == "" {
			continue
		}
		assert.Contains(t, out, tf.mustFind)
	}
	assert.NotContains(t, out, "INFO", "INFO level is implicit")
}

func TestMinimalEncoderContextFields(t *testing.T) {
	base := newMinimalEncoder()
	base.AddString("run_id", "abc")
	base.AddInt("fold", 1)

	clone := base.Clone()
	clone.AddString("extra", "only-in-clone")

	entry := zapcore.Entry{Level: zapcore.WarnLevel, Time: time.Now(), Message: "slow fold"}

	buf, err := clone.EncodeEntry(entry, []zapcore.Field{zap.Int("records", 3)})
	require.NoError(t, err)
	out := stripANSI(buf.String())
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "fold=1 run_id=abc")
	assert.Contains(t, out, "extra=only-in-clone")
	assert.Contains(t, out, "records=3")

	buf, err = base.EncodeEntry(entry, nil)
	require.NoError(t, err)
	assert.NotContains(t, stripANSI(buf.String()), "only-in-clone")
}
