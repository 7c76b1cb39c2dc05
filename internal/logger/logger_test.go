package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.Disabled, ParseLevel("disabled"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestComponentFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Output: &buf})

	log := l.Component("search")
	log.Warn().Str("text", "actors").Msg("ambiguous")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "search", line["component"])
	assert.Equal(t, "nlgkit", line["service"])
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "actors", line["text"])
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Output: &buf})

	l.LogStoreOperation("get", "n1", time.Millisecond, nil)
	assert.Zero(t, buf.Len())

	l.LogTemplatize("x", 0, time.Millisecond, errors.New("boom"))
	assert.Contains(t, buf.String(), `"error":"boom"`)
	assert.Contains(t, buf.String(), "templatize completed")
}

func TestNop(t *testing.T) {
	Nop().LogTemplatize("x", 1, time.Second, nil)
	assert.Equal(t, zerolog.Disabled, Nop().Zerolog().GetLevel())
}
